package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/progress"
)

// HTTPClient implements DataSource by calling the GymLog REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// the history lives on the server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

// getJSON fetches path and decodes the body into v. what names the payload in errors.
func (c *HTTPClient) getJSON(ctx context.Context, path string, params url.Values, what string, v any) error {
	body, err := c.get(ctx, path, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", what, err)
	}
	return nil
}

func (c *HTTPClient) ListSessions(ctx context.Context) ([]models.WorkoutSession, error) {
	var sessions []models.WorkoutSession
	if err := c.getJSON(ctx, "/api/v1/sessions", nil, "sessions", &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (c *HTTPClient) Progression(ctx context.Context, exercise string) (progress.Report, error) {
	params := url.Values{}
	params.Set("exercise", exercise)

	var rep progress.Report
	if err := c.getJSON(ctx, "/api/v1/progress", params, "progression", &rep); err != nil {
		return progress.Report{}, err
	}
	return rep, nil
}

func (c *HTTPClient) ExerciseNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.getJSON(ctx, "/api/v1/progress/exercises", nil, "exercise names", &names); err != nil {
		return nil, err
	}
	return names, nil
}

func (c *HTTPClient) AvailableExercises(ctx context.Context, wt models.WorkoutType, exclude []string) ([]string, error) {
	params := url.Values{}
	params.Set("type", string(wt))
	for _, name := range exclude {
		params.Add("exclude", name)
	}

	var names []string
	if err := c.getJSON(ctx, "/api/v1/exercises/available", params, "available exercises", &names); err != nil {
		return nil, err
	}
	return names, nil
}

func (c *HTTPClient) CustomExercises(ctx context.Context) (map[models.WorkoutType][]string, error) {
	var custom map[models.WorkoutType][]string
	if err := c.getJSON(ctx, "/api/v1/exercises/custom", nil, "custom exercises", &custom); err != nil {
		return nil, err
	}
	return custom, nil
}

func (c *HTTPClient) Stats(ctx context.Context, recent int) (progress.Overview, error) {
	params := url.Values{}
	params.Set("recent", strconv.Itoa(recent))

	var ov progress.Overview
	if err := c.getJSON(ctx, "/api/v1/stats", params, "stats", &ov); err != nil {
		return progress.Overview{}, err
	}
	return ov, nil
}
