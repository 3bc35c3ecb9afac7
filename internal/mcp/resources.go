package mcp

import (
	"context"
	"encoding/json"

	"github.com/claude/gymlog/internal/catalog"
	"github.com/claude/gymlog/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) recentWorkouts(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	ov, err := h.ds.Stats(ctx, recentWorkouts)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(ov.Recent)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

type catalogEntry struct {
	BuiltIn []string `json:"built_in"`
	Custom  []string `json:"custom"`
}

func (h *handlers) exerciseCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	custom, err := h.ds.CustomExercises(ctx)
	if err != nil {
		h.log.Warn("exercise_catalog: custom exercises failed", "error", err)
	}

	out := make(map[models.WorkoutType]catalogEntry, len(models.AllWorkoutTypes()))
	for _, t := range models.AllWorkoutTypes() {
		entry := catalogEntry{BuiltIn: catalog.BuiltIn(t), Custom: custom[t]}
		if entry.Custom == nil {
			entry.Custom = []string{}
		}
		out[t] = entry
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
