package mcp

import (
	"context"
	"strings"

	"github.com/claude/gymlog/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

func workoutTypeNames() []string {
	types := models.AllWorkoutTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return names
}

// splitList parses a comma-separated argument, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// --- Tool definitions ---

var toolListSessions = mcp.NewTool("list_sessions",
	mcp.WithDescription("List saved workout sessions, newest first. Each session has its type, date, and exercises with every logged set (weight in kg and reps)."),
	mcp.WithString("type", mcp.Description("Only sessions of this workout type"), mcp.Enum(workoutTypeNames()...)),
	mcp.WithNumber("limit", mcp.Description("Maximum number of sessions to return. Defaults to all.")),
)

var toolGetProgression = mcp.NewTool("get_progression",
	mcp.WithDescription("Max-weight progression for one exercise: one point per session that included it, oldest first, plus best, first, improvement and session count."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name exactly as logged (e.g. 'Bench Press'). Use list_exercises to discover names.")),
)

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List every exercise name that appears in the saved history, sorted."),
)

var toolAvailableExercises = mcp.NewTool("available_exercises",
	mcp.WithDescription("Exercises that can be added to a workout of the given type: built-ins first, then custom exercises, minus any already chosen."),
	mcp.WithString("type", mcp.Required(), mcp.Description("Workout type"), mcp.Enum(workoutTypeNames()...)),
	mcp.WithString("exclude", mcp.Description("Comma-separated exercise names already in the workout")),
)

var toolGetStats = mcp.NewTool("get_stats",
	mcp.WithDescription("History totals (number of workouts and total sets) plus the most recent sessions."),
	mcp.WithNumber("recent", mcp.Description("How many recent sessions to include. Defaults to 3.")),
)

// --- Tool handlers ---

func (h *handlers) listSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var filter models.WorkoutType
	if v := req.GetString("type", ""); v != "" {
		wt, err := models.ParseWorkoutType(v)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		filter = wt
	}
	limit := req.GetInt("limit", 0)
	if limit < 0 {
		return mcp.NewToolResultError("limit must not be negative"), nil
	}

	sessions, err := h.ds.ListSessions(ctx)
	if err != nil {
		h.log.Error("mcp list_sessions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	out := make([]models.WorkoutSession, 0, len(sessions))
	for _, s := range sessions {
		if filter != "" && s.Type != filter {
			continue
		}
		out = append(out, s)
		if limit > 0 && len(out) == limit {
			break
		}
	}

	result, err := mcp.NewToolResultJSON(out)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getProgression(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}

	rep, err := h.ds.Progression(ctx, exercise)
	if err != nil {
		h.log.Error("mcp get_progression", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(rep)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := h.ds.ExerciseNames(ctx)
	if err != nil {
		h.log.Error("mcp list_exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(names)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) availableExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError("type parameter is required"), nil
	}
	wt, err := models.ParseWorkoutType(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	names, err := h.ds.AvailableExercises(ctx, wt, splitList(req.GetString("exclude", "")))
	if err != nil {
		h.log.Error("mcp available_exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(names)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	recent := req.GetInt("recent", recentWorkouts)
	if recent < 0 {
		return mcp.NewToolResultError("recent must not be negative"), nil
	}

	ov, err := h.ds.Stats(ctx, recent)
	if err != nil {
		h.log.Error("mcp get_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(ov)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
