package alpha

import (
	"math"
	"strings"
	"time"

	"github.com/claude/gymlog/internal/models"
	"github.com/google/uuid"
)

// importNamespace seeds session IDs so re-importing the same export yields the
// same identities.
var importNamespace = uuid.MustParse("5b0e6f3c-9a57-4d8e-8c1f-2f7a4b6d9e30")

// WorkoutType takes the type from the first word of a session name, e.g.
// "Push · Day 1 · Week 4" is Push.
func WorkoutType(sessionName string) (models.WorkoutType, bool) {
	fields := strings.FieldsFunc(sessionName, func(r rune) bool {
		return r == ' ' || r == '·' || r == '-' || r == '/'
	})
	if len(fields) == 0 {
		return "", false
	}
	wt, err := models.ParseWorkoutType(fields[0])
	if err != nil {
		return "", false
	}
	return wt, true
}

// ToWorkoutSessions converts parsed sessions into history entries. Warmups are
// dropped, weights are rounded to the nearest 0.5, rows with no reps are
// skipped and repeated exercises within a session are merged. Sessions whose
// type cannot be determined or that end up empty are returned by name in skipped.
func ToWorkoutSessions(in []Session) (out []models.WorkoutSession, skipped []string) {
	for _, s := range in {
		wt, ok := WorkoutType(s.Name)
		if !ok {
			skipped = append(skipped, s.Name)
			continue
		}
		ws := models.WorkoutSession{
			ID:        sessionID(s.Name, s.Date),
			Type:      wt,
			Date:      s.Date,
			Exercises: []models.ExerciseRecord{},
		}
		index := make(map[string]int)
		for _, ex := range s.Exercises {
			sets := workingSets(ex.Sets)
			if len(sets) == 0 {
				continue
			}
			if i, seen := index[ex.Name]; seen {
				ws.Exercises[i].Sets = append(ws.Exercises[i].Sets, sets...)
				continue
			}
			rec := models.NewExerciseRecord(ex.Name)
			rec.Sets = sets
			index[ex.Name] = len(ws.Exercises)
			ws.Exercises = append(ws.Exercises, rec)
		}
		if len(ws.Exercises) == 0 {
			skipped = append(skipped, s.Name)
			continue
		}
		out = append(out, ws)
	}
	return out, skipped
}

func workingSets(in []Set) []models.SetEntry {
	var out []models.SetEntry
	for _, s := range in {
		if s.Reps < 1 || s.Weight < 0 {
			continue
		}
		out = append(out, models.SetEntry{Weight: math.Round(s.Weight*2) / 2, Reps: s.Reps})
	}
	return out
}

func sessionID(name string, date time.Time) uuid.UUID {
	return uuid.NewSHA1(importNamespace, []byte(name+"|"+date.Format(time.RFC3339)))
}
