package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// WorkoutType is the category a session is planned under.
type WorkoutType string

const (
	Upper WorkoutType = "Upper"
	Lower WorkoutType = "Lower"
	Push  WorkoutType = "Push"
	Pull  WorkoutType = "Pull"
	Legs  WorkoutType = "Legs"
)

var allWorkoutTypes = []WorkoutType{Upper, Lower, Push, Pull, Legs}

// AllWorkoutTypes returns every workout type in display order.
func AllWorkoutTypes() []WorkoutType {
	out := make([]WorkoutType, len(allWorkoutTypes))
	copy(out, allWorkoutTypes)
	return out
}

// Valid reports whether t is one of the fixed workout types.
func (t WorkoutType) Valid() bool {
	for _, wt := range allWorkoutTypes {
		if t == wt {
			return true
		}
	}
	return false
}

// ParseWorkoutType maps a case-insensitive name ("push", "LEGS") to its WorkoutType.
func ParseWorkoutType(s string) (WorkoutType, error) {
	s = strings.TrimSpace(s)
	for _, wt := range allWorkoutTypes {
		if strings.EqualFold(s, string(wt)) {
			return wt, nil
		}
	}
	return "", fmt.Errorf("unknown workout type %q", s)
}

// SetEntry is one logged set.
type SetEntry struct {
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
}

// ExerciseRecord is a named exercise and the sets logged for it within one session.
type ExerciseRecord struct {
	ID   uuid.UUID  `json:"id"`
	Name string     `json:"name"`
	Sets []SetEntry `json:"sets"`
}

// NewExerciseRecord returns a record with a fresh ID and an empty set list.
func NewExerciseRecord(name string) ExerciseRecord {
	return ExerciseRecord{ID: uuid.New(), Name: name, Sets: []SetEntry{}}
}

// MaxWeight returns the heaviest weight among the record's sets, or 0.
func (e ExerciseRecord) MaxWeight() float64 {
	var best float64
	for _, s := range e.Sets {
		if s.Weight > best {
			best = s.Weight
		}
	}
	return best
}

// Clone returns a deep copy of the record.
func (e ExerciseRecord) Clone() ExerciseRecord {
	sets := make([]SetEntry, len(e.Sets))
	copy(sets, e.Sets)
	e.Sets = sets
	return e
}

// WorkoutSession is one completed, persisted workout.
type WorkoutSession struct {
	ID        uuid.UUID        `json:"id"`
	Type      WorkoutType      `json:"type"`
	Exercises []ExerciseRecord `json:"exercises"`
	Date      time.Time        `json:"date"`
}

// TotalSets is the number of sets across all exercises.
func (s WorkoutSession) TotalSets() int {
	n := 0
	for _, e := range s.Exercises {
		n += len(e.Sets)
	}
	return n
}

// MaxWeight is the heaviest set of the session, or 0.
func (s WorkoutSession) MaxWeight() float64 {
	var best float64
	for _, e := range s.Exercises {
		if w := e.MaxWeight(); w > best {
			best = w
		}
	}
	return best
}

// Exercise returns the record with the given name, if present.
func (s WorkoutSession) Exercise(name string) (ExerciseRecord, bool) {
	for _, e := range s.Exercises {
		if e.Name == name {
			return e, true
		}
	}
	return ExerciseRecord{}, false
}

// Clone returns a deep copy of the session.
func (s WorkoutSession) Clone() WorkoutSession {
	exercises := make([]ExerciseRecord, len(s.Exercises))
	for i, e := range s.Exercises {
		exercises[i] = e.Clone()
	}
	s.Exercises = exercises
	return s
}

// UnmarshalJSON accepts the session date either as an RFC 3339 string or as
// Unix seconds, so payloads written by older clients still load.
func (s *WorkoutSession) UnmarshalJSON(data []byte) error {
	type alias WorkoutSession
	aux := struct {
		*alias
		Date json.RawMessage `json:"date"`
	}{alias: (*alias)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	date, err := ParseSessionDate(aux.Date)
	if err != nil {
		return err
	}
	s.Date = date
	if s.Exercises == nil {
		s.Exercises = []ExerciseRecord{}
	}
	return nil
}

// ParseSessionDate decodes a JSON date value: a quoted RFC 3339 timestamp or a
// number of seconds since the Unix epoch.
func ParseSessionDate(raw json.RawMessage) (time.Time, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return time.Time{}, fmt.Errorf("missing session date")
	}
	if raw[0] == '"' {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return time.Time{}, err
		}
		t, err := time.Parse(time.RFC3339Nano, str)
		if err != nil {
			return time.Time{}, fmt.Errorf("cannot parse session date %q: %w", str, err)
		}
		return t, nil
	}
	secs, err := strconv.ParseFloat(string(raw), 64)
	if err != nil || math.IsNaN(secs) || math.IsInf(secs, 0) {
		return time.Time{}, fmt.Errorf("cannot parse session date %s", raw)
	}
	whole, frac := math.Modf(secs)
	return time.Unix(int64(whole), int64(frac*1e9)).UTC(), nil
}
