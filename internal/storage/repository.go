package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/claude/gymlog/internal/catalog"
	"github.com/claude/gymlog/internal/models"
)

// Persisted keys.
const (
	KeySessions = "savedWorkouts"
	KeyRegistry = "customExercisesByType"
)

// Operation names passed to Repository.OnError.
const (
	OpLoad   = "load"
	OpDecode = "decode"
	OpEncode = "encode"
	OpSave   = "save"
)

// Repository stores sessions and the custom exercise registry as JSON in a
// KV. Loads fall back to empty values and saves are best effort: failures are
// reported through OnError and never returned. The Fetch and Update variants
// return failures as well, for callers sharing the store with other processes.
type Repository struct {
	kv KV

	// OnError, if set, is called for every swallowed failure.
	OnError func(op, key string, err error)
}

// NewRepository wraps kv.
func NewRepository(kv KV) *Repository {
	return &Repository{kv: kv}
}

// maxUpdateAttempts bounds the retries of one read-modify-write when other
// writers keep changing the same key.
const maxUpdateAttempts = 5

// LoadSessions returns the saved sessions, or an empty slice if none are
// stored or the payload cannot be read.
func (r *Repository) LoadSessions(ctx context.Context) []models.WorkoutSession {
	sessions, err := r.FetchSessions(ctx)
	if err != nil {
		return []models.WorkoutSession{}
	}
	return sessions
}

// FetchSessions is LoadSessions except that a failed read is returned, so the
// caller can keep what it already has instead of an empty history.
func (r *Repository) FetchSessions(ctx context.Context) ([]models.WorkoutSession, error) {
	data, ok, err := r.kv.Get(ctx, KeySessions)
	if err != nil {
		r.report(OpLoad, KeySessions, err)
		return nil, err
	}
	if !ok {
		data = nil
	}
	return r.decodeSessions(data), nil
}

// SaveSessions writes the full session list.
func (r *Repository) SaveSessions(ctx context.Context, sessions []models.WorkoutSession) {
	if sessions == nil {
		sessions = []models.WorkoutSession{}
	}
	r.save(ctx, KeySessions, sessions)
}

// UpdateSessions reads the stored sessions, passes them to fn and writes
// fn's result if fn reports a change. When another writer changed the list
// in between, fn runs again on the fresh list. The returned list is the one
// now stored. A non-nil error means the change did not land; it has already
// been reported through OnError.
func (r *Repository) UpdateSessions(ctx context.Context, fn func([]models.WorkoutSession) ([]models.WorkoutSession, bool)) ([]models.WorkoutSession, error) {
	var out []models.WorkoutSession
	err := r.update(ctx, KeySessions, func(data []byte) (any, bool) {
		next, changed := fn(r.decodeSessions(data))
		if next == nil {
			next = []models.WorkoutSession{}
		}
		out = next
		return next, changed
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// LoadRegistry returns the saved custom exercises, or an empty registry.
// Unknown workout types and invalid names are dropped.
func (r *Repository) LoadRegistry(ctx context.Context) *catalog.Registry {
	reg, err := r.FetchRegistry(ctx)
	if err != nil {
		return catalog.NewRegistry()
	}
	return reg
}

// FetchRegistry is LoadRegistry except that a failed read is returned.
func (r *Repository) FetchRegistry(ctx context.Context) (*catalog.Registry, error) {
	data, ok, err := r.kv.Get(ctx, KeyRegistry)
	if err != nil {
		r.report(OpLoad, KeyRegistry, err)
		return nil, err
	}
	if !ok {
		data = nil
	}
	return r.decodeRegistry(data), nil
}

// SaveRegistry writes the custom exercise registry.
func (r *Repository) SaveRegistry(ctx context.Context, reg *catalog.Registry) {
	r.save(ctx, KeyRegistry, reg.Map())
}

// UpdateRegistry is UpdateSessions for the custom exercise registry. fn may
// modify the registry it is given and reports whether it did.
func (r *Repository) UpdateRegistry(ctx context.Context, fn func(*catalog.Registry) bool) (*catalog.Registry, error) {
	var out *catalog.Registry
	err := r.update(ctx, KeyRegistry, func(data []byte) (any, bool) {
		out = r.decodeRegistry(data)
		changed := fn(out)
		return out.Map(), changed
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Close closes the underlying store.
func (r *Repository) Close() error {
	return r.kv.Close()
}

func (r *Repository) decodeSessions(data []byte) []models.WorkoutSession {
	var sessions []models.WorkoutSession
	if !r.decode(KeySessions, data, &sessions) || sessions == nil {
		return []models.WorkoutSession{}
	}
	return sessions
}

func (r *Repository) decodeRegistry(data []byte) *catalog.Registry {
	var m map[models.WorkoutType][]string
	if !r.decode(KeyRegistry, data, &m) {
		return catalog.NewRegistry()
	}
	return catalog.RegistryFromMap(m)
}

// decode unmarshals a stored payload. A nil payload is a missing key.
func (r *Repository) decode(key string, data []byte, v any) bool {
	if data == nil {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		r.report(OpDecode, key, fmt.Errorf("decoding %s: %w", key, err))
		return false
	}
	return true
}

// update runs apply against the stored payload of key and writes its result
// with CompareAndPut, retrying on ErrConflict.
func (r *Repository) update(ctx context.Context, key string, apply func(data []byte) (any, bool)) error {
	var err error
	for range maxUpdateAttempts {
		data, rev, gerr := r.kv.GetRevision(ctx, key)
		if gerr != nil {
			r.report(OpLoad, key, gerr)
			return gerr
		}
		v, changed := apply(data)
		if !changed {
			return nil
		}
		encoded, eerr := json.Marshal(v)
		if eerr != nil {
			err = fmt.Errorf("encoding %s: %w", key, eerr)
			r.report(OpEncode, key, err)
			return err
		}
		if _, err = r.kv.CompareAndPut(ctx, key, encoded, rev); !errors.Is(err, ErrConflict) {
			break
		}
	}
	if err != nil {
		r.report(OpSave, key, err)
	}
	return err
}

func (r *Repository) save(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		r.report(OpEncode, key, fmt.Errorf("encoding %s: %w", key, err))
		return
	}
	if err := r.kv.Put(ctx, key, data); err != nil {
		r.report(OpSave, key, err)
	}
}

func (r *Repository) report(op, key string, err error) {
	if r.OnError != nil {
		r.OnError(op, key, err)
	}
}
