// Package storage persists the tracker's data as JSON blobs in a small
// key/value table. SQLite is the default backend; PostgreSQL is available for
// self-hosted deployments and Memory backs tests.
package storage

import (
	"context"
	"errors"
	"slices"
	"sync"
)

var (
	// ErrClosed is returned by a backend used after Close.
	ErrClosed = errors.New("store is closed")
	// ErrConflict is returned by CompareAndPut when the key was written by
	// someone else since it was read.
	ErrConflict = errors.New("stored value changed concurrently")
)

// KV is a key to blob store. Get reports ok=false for a missing key.
//
// Every write bumps the key's revision. GetRevision and CompareAndPut let
// several processes share one store: a write based on a stale read fails
// with ErrConflict instead of replacing the newer value.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	// GetRevision returns the value and its revision. A missing key has
	// revision 0 and a nil value.
	GetRevision(ctx context.Context, key string) ([]byte, int64, error)
	// CompareAndPut writes value only if key is still at rev and returns
	// the new revision.
	CompareAndPut(ctx context.Context, key string, value []byte, rev int64) (int64, error)
	Close() error
}

var (
	_ KV = (*Memory)(nil)
	_ KV = (*SQLite)(nil)
	_ KV = (*Postgres)(nil)
)

type memEntry struct {
	value []byte
	rev   int64
}

// Memory is an in-process KV. GetErr and PutErr, when set, are returned
// instead of touching the map.
type Memory struct {
	mu     sync.Mutex
	data   map[string]memEntry
	closed bool

	GetErr error
	PutErr error
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]memEntry)}
}

// Get returns a copy of the value stored under key.
func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, rev, err := m.GetRevision(ctx, key)
	return v, rev > 0, err
}

// GetRevision returns a copy of the value stored under key and its revision.
func (m *Memory) GetRevision(_ context.Context, key string) ([]byte, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, 0, ErrClosed
	}
	if m.GetErr != nil {
		return nil, 0, m.GetErr
	}
	e, ok := m.data[key]
	if !ok {
		return nil, 0, nil
	}
	return slices.Clone(e.value), e.rev, nil
}

// Put stores a copy of value under key.
func (m *Memory) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.writable(); err != nil {
		return err
	}
	m.data[key] = memEntry{value: slices.Clone(value), rev: m.data[key].rev + 1}
	return nil
}

// CompareAndPut stores value under key if the key is still at rev.
func (m *Memory) CompareAndPut(_ context.Context, key string, value []byte, rev int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.writable(); err != nil {
		return 0, err
	}
	if m.data[key].rev != rev {
		return 0, ErrConflict
	}
	m.data[key] = memEntry{value: slices.Clone(value), rev: rev + 1}
	return rev + 1, nil
}

// Close marks the store closed. Later calls return ErrClosed.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *Memory) writable() error {
	if m.closed {
		return ErrClosed
	}
	return m.PutErr
}
