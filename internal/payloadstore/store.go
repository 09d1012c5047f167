// Package payloadstore keeps the most recently received webhook payloads for
// diagnostics. The core sync logic never touches it; the inbound boundary
// writes best-effort and the debug endpoint reads the latest entry.
package payloadstore

import (
	"context"
	"sync"
	"time"

	"github.com/meetsync/meetsync/internal/model"
)

// Store is the injected key-value abstraction for debug payloads.
type Store interface {
	// Put appends one received payload.
	Put(ctx context.Context, body []byte) error
	// GetLatest returns the most recently stored payload and its receipt
	// time, or model.ErrNotFound when nothing has been stored.
	GetLatest(ctx context.Context) ([]byte, time.Time, error)
	Close() error
}

// MemoryStore keeps only the latest payload in process memory. It is the
// default when no database path is configured, and mirrors the single-slot
// semantics the debug endpoint needs.
type MemoryStore struct {
	mu         sync.Mutex
	latest     []byte
	receivedAt time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Put(_ context.Context, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latest = append([]byte(nil), body...)
	m.receivedAt = time.Now().UTC()
	return nil
}

func (m *MemoryStore) GetLatest(_ context.Context) ([]byte, time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.latest == nil {
		return nil, time.Time{}, model.ErrNotFound
	}
	return append([]byte(nil), m.latest...), m.receivedAt, nil
}

func (m *MemoryStore) Close() error { return nil }
