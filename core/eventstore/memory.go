package eventstore

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-memory Store used by tests and dry runs.
type Memory struct {
	mu          sync.Mutex
	collections map[string]*MemoryCollection
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{collections: make(map[string]*MemoryCollection)}
}

// EnsureCollection returns the named collection, creating it if absent.
func (m *Memory) EnsureCollection(ctx context.Context, name string) (Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.collections[name]; ok {
		return c, nil
	}
	c := &MemoryCollection{events: make(map[string]Fields)}
	m.collections[name] = c
	return c, nil
}

// MemoryCollection is one in-memory calendar.
type MemoryCollection struct {
	mu     sync.Mutex
	events map[string]Fields
}

func (c *MemoryCollection) ListEvents(ctx context.Context) (map[string]Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := make(map[string]Event, len(c.events))
	for id, fields := range c.events {
		snapshot[id] = Event{ID: id, Fields: fields}
	}
	return snapshot, nil
}

func (c *MemoryCollection) CreateEvent(ctx context.Context, fields Fields) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := uuid.NewString()
	c.events[id] = fields
	return id, nil
}

func (c *MemoryCollection) UpdateEvent(ctx context.Context, id string, fields Fields) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.events[id]; !ok {
		return ErrNotFound
	}
	c.events[id] = fields
	return nil
}

func (c *MemoryCollection) DeleteEvent(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.events[id]; !ok {
		return ErrNotFound
	}
	delete(c.events, id)
	return nil
}

// Len reports the number of events currently held.
func (c *MemoryCollection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}
