package eventstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when an event identifier is unknown to a collection.
var ErrNotFound = errors.New("event not found")

// Fields is the full set of writable event properties. The sync engine always
// writes all of them; backends must not merge partial updates.
type Fields struct {
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	AllDay      bool      `json:"allDay"`
}

// Event is one calendar event as held by a backend.
type Event struct {
	ID     string `json:"id"`
	Fields Fields `json:"fields"`
}

// Collection is one named calendar within a Store.
type Collection interface {
	// ListEvents returns a snapshot of all events keyed by identifier.
	ListEvents(ctx context.Context) (map[string]Event, error)
	// CreateEvent adds an event and returns the identifier assigned by the backend.
	CreateEvent(ctx context.Context, fields Fields) (string, error)
	// UpdateEvent replaces all fields of an existing event.
	UpdateEvent(ctx context.Context, id string, fields Fields) error
	// DeleteEvent removes an event.
	DeleteEvent(ctx context.Context, id string) error
}

// Store is a calendar backend holding named collections.
type Store interface {
	// EnsureCollection returns the named collection, creating it if absent.
	EnsureCollection(ctx context.Context, name string) (Collection, error)
}
