package icsfile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"sheetcal/core/eventstore"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
)

// Store keeps each collection as one .ics file in a directory. Writes use a
// temp file and rename, so readers never observe a half-written calendar.
type Store struct {
	dir string
	mu  sync.Mutex
}

// New creates a store rooted at dir.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// EnsureCollection returns the collection backed by <name>.ics, creating the
// directory if needed. The file itself appears on the first write.
func (s *Store) EnsureCollection(_ context.Context, name string) (eventstore.Collection, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create calendar dir: %w", err)
	}
	return &collection{store: s, path: filepath.Join(s.dir, sanitizeName(name)+".ics")}, nil
}

type collection struct {
	store *Store
	path  string
}

func (c *collection) ListEvents(_ context.Context) (map[string]eventstore.Event, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	cal, err := c.load()
	if err != nil {
		return nil, err
	}

	events := make(map[string]eventstore.Event)
	for _, e := range cal.Events() {
		id := propValue(e, ics.ComponentPropertyUniqueId)
		if id == "" {
			continue
		}
		fields, err := readFields(e)
		if err != nil {
			return nil, fmt.Errorf("bad event %s in %s: %w", id, c.path, err)
		}
		events[id] = eventstore.Event{ID: id, Fields: fields}
	}
	return events, nil
}

func (c *collection) CreateEvent(_ context.Context, fields eventstore.Fields) (string, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	cal, err := c.load()
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	e := cal.AddEvent(id)
	e.SetDtStampTime(time.Now())
	writeFields(e, fields)

	if err := c.save(cal); err != nil {
		return "", err
	}
	return id, nil
}

func (c *collection) UpdateEvent(_ context.Context, id string, fields eventstore.Fields) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	cal, err := c.load()
	if err != nil {
		return err
	}

	var target *ics.VEvent
	for _, e := range cal.Events() {
		if propValue(e, ics.ComponentPropertyUniqueId) == id {
			target = e
			break
		}
	}
	if target == nil {
		return eventstore.ErrNotFound
	}

	target.SetDtStampTime(time.Now())
	writeFields(target, fields)
	return c.save(cal)
}

func (c *collection) DeleteEvent(_ context.Context, id string) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	cal, err := c.load()
	if err != nil {
		return err
	}

	found := false
	kept := cal.Components[:0]
	for _, comp := range cal.Components {
		if e, ok := comp.(*ics.VEvent); ok && propValue(e, ics.ComponentPropertyUniqueId) == id {
			found = true
			continue
		}
		kept = append(kept, comp)
	}
	if !found {
		return eventstore.ErrNotFound
	}
	cal.Components = kept
	return c.save(cal)
}

func (c *collection) load() (*ics.Calendar, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cal := ics.NewCalendar()
			cal.SetMethod(ics.MethodPublish)
			return cal, nil
		}
		return nil, fmt.Errorf("failed to read calendar %s: %w", c.path, err)
	}

	cal, err := ics.ParseCalendar(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse calendar %s: %w", c.path, err)
	}
	return cal, nil
}

func (c *collection) save(cal *ics.Calendar) error {
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(cal.Serialize()), 0o644); err != nil {
		return fmt.Errorf("failed to write calendar %s: %w", c.path, err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("failed to replace calendar %s: %w", c.path, err)
	}
	return nil
}

// writeFields replaces all writable properties of the event. All-day events
// carry DATE values, timed events UTC date-times.
func writeFields(e *ics.VEvent, f eventstore.Fields) {
	e.SetSummary(f.Summary)
	e.SetDescription(f.Description)
	e.SetLocation(f.Location)
	if f.AllDay {
		e.SetAllDayStartAt(f.Start)
		e.SetAllDayEndAt(f.End)
	} else {
		e.SetStartAt(f.Start.UTC())
		e.SetEndAt(f.End.UTC())
	}
}

func readFields(e *ics.VEvent) (eventstore.Fields, error) {
	fields := eventstore.Fields{
		Summary:     propValue(e, ics.ComponentPropertySummary),
		Description: propValue(e, ics.ComponentPropertyDescription),
		Location:    propValue(e, ics.ComponentPropertyLocation),
	}

	// A DTSTART without a time part marks an all-day event.
	dtstart := propValue(e, ics.ComponentPropertyDtStart)
	if dtstart != "" && !strings.Contains(dtstart, "T") {
		fields.AllDay = true
		start, err := time.ParseInLocation("20060102", dtstart, time.Local)
		if err != nil {
			return fields, fmt.Errorf("bad DTSTART %q: %w", dtstart, err)
		}
		end := start
		if dtend := propValue(e, ics.ComponentPropertyDtEnd); dtend != "" {
			end, err = time.ParseInLocation("20060102", dtend, time.Local)
			if err != nil {
				return fields, fmt.Errorf("bad DTEND %q: %w", dtend, err)
			}
		}
		fields.Start = start
		fields.End = end.Add(24*time.Hour - time.Nanosecond)
		return fields, nil
	}

	start, err := e.GetStartAt()
	if err != nil {
		return fields, fmt.Errorf("bad DTSTART: %w", err)
	}
	end, err := e.GetEndAt()
	if err != nil {
		return fields, fmt.Errorf("bad DTEND: %w", err)
	}
	fields.Start = start
	fields.End = end
	return fields, nil
}

func propValue(e *ics.VEvent, id ics.ComponentProperty) string {
	p := e.GetProperty(id)
	if p == nil {
		return ""
	}
	return p.Value
}

func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, name)
}
