package gormstore

import (
	"context"
	"fmt"
	"time"

	"sheetcal/core/eventstore"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// EventRecord is the persisted form of one calendar event. All collections
// share a single table, discriminated by the Calendar column.
type EventRecord struct {
	UID         string `gorm:"primaryKey"`
	Calendar    string `gorm:"index"`
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	AllDay      bool
}

// TableName overrides the gorm default.
func (EventRecord) TableName() string {
	return "events"
}

// Store is a calendar backend on a SQLite database.
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the database at path and migrates the schema.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	if err := db.AutoMigrate(&EventRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate events table: %w", err)
	}
	return &Store{db: db}, nil
}

// EnsureCollection returns the named collection. Collections have no existence
// of their own here, a collection is simply the set of rows carrying its name.
func (s *Store) EnsureCollection(_ context.Context, name string) (eventstore.Collection, error) {
	return &collection{db: s.db, name: name}, nil
}

type collection struct {
	db   *gorm.DB
	name string
}

func (c *collection) ListEvents(ctx context.Context) (map[string]eventstore.Event, error) {
	var records []EventRecord
	if err := c.db.WithContext(ctx).Where("calendar = ?", c.name).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	events := make(map[string]eventstore.Event, len(records))
	for _, r := range records {
		events[r.UID] = eventstore.Event{
			ID: r.UID,
			Fields: eventstore.Fields{
				Summary:     r.Summary,
				Description: r.Description,
				Location:    r.Location,
				Start:       r.Start,
				End:         r.End,
				AllDay:      r.AllDay,
			},
		}
	}
	return events, nil
}

func (c *collection) CreateEvent(ctx context.Context, fields eventstore.Fields) (string, error) {
	record := EventRecord{
		UID:         uuid.NewString(),
		Calendar:    c.name,
		Summary:     fields.Summary,
		Description: fields.Description,
		Location:    fields.Location,
		Start:       fields.Start,
		End:         fields.End,
		AllDay:      fields.AllDay,
	}
	if err := c.db.WithContext(ctx).Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to create event: %w", err)
	}
	return record.UID, nil
}

func (c *collection) UpdateEvent(ctx context.Context, id string, fields eventstore.Fields) error {
	// Updates uses a map so zero values (an empty description, AllDay false)
	// still overwrite the stored row.
	result := c.db.WithContext(ctx).
		Model(&EventRecord{}).
		Where("uid = ? AND calendar = ?", id, c.name).
		Updates(map[string]any{
			"summary":     fields.Summary,
			"description": fields.Description,
			"location":    fields.Location,
			"start":       fields.Start,
			"end":         fields.End,
			"all_day":     fields.AllDay,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update event %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return eventstore.ErrNotFound
	}
	return nil
}

func (c *collection) DeleteEvent(ctx context.Context, id string) error {
	result := c.db.WithContext(ctx).
		Where("uid = ? AND calendar = ?", id, c.name).
		Delete(&EventRecord{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete event %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return eventstore.ErrNotFound
	}
	return nil
}
