package sync

import (
	"fmt"
	"time"

	"sheetcal/core/eventstore"
)

// Intent is one fully normalized row: what the calendar should contain for it.
//
// Start and End are the effective instants written to the event store. For
// all-day intents they span whole days; for timed intents they equal the
// original instants. OriginalStart and OriginalEnd are the instants exactly as
// parsed from the row and feed the event key, so toggling the all-day flag
// never changes an event's identity.
type Intent struct {
	Title       string
	Description string
	Location    string
	AllDay      bool

	Start time.Time
	End   time.Time

	OriginalStart time.Time
	OriginalEnd   time.Time
}

// Fields converts the intent to the writable event properties.
func (i Intent) Fields() eventstore.Fields {
	return eventstore.Fields{
		Summary:     i.Title,
		Description: i.Description,
		Location:    i.Location,
		Start:       i.Start,
		End:         i.End,
		AllDay:      i.AllDay,
	}
}

// RowError reports a row that could not be normalized. The row is skipped and
// the run continues.
type RowError struct {
	// Index is the zero-based position of the row among the parsed data rows.
	Index int
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Index, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Options tunes a reconciliation run.
type Options struct {
	// DryRun computes the full action plan but performs no event-store writes
	// and leaves the identity mapping untouched.
	DryRun bool
}

// Report counts what a reconciliation run did (or, under DryRun, would do).
type Report struct {
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Deleted   int `json:"deleted"`
	Failed    int `json:"failed"`
	// Skipped counts rows dropped during normalization.
	Skipped int `json:"skipped"`
}
