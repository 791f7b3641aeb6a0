package sync

import (
	"fmt"
	"time"

	"sheetcal/core/source"

	"github.com/araddon/dateparse"
)

// Normalize turns one spreadsheet row into an Intent.
//
// A row with title, start and end all absent is padding and is dropped
// silently, returning (nil, nil). A row where only some of the three are
// missing, or where a date fails to parse, returns an error; callers skip the
// row and keep going. Dates are parsed day-first, so 03/04/2024 is the 3rd of
// April.
func Normalize(row source.Row, loc *time.Location) (*Intent, error) {
	if !row.Title.Present && !row.Start.Present && !row.End.Present {
		return nil, nil
	}

	if !row.Title.Present {
		return nil, fmt.Errorf("missing required field title")
	}
	if !row.Start.Present {
		return nil, fmt.Errorf("missing required field start")
	}
	if !row.End.Present {
		return nil, fmt.Errorf("missing required field end")
	}

	start, err := parseInstant(row.Start, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid start: %w", err)
	}
	end, err := parseInstant(row.End, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid end: %w", err)
	}

	intent := &Intent{
		Title:         row.Title.String(),
		Description:   row.Description.String(),
		Location:      row.Location.String(),
		AllDay:        row.AllDay.Bool(),
		Start:         start,
		End:           end,
		OriginalStart: start,
		OriginalEnd:   end,
	}

	if intent.AllDay {
		intent.Start = startOfDay(start)
		intent.End = endOfDay(end)
	}
	return intent, nil
}

// NormalizeAll normalizes every row, keeping source order. Rows that fail are
// collected as RowErrors instead of aborting the run; silently dropped padding
// rows appear in neither slice.
func NormalizeAll(rows []source.Row, loc *time.Location) ([]Intent, []*RowError) {
	intents := make([]Intent, 0, len(rows))
	var rowErrs []*RowError

	for i, row := range rows {
		intent, err := Normalize(row, loc)
		if err != nil {
			rowErrs = append(rowErrs, &RowError{Index: i, Err: err})
			continue
		}
		if intent == nil {
			continue
		}
		intents = append(intents, *intent)
	}
	return intents, rowErrs
}

func parseInstant(f source.Field, loc *time.Location) (time.Time, error) {
	if t, ok := f.Value.(time.Time); ok {
		return t.In(loc), nil
	}
	return dateparse.ParseIn(f.String(), loc, dateparse.PreferMonthFirst(false))
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
