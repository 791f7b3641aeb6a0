package sync

import "time"

// keyTimeLayout is a naive local timestamp. The layout is part of the
// persisted mapping format and must stay stable across releases.
const keyTimeLayout = "2006-01-02T15:04:05"

// Key derives the stable identity of an intent from its title and original
// instants. Changing any of the three makes a new identity, which the engine
// resolves as a delete of the old event plus a create of a new one. Editing
// description, location or the all-day flag keeps the identity and becomes an
// in-place update.
func Key(i Intent) string {
	return i.Title + "_" + i.OriginalStart.Format(keyTimeLayout) + "_" + i.OriginalEnd.Format(keyTimeLayout)
}

// FormatInstant renders an instant the way the identity mapping stores it.
func FormatInstant(t time.Time) string {
	return t.Format(keyTimeLayout)
}
