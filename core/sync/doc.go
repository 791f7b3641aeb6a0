// Package sync implements the one-way reconciliation from spreadsheet rows to
// calendar events.
//
// The pipeline per target is: normalize the rows into Intents, derive each
// intent's stable event key, then reconcile the intents against the event
// store using the persisted identity mapping and a fresh store snapshot. The
// spreadsheet is the single source of truth; manual edits in the calendar are
// overwritten and events the sheet no longer mentions are removed.
package sync
