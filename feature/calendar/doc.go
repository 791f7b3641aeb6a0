// Package calendar orchestrates spreadsheet-to-calendar syncs.
//
// The Service wires the source reader, identity mapping store, event store
// and sync-time record into one pipeline per target. The Handler exposes the
// same operations over HTTP for the serve command.
package calendar
