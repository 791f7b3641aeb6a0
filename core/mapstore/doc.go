// Package mapstore persists the per-target identity mapping between runs.
//
// The mapping is the durable bridge from "a row that existed last time" to
// the event-store object it produced: event key -> {uid, original start,
// original end}. It is loaded once at the start of a target's run, mutated by
// the sync engine, and saved once at the end with an atomic temp-file-and-
// rename replace.
package mapstore
