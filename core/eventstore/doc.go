// Package eventstore defines the calendar backend interface and an in-memory
// implementation.
//
// The sync engine only needs four operations per collection: list, create,
// update and delete, plus EnsureCollection on the store. It never inspects
// backend-specific event types, so backends are interchangeable.
//
// Concrete backends live in subpackages:
//   - icsfile: one .ics file per collection
//   - gormstore: a SQLite database shared by all collections
package eventstore
