// Package gormstore is a calendar backend on a SQLite database, useful when
// downstream tooling wants to query events with SQL instead of parsing ICS.
package gormstore
