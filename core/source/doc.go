// Package source reads spreadsheet rows for the sync engine.
//
// A Reader turns a target's source location into an ordered list of rows with
// optional Title, Start, End, Description, Location and AllDay fields. Cell
// absence is distinguishable from an empty value, which the normalizer relies
// on to tell placeholder rows from malformed ones.
//
// # Locations
//
//   - Local paths: schedules/team.csv
//   - Object storage: s3://bucket/key or s3://key (default bucket)
//
// The format is picked by extension: .csv (stdlib) or .xlsx (excelize,
// first sheet only).
package source
