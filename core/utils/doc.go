// Package utils provides type conversion helpers for loosely typed data.
//
// Spreadsheet cells arrive as strings, numbers, or booleans depending on the
// reader and the cell's formatting. These helpers coerce such values with
// explicit type switching instead of reflection.
package utils
