// Package synctimes records when each sync target last completed
// successfully. The targets command and the HTTP API compare these times with
// the source spreadsheet's modification time to report staleness.
package synctimes
