// Package icsfile is a calendar backend storing each collection as an
// iCalendar (.ics) file, readable by any calendar application.
package icsfile
