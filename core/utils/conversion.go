package utils

import (
	"fmt"
	"strings"
)

// ToString converts a loosely typed spreadsheet cell to a string.
func ToString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ToBool converts a loosely typed spreadsheet cell to a bool.
// Textual values match "true" case-insensitively; any other text is false.
// Numeric values follow truthiness (non-zero is true).
func ToBool(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "true")
	case []byte:
		return strings.EqualFold(strings.TrimSpace(string(v)), "true")
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	case float32:
		return v != 0
	default:
		return false
	}
}
