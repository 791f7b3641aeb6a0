package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToString(t *testing.T) {
	assert.Equal(t, "hello", ToString("hello"))
	assert.Equal(t, "42", ToString(42))
	assert.Equal(t, "true", ToString(true))
	assert.Equal(t, "", ToString(nil))
}

func TestToBool(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want bool
	}{
		{"bool true", true, true},
		{"bool false", false, false},
		{"string true", "true", true},
		{"string mixed case", "TRUE", true},
		{"string false", "false", false},
		{"string garbage", "yes", false},
		{"int nonzero", 1, true},
		{"int zero", 0, false},
		{"float nonzero", 1.0, true},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToBool(tt.in))
		})
	}
}
