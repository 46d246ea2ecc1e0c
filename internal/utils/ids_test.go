package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoutePrefix(t *testing.T) {
	tests := []struct {
		id       string
		expected string
	}{
		{"504_0", "504"},
		{"35_12", "35"},
		{"52_1_b", "52"},
		{"300", "300"},
		{"_7", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.expected, RoutePrefix(tt.id))
		})
	}
}
