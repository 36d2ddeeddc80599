package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		category string
		want     bool
	}{
		{name: "utility", category: CategoryUtility, want: true},
		{name: "ai tools", category: "AI Tools", want: true},
		{name: "outside the set", category: "Productivity Tools", want: false},
		{name: "empty", category: "", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, ValidCategory(tt.category))
		})
	}
}
