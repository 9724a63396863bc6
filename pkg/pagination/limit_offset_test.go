package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	bounds := Bounds{DefaultLimit: 10, MinLimit: 1, MaxLimit: 100}

	tests := []struct {
		name       string
		limit      string
		offset     string
		wantLimit  int
		wantOffset int
	}{
		{"empty params use default", "", "", 10, 0},
		{"valid limit", "25", "5", 25, 5},
		{"limit below minimum falls back to default", "0", "", 10, 0},
		{"negative limit falls back to default", "-3", "", 10, 0},
		{"limit above maximum is capped", "500", "", 100, 0},
		{"limit at maximum", "100", "", 100, 0},
		{"non-numeric limit falls back to default", "abc", "", 10, 0},
		{"non-numeric offset ignored", "10", "xyz", 10, 0},
		{"negative offset ignored", "10", "-7", 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := Parse(tt.limit, tt.offset, bounds)
			assert.Equal(t, tt.wantLimit, params.Limit)
			assert.Equal(t, tt.wantOffset, params.Offset)
		})
	}
}
