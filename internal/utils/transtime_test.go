package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseTransTime(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *time.Time
	}{
		{
			name:     "valid 14-digit timestamp",
			input:    "20240115093000",
			expected: timePtr(time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)),
		},
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
		{
			name:     "too short",
			input:    "20240115",
			expected: nil,
		},
		{
			name:     "too long",
			input:    "202401150930001",
			expected: nil,
		},
		{
			name:     "non-numeric characters",
			input:    "2024011509300a",
			expected: nil,
		},
		{
			name:     "invalid calendar date",
			input:    "20241350093000",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseTransTime(tt.input)

			if tt.expected == nil {
				assert.Nil(t, result)
				return
			}
			assert.NotNil(t, result)
			assert.True(t, tt.expected.Equal(*result))
		})
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
