package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		n        int
		expected string
	}{
		{
			name:     "short string",
			input:    "Sol",
			n:        10,
			expected: "Sol",
		},
		{
			name:     "exact length",
			input:    "Posada",
			n:        6,
			expected: "Posada",
		},
		{
			name:     "cut with ellipsis",
			input:    "Hotel Caribe Internacional",
			n:        12,
			expected: "Hotel Car...",
		},
		{
			name:     "multibyte runes",
			input:    "Habitación doble",
			n:        10,
			expected: "Habitac...",
		},
		{
			name:     "tiny width",
			input:    "Caracas",
			n:        2,
			expected: "Ca",
		},
		{
			name:     "zero width",
			input:    "Caracas",
			n:        0,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, Truncate(tt.input, tt.n))
		})
	}
}

func TestMoney(t *testing.T) {
	require.Equal(t, "120.50", Money(120.5, ""))
	require.Equal(t, "USD 80.00", Money(80, "USD"))
}

func TestDate(t *testing.T) {
	require.Equal(t, "-", Date(time.Time{}))
	require.Equal(t, "2025-03-10", Date(time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)))
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{name: "below", input: 0, expected: 1},
		{name: "within", input: 50, expected: 50},
		{name: "above", input: 500, expected: 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, Clamp(tt.input, 1, 200))
		})
	}
}
