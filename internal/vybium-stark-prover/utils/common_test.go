package utils

import "testing"

func TestIsPowerOfTwo(t *testing.T) {
	tests := []struct {
		input    int
		expected bool
	}{
		{1, true},
		{2, true},
		{4, true},
		{1024, true},
		{1 << 30, true},
		{0, false},
		{-4, false},
		{3, false},
		{12, false},
	}

	for _, tt := range tests {
		if got := IsPowerOfTwo(tt.input); got != tt.expected {
			t.Errorf("IsPowerOfTwo(%d) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestLog2(t *testing.T) {
	tests := []struct {
		input    int
		expected int
	}{
		{1, 0},
		{2, 1},
		{8, 3},
		{1024, 10},
		{1 << 30, 30},
		{0, -1},
		{-8, -1},
		{3, -1},
		{12, -1},
	}

	for _, tt := range tests {
		if got := Log2(tt.input); got != tt.expected {
			t.Errorf("Log2(%d) = %d, want %d", tt.input, got, tt.expected)
		}
	}
}
