package tokens

import "testing"

func TestEstimate(t *testing.T) {
	tests := []struct {
		chars int
		want  int
	}{
		{0, 0},
		{-5, 0},
		{1, 1},
		{4, 1},
		{5, 2},
		{8000, 2000},
		{32001, 8001},
	}

	for _, tt := range tests {
		if got := Estimate(tt.chars); got != tt.want {
			t.Errorf("Estimate(%d) = %d, want %d", tt.chars, got, tt.want)
		}
	}
}

func TestCount_NeverNegative(t *testing.T) {
	if Count("") != 0 {
		t.Error("empty string should count as 0 tokens")
	}
	if Count("hello world, this is a sentence") <= 0 {
		t.Error("non-empty text should count as > 0 tokens")
	}
}
