package usecase

import "testing"

func TestMinor(t *testing.T) {
	tests := []struct {
		cost float64
		want int64
	}{
		{0, 0},
		{1, 100},
		{12.5, 1250},
		{0.015, 2},
		{30.999, 3100},
	}
	for _, tt := range tests {
		if got := Minor(tt.cost); got != tt.want {
			t.Errorf("Minor(%v) = %d, want %d", tt.cost, got, tt.want)
		}
	}
}

func TestFinalPrice(t *testing.T) {
	tests := []struct {
		start   int64
		percent int
		want    int64
	}{
		{100, 10, 110},
		{100, 0, 100},
		{1250, 30, 1625},
		{99, 10, 108},
		{1, 10, 1},
	}
	for _, tt := range tests {
		if got := FinalPrice(tt.start, tt.percent); got != tt.want {
			t.Errorf("FinalPrice(%d, %d) = %d, want %d", tt.start, tt.percent, got, tt.want)
		}
	}
}
