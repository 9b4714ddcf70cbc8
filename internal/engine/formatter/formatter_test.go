package formatter

import (
	"math"
	"testing"
)

func TestRound2(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{6.68, 6.68},
		{81.25, 81.25},
		{0.125, 0.12},
		{0.375, 0.38},
		{2.675, 2.67},
		{1.005, 1.0},
		{-1.005, -1.0},
		{12.3456, 12.35},
		{-0.004, 0},
		{1000000.016, 1000000.02},
		{7, 7},
		// ties decided on x*100
		{0.015, 0.02},
		{0.025, 0.02},
		{10.135, 10.14},
		{81.255, 81.26},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRound2NonFinite(t *testing.T) {
	if got := Round2(math.Inf(1)); !math.IsInf(got, 1) {
		t.Errorf("Round2(+Inf) = %v", got)
	}
	if got := Round2(math.NaN()); !math.IsNaN(got) {
		t.Errorf("Round2(NaN) = %v", got)
	}
}

func TestFormat(t *testing.T) {
	r := Format(6.681234, 81.2499999999)
	if r.ProjectedRiskReduction != 6.68 {
		t.Errorf("ProjectedRiskReduction = %v, want 6.68", r.ProjectedRiskReduction)
	}
	if r.OutcomeHealthScore != 81.25 {
		t.Errorf("OutcomeHealthScore = %v, want 81.25", r.OutcomeHealthScore)
	}
}
