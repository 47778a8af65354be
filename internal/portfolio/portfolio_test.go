package portfolio

import (
	"math"
	"testing"
)

func TestApplyShift(t *testing.T) {
	p := New(1_000_000)

	p = p.ApplyShift(1.0)
	if math.Abs(p.Current-1_010_000) > 1e-6 {
		t.Errorf("expected 1010000 after +1%% shift, got %f", p.Current)
	}

	p = p.ApplyShift(15.0)
	if math.Abs(p.Current-1_161_500) > 1e-6 {
		t.Errorf("expected 1161500 after +15%% shift, got %f", p.Current)
	}
}

func TestPerformance(t *testing.T) {
	p := New(1_000_000)
	p = p.ApplyShift(10)
	if math.Abs(p.Performance()-10) > 1e-9 {
		t.Errorf("expected 10%% performance, got %f", p.Performance())
	}

	p = New(1_000_000)
	p = p.ApplyShift(-25)
	if math.Abs(p.Performance()+25) > 1e-9 {
		t.Errorf("expected -25%% performance, got %f", p.Performance())
	}
}

// Value is multiplicative with no floor: repeated negative shifts approach
// zero but never go negative and never fault.
func TestNoFloorClamp(t *testing.T) {
	p := New(1_000_000)
	for i := 0; i < 10_000; i++ {
		p = p.ApplyShift(-1.0)
	}
	if p.Current < 0 {
		t.Errorf("value went negative: %g", p.Current)
	}
	if p.Current > 1 {
		t.Errorf("expected value near zero after 10000 -1%% shifts, got %g", p.Current)
	}
	if math.IsNaN(p.Current) || math.IsInf(p.Current, 0) {
		t.Errorf("value degenerated: %g", p.Current)
	}
}

func TestReset(t *testing.T) {
	p := New(500_000)
	p = p.ApplyShift(40)
	p = p.Reset()
	if p.Current != 500_000 {
		t.Errorf("expected reset to 500000, got %f", p.Current)
	}
}
