package market

import (
	"math"
	"math/rand"
	"testing"
)

func TestRefreshStepsStayBounded(t *testing.T) {
	tr := NewTracker(DefaultIndexes(), rand.New(rand.NewSource(1)))

	for i := 0; i < 50; i++ {
		tr.Refresh()
		for _, q := range tr.Snapshot().Quotes {
			if math.Abs(q.ChangePct) > maxStepPct {
				t.Fatalf("step %d: %s moved %.2f%%, beyond the bound", i, q.Symbol, q.ChangePct)
			}
			if q.Value <= 0 {
				t.Fatalf("step %d: %s value went non-positive: %v", i, q.Symbol, q.Value)
			}
		}
	}
}

func TestTopIndex(t *testing.T) {
	snap := Snapshot{Quotes: []Quote{
		{Symbol: "A", ChangePct: -0.5},
		{Symbol: "B", ChangePct: 1.2},
		{Symbol: "C", ChangePct: 0.3},
	}}
	if got := snap.TopIndex(); got != "B" {
		t.Errorf("expected B, got %q", got)
	}

	if got := (Snapshot{}).TopIndex(); got != "" {
		t.Errorf("expected empty top index, got %q", got)
	}
}

func TestQuoteLookup(t *testing.T) {
	tr := NewTracker(DefaultIndexes(), rand.New(rand.NewSource(2)))

	v, ok := tr.Quote("NASDAQ")
	if !ok || v != 14000 {
		t.Errorf("expected initial NASDAQ at 14000, got %v (%v)", v, ok)
	}
	if _, ok := tr.Quote("UNKNOWN"); ok {
		t.Error("expected unknown symbol to miss")
	}
}

func TestConditionsBeforeAnyRefresh(t *testing.T) {
	tr := NewTracker(DefaultIndexes(), rand.New(rand.NewSource(3)))

	cond := tr.Conditions()
	if cond.Volatility < 0 || cond.Volatility > 1 {
		t.Errorf("volatility out of range: %v", cond.Volatility)
	}
	if cond.Trend == "" || cond.Sentiment == "" {
		t.Errorf("incomplete default conditions: %+v", cond)
	}
}
