package history

import (
	"reflect"
	"testing"
)

func TestSimilarityFullMatch(t *testing.T) {
	hist := Scenario{Trend: TrendBearish, Volatility: 0.8, Sentiment: SentimentNegative}
	cur := &Conditions{Trend: TrendBearish, Volatility: 0.7, Sentiment: SentimentNegative}

	if got := Similarity(hist, cur); got != 100 {
		t.Errorf("expected 100, got %d", got)
	}
}

func TestSimilarityPartialMatches(t *testing.T) {
	hist := Scenario{Trend: TrendBearish, Volatility: 0.8, Sentiment: SentimentNegative}

	// Trend only.
	cur := &Conditions{Trend: TrendBearish, Volatility: 0.1, Sentiment: SentimentPositive}
	if got := Similarity(hist, cur); got != 40 {
		t.Errorf("expected 40, got %d", got)
	}

	// Volatility only: diff exactly at the band boundary does not count.
	cur = &Conditions{Trend: TrendBullish, Volatility: 0.6, Sentiment: SentimentPositive}
	if got := Similarity(hist, cur); got != 0 {
		t.Errorf("expected 0 at band boundary, got %d", got)
	}
	cur = &Conditions{Trend: TrendBullish, Volatility: 0.65, Sentiment: SentimentPositive}
	if got := Similarity(hist, cur); got != 30 {
		t.Errorf("expected 30, got %d", got)
	}

	// Sentiment only.
	cur = &Conditions{Trend: TrendVolatile, Volatility: 0.1, Sentiment: SentimentNegative}
	if got := Similarity(hist, cur); got != 30 {
		t.Errorf("expected 30, got %d", got)
	}
}

func TestSimilarityNilConditions(t *testing.T) {
	for _, hist := range Canonical() {
		if got := Similarity(hist, nil); got != 0 {
			t.Errorf("%s: expected 0 for nil conditions, got %d", hist.Period, got)
		}
	}
}

func TestSimilarityDeterministic(t *testing.T) {
	cur := &Conditions{Trend: TrendBearish, Volatility: 0.75, Sentiment: SentimentNegative}
	a := Rank(Canonical(), cur)
	b := Rank(Canonical(), cur)
	if !reflect.DeepEqual(a, b) {
		t.Error("expected identical ranking for identical input")
	}
}

func TestRankStableTies(t *testing.T) {
	// All canonical scenarios score 0 against nil conditions; the stable sort
	// must keep their original order.
	ranked := Rank(Canonical(), nil)
	want := Canonical()
	for i := range ranked {
		if ranked[i].Period != want[i].Period {
			t.Errorf("position %d: expected %s, got %s", i, want[i].Period, ranked[i].Period)
		}
		if ranked[i].Similarity != 0 {
			t.Errorf("%s: expected similarity 0, got %d", ranked[i].Period, ranked[i].Similarity)
		}
	}
}

func TestRankDescending(t *testing.T) {
	cur := &Conditions{Trend: TrendVolatile, Volatility: 0.85, Sentiment: SentimentNegative}
	ranked := Rank(Canonical(), cur)

	for i := 1; i < len(ranked); i++ {
		if ranked[i].Similarity > ranked[i-1].Similarity {
			t.Errorf("ranking not descending at %d: %d > %d", i, ranked[i].Similarity, ranked[i-1].Similarity)
		}
	}
	// The COVID crash (volatile, 0.9, negative) should fully match.
	if ranked[0].Period != "2020 COVID-19 Crash" || ranked[0].Similarity != 100 {
		t.Errorf("expected COVID crash at 100, got %s at %d", ranked[0].Period, ranked[0].Similarity)
	}
}

func TestDeriveConditions(t *testing.T) {
	cases := []struct {
		name      string
		changes   []float64
		trend     Trend
		sentiment Sentiment
	}{
		{"steady rally", []float64{0.4, 0.3, 0.5, 0.2}, TrendBullish, SentimentPositive},
		{"steady decline", []float64{-0.4, -0.5, -0.3, -0.2}, TrendBearish, SentimentNegative},
		{"whipsaw", []float64{2.5, -2.8, 1.9, -2.4}, TrendVolatile, SentimentNegative},
		{"flat", []float64{0.1, -0.1, 0.05}, TrendBullish, SentimentNeutral},
	}

	for _, tc := range cases {
		got := DeriveConditions(tc.changes)
		if got.Trend != tc.trend {
			t.Errorf("%s: expected trend %s, got %s", tc.name, tc.trend, got.Trend)
		}
		if got.Sentiment != tc.sentiment {
			t.Errorf("%s: expected sentiment %s, got %s", tc.name, tc.sentiment, got.Sentiment)
		}
		if got.Volatility < 0 || got.Volatility > 1 {
			t.Errorf("%s: volatility out of range: %f", tc.name, got.Volatility)
		}
	}
}
