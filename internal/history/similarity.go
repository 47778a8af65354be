package history

import (
	"math"
	"sort"
)

// Similarity weights. Each factor contributes its full weight only on an
// exact (or threshold) match; the score is non-continuous.
const (
	trendWeight      = 0.4
	volatilityWeight = 0.3
	sentimentWeight  = 0.3

	// Volatility counts as matching when the absolute difference is below this.
	volatilityBand = 0.2
)

// Similarity scores a historical scenario against current conditions,
// returning a value in [0, 100]. A nil current snapshot scores 0 for every
// scenario (the comparison short-circuits rather than faulting).
func Similarity(hist Scenario, current *Conditions) int {
	if current == nil {
		return 0
	}

	score := 0.0
	if hist.Trend == current.Trend {
		score += trendWeight
	}
	if math.Abs(hist.Volatility-current.Volatility) < volatilityBand {
		score += volatilityWeight
	}
	if hist.Sentiment == current.Sentiment {
		score += sentimentWeight
	}

	return int(math.Round(score * 100))
}

// Rank annotates each scenario with its similarity to current and sorts
// descending. The sort is stable: ties keep their prior relative order.
func Rank(scenarios []Scenario, current *Conditions) []Scenario {
	out := make([]Scenario, len(scenarios))
	copy(out, scenarios)

	for i := range out {
		out[i].Similarity = Similarity(out[i], current)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Similarity > out[j].Similarity
	})
	return out
}

// DeriveConditions classifies a series of recent index returns (percent per
// observation) into a conditions snapshot. Trend is volatile when swings are
// large in both directions, otherwise follows the net move; volatility is the
// normalized mean absolute move; sentiment follows the net move with a
// neutral band.
func DeriveConditions(changes []float64) Conditions {
	if len(changes) == 0 {
		return Conditions{Trend: TrendVolatile, Volatility: 0.5, Sentiment: SentimentNeutral}
	}

	var net, absSum, maxUp, maxDown float64
	for _, c := range changes {
		net += c
		absSum += math.Abs(c)
		if c > maxUp {
			maxUp = c
		}
		if c < maxDown {
			maxDown = c
		}
	}
	meanAbs := absSum / float64(len(changes))

	// Mean absolute move of 2% per observation maps to full volatility.
	vol := meanAbs / 2.0
	if vol > 1 {
		vol = 1
	}

	var trend Trend
	switch {
	case maxUp > 1.0 && maxDown < -1.0:
		trend = TrendVolatile
	case net < 0:
		trend = TrendBearish
	default:
		trend = TrendBullish
	}

	var sentiment Sentiment
	switch {
	case net > 0.5:
		sentiment = SentimentPositive
	case net < -0.5:
		sentiment = SentimentNegative
	default:
		sentiment = SentimentNeutral
	}

	return Conditions{Trend: trend, Volatility: vol, Sentiment: sentiment}
}
