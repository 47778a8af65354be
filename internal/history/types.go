// Package history compares current market conditions against a canonical set
// of historical crisis scenarios using a weighted similarity score.
package history

// Trend labels a market's overall direction.
type Trend string

const (
	TrendBullish  Trend = "bullish"
	TrendBearish  Trend = "bearish"
	TrendVolatile Trend = "volatile"
)

// Sentiment labels the prevailing market mood.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Conditions is a snapshot of the current market used for comparison.
type Conditions struct {
	Summary    string    `json:"summary,omitempty"`
	Trend      Trend     `json:"marketTrend"`
	Volatility float64   `json:"volatility"` // [0, 1]
	Sentiment  Sentiment `json:"sentiment"`
}

// Scenario is one canonical historical market period.
type Scenario struct {
	Period      string    `json:"period"`
	Description string    `json:"description"`
	Trend       Trend     `json:"trend"`
	Volatility  float64   `json:"volatility"` // [0, 1]
	Sentiment   Sentiment `json:"sentiment"`
	KeyEvents   []string  `json:"keyEvents"`
	Similarity  int       `json:"similarity"` // [0, 100], filled by Rank
}

// Response is the payload of the historical-scenarios collaborator endpoint:
// pre-scored scenarios plus the conditions they were scored against.
type Response struct {
	Scenarios  []Scenario  `json:"scenarios"`
	Conditions *Conditions `json:"currentConditions"`
}

// Canonical returns the reference scenario set, one entry per canonical
// crisis. Callers receive a fresh slice and may annotate it freely.
func Canonical() []Scenario {
	return []Scenario{
		{
			Period:      "2008 Financial Crisis",
			Description: "Global financial crisis triggered by the housing market collapse",
			Trend:       TrendBearish,
			Volatility:  0.8,
			Sentiment:   SentimentNegative,
			KeyEvents: []string{
				"Banking sector collapse",
				"Housing market crash",
				"Global market selloff",
			},
		},
		{
			Period:      "2020 COVID-19 Crash",
			Description: "Market volatility due to global pandemic uncertainty",
			Trend:       TrendVolatile,
			Volatility:  0.9,
			Sentiment:   SentimentNegative,
			KeyEvents: []string{
				"Global lockdowns",
				"Economic shutdown",
				"Rapid policy response",
			},
		},
		{
			Period:      "2000 Dot-com Bubble",
			Description: "Tech stock bubble burst following internet boom",
			Trend:       TrendBearish,
			Volatility:  0.7,
			Sentiment:   SentimentNegative,
			KeyEvents: []string{
				"Tech valuations collapse",
				"Internet company failures",
				"Growth stock selloff",
			},
		},
		{
			Period:      "2022 Tech Selloff",
			Description: "Major correction in technology stocks amid rising rates",
			Trend:       TrendBearish,
			Volatility:  0.6,
			Sentiment:   SentimentNegative,
			KeyEvents: []string{
				"Interest rate hikes",
				"Tech sector correction",
				"Growth to value rotation",
			},
		},
	}
}
