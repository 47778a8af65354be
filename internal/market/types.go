// Package market synthesizes index quotes for the collaborator server. The
// tracker random-walks a fixed set of indexes; its snapshot feeds event
// context (top index), alert evaluation (quotes), and historical-comparison
// conditions (recent returns).
package market

import (
	"math"
	"time"
)

// Index is a tracked market index.
type Index struct {
	Symbol string
	Name   string
	Base   float64
}

// DefaultIndexes returns the standard tracked set.
func DefaultIndexes() []Index {
	return []Index{
		{Symbol: "S&P 500", Name: "Standard & Poor's 500", Base: 4500},
		{Symbol: "NASDAQ", Name: "NASDAQ Composite", Base: 14000},
		{Symbol: "DOW", Name: "Dow Jones Industrial Average", Base: 35000},
		{Symbol: "FTSE 100", Name: "Financial Times Stock Exchange 100", Base: 7500},
	}
}

// Quote is one index's latest value and last step change.
type Quote struct {
	Symbol    string  `json:"symbol"`
	Value     float64 `json:"value"`
	ChangePct float64 `json:"changePct"`
}

// Snapshot is a point-in-time view of all tracked indexes.
type Snapshot struct {
	Quotes  []Quote   `json:"quotes"`
	Updated time.Time `json:"updated"`
}

// TopIndex returns the symbol with the strongest last move, or "" when the
// snapshot is empty.
func (s Snapshot) TopIndex() string {
	top := ""
	best := math.Inf(-1)
	for _, q := range s.Quotes {
		if q.ChangePct > best {
			best = q.ChangePct
			top = q.Symbol
		}
	}
	return top
}
