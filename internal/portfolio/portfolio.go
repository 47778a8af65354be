// Package portfolio tracks the simulated monetary value of a session's
// holdings. Value moves multiplicatively; there is deliberately no floor
// clamp, so a long run of negative shifts can drive the value arbitrarily
// close to zero.
package portfolio

// DefaultInitialValue is the session-start portfolio value.
const DefaultInitialValue = 1_000_000.0

// Portfolio holds current vs. initial simulated value and the allocation map.
type Portfolio struct {
	Initial  float64            `json:"initialValue"`
	Current  float64            `json:"currentValue"`
	Holdings map[string]float64 `json:"holdings,omitempty"`
}

// New creates a portfolio at the given initial value with a default
// allocation split.
func New(initial float64) Portfolio {
	if initial <= 0 {
		initial = DefaultInitialValue
	}
	return Portfolio{
		Initial: initial,
		Current: initial,
		Holdings: map[string]float64{
			"Equities": 60,
			"Bonds":    30,
			"Cash":     10,
		},
	}
}

// Reset returns the portfolio to its initial value.
func (p Portfolio) Reset() Portfolio {
	p.Current = p.Initial
	return p
}

// ApplyShift multiplies the current value by (1 + pct/100). Used for both
// market drift and event choice effects.
func (p Portfolio) ApplyShift(pct float64) Portfolio {
	p.Current *= 1 + pct/100
	return p
}

// Performance returns the percentage gain/loss against the initial value.
func (p Portfolio) Performance() float64 {
	if p.Initial == 0 {
		return 0
	}
	return (p.Current - p.Initial) / p.Initial * 100
}
