// Package econ defines the simulated economic parameter set and its
// mutation rules. All rates are percentage points clamped to [0, 10].
package econ

// Rate bounds, in percentage points.
const (
	RateMin = 0.0
	RateMax = 10.0
)

// Params holds the three continuous economic parameters driving a session.
type Params struct {
	Inflation float64 `json:"inflationRate"`
	FedRate   float64 `json:"fedRate"`
	GDPGrowth float64 `json:"gdpGrowthRate"`
}

// Partial is a partial parameter update; nil fields are left untouched.
type Partial struct {
	Inflation *float64
	FedRate   *float64
	GDPGrowth *float64
}

// DefaultParams returns the session-start parameter values.
func DefaultParams() Params {
	return Params{
		Inflation: 2.0,
		FedRate:   5.0,
		GDPGrowth: 2.5,
	}
}

// Clamp bounds a rate to [RateMin, RateMax].
func Clamp(v float64) float64 {
	if v < RateMin {
		return RateMin
	}
	if v > RateMax {
		return RateMax
	}
	return v
}

// ClampScore bounds a derived score to [0, 100].
func ClampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Merge applies a partial update, clamping every touched field.
func (p Params) Merge(u Partial) Params {
	if u.Inflation != nil {
		p.Inflation = Clamp(*u.Inflation)
	}
	if u.FedRate != nil {
		p.FedRate = Clamp(*u.FedRate)
	}
	if u.GDPGrowth != nil {
		p.GDPGrowth = Clamp(*u.GDPGrowth)
	}
	return p
}

// ApplyDrift perturbs the parameters by a market shift delta: inflation and
// GDP growth take the full shift, the fed rate half of it. All results are
// clamped.
func (p Params) ApplyDrift(delta float64) Params {
	p.Inflation = Clamp(p.Inflation + delta)
	p.GDPGrowth = Clamp(p.GDPGrowth + delta)
	p.FedRate = Clamp(p.FedRate + delta*0.5)
	return p
}

// ApplyShift adds per-field deltas (event choice effects), clamping each.
func (p Params) ApplyShift(inflation, gdpGrowth, fedRate float64) Params {
	p.Inflation = Clamp(p.Inflation + inflation)
	p.GDPGrowth = Clamp(p.GDPGrowth + gdpGrowth)
	p.FedRate = Clamp(p.FedRate + fedRate)
	return p
}
