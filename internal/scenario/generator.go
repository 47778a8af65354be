package scenario

import (
	"fmt"
	"math"
	"sort"

	"github.com/macrolab/macrosim/internal/econ"
)

// tierProfile holds the return model and ranking target for one risk tier.
type tierProfile struct {
	risk        Risk
	base        float64
	gdpWeight   float64
	inflWeight  float64
	fedWeight   float64
	appetiteFit float64 // appetite value at which this tier ranks first
	strategy    string
	description string
}

var tiers = []tierProfile{
	{
		risk:        RiskLow,
		base:        3.4,
		gdpWeight:   0.25,
		inflWeight:  -0.15,
		fedWeight:   0.20,
		appetiteFit: -2.0,
		strategy:    "Focus on defensive stocks and government bonds",
		description: "Conservative scenario with stable returns under current conditions.",
	},
	{
		risk:        RiskMedium,
		base:        5.5,
		gdpWeight:   0.60,
		inflWeight:  -0.30,
		fedWeight:   -0.10,
		appetiteFit: 1.0,
		strategy:    "Balanced portfolio with tech growth stocks and corporate bonds",
		description: "Moderate growth scenario with calculated risks.",
	},
	{
		risk:        RiskHigh,
		base:        8.0,
		gdpWeight:   1.40,
		inflWeight:  -0.60,
		fedWeight:   -0.50,
		appetiteFit: 4.0,
		strategy:    "Aggressive growth stocks and emerging markets",
		description: "High-growth scenario targeting maximum returns.",
	},
}

// Appetite condenses a parameter snapshot into a single risk-appetite scalar:
// strong growth raises it, inflation and tight policy lower it.
func Appetite(p econ.Params) float64 {
	return p.GDPGrowth - p.Inflation/2 + (5.0-p.FedRate)/2
}

// Generate produces the three-tier scenario batch for a parameter snapshot,
// ordered by how well each tier fits the current risk appetite (best fit
// first, stable for ties). Output is deterministic for a given input.
func Generate(p econ.Params) []Scenario {
	appetite := Appetite(p)

	out := make([]Scenario, 0, len(tiers))
	for i, tier := range tiers {
		profit := tier.base +
			tier.gdpWeight*p.GDPGrowth +
			tier.inflWeight*p.Inflation +
			tier.fedWeight*(p.FedRate-5.0)
		if profit < 0 {
			profit = 0
		}
		out = append(out, Scenario{
			ID:              fmt.Sprintf("%d", i+1),
			Risk:            tier.risk,
			ProjectedProfit: math.Round(profit*10) / 10,
			Strategy:        tier.strategy,
			Description:     tier.description,
		})
	}

	fit := func(s Scenario) float64 {
		for _, tier := range tiers {
			if tier.risk == s.Risk {
				return math.Abs(appetite - tier.appetiteFit)
			}
		}
		return math.MaxFloat64
	}
	sort.SliceStable(out, func(i, j int) bool {
		return fit(out[i]) < fit(out[j])
	})

	return out
}
