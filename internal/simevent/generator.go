package simevent

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
)

// template is an event blueprint; %s slots take the context's top index.
type template struct {
	title       string
	description string
	choices     []Choice
}

var templates = []template{
	{
		title:       "Central Bank Emergency Meeting",
		description: "The central bank has called an unscheduled meeting amid pressure on the %s. Markets expect a decisive move.",
		choices: []Choice{
			{
				ID:     "hold",
				Text:   "Hold your positions",
				Impact: "Ride out the announcement; rates may move against you",
				Effects: Effects{
					Portfolio: -3, Inflation: 0.5, FedRate: 0.5, Stability: -4,
				},
			},
			{
				ID:     "rotate-bonds",
				Text:   "Rotate into short-term bonds",
				Impact: "Give up upside for rate protection",
				Effects: Effects{
					Portfolio: 2, GDPGrowth: -0.2, Stability: 5,
				},
			},
		},
	},
	{
		title:       "Tech Sector Earnings Shock",
		description: "A bellwether constituent of the %s missed earnings badly after hours. Futures are sliding.",
		choices: []Choice{
			{
				ID:     "buy-dip",
				Text:   "Buy the dip",
				Impact: "High reward if the selloff overshoots",
				Effects: Effects{
					Portfolio: 15, GDPGrowth: 0.3, Stability: -6,
				},
			},
			{
				ID:     "trim-exposure",
				Text:   "Trim equity exposure",
				Impact: "Lock in losses but protect against contagion",
				Effects: Effects{
					Portfolio: -5, Stability: 6,
				},
			},
			{
				ID:     "hedge",
				Text:   "Hedge with index puts",
				Impact: "Pay premium for downside insurance",
				Effects: Effects{
					Portfolio: -1, Stability: 3,
				},
			},
		},
	},
	{
		title:       "Inflation Print Surprise",
		description: "Consumer prices came in hot, and the %s is repricing rate expectations within minutes.",
		choices: []Choice{
			{
				ID:     "commodities",
				Text:   "Shift into commodities",
				Impact: "Inflation hedge with added volatility",
				Effects: Effects{
					Portfolio: 6, Inflation: 0.8, Stability: -3,
				},
			},
			{
				ID:     "cash",
				Text:   "Raise cash",
				Impact: "Sit out the repricing at the cost of real returns",
				Effects: Effects{
					Portfolio: -2, Inflation: -0.3, FedRate: 0.5, Stability: 4,
				},
			},
		},
	},
	{
		title:       "Stimulus Package Announced",
		description: "A large fiscal stimulus is headed for a vote, lifting sentiment across the %s.",
		choices: []Choice{
			{
				ID:     "cyclicals",
				Text:   "Load up on cyclicals",
				Impact: "Leverage to the spending wave",
				Effects: Effects{
					Portfolio: 10, GDPGrowth: 0.6, Inflation: 0.6, Stability: -2,
				},
			},
			{
				ID:     "stay-course",
				Text:   "Stay the course",
				Impact: "Modest participation, no concentration risk",
				Effects: Effects{
					Portfolio: 3, GDPGrowth: 0.2, Stability: 2,
				},
			},
		},
	},
}

// Generator constructs events from collaborator market context. Template
// selection uses the provided random source so sessions are reproducible
// under a fixed seed.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a Generator. A nil rng falls back to a time-seeded one.
func NewGenerator(rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Generator{rng: rng}
}

// FromContext builds a new event parametrized by the market context.
func (g *Generator) FromContext(ctx Context) Event {
	tpl := templates[g.rng.Intn(len(templates))]

	topIndex := ctx.TopIndex
	if topIndex == "" {
		topIndex = "S&P 500"
	}

	ev := Event{
		ID:          uuid.New().String(),
		Title:       tpl.title,
		Description: fmt.Sprintf(tpl.description, topIndex),
		Choices:     tpl.choices,
	}
	return ev
}
