// Package simevent defines the discrete decision events surfaced to the user
// mid-simulation, and the generator that constructs them from market context.
package simevent

// Effects quantifies the impact of resolving an event with a given choice.
// Portfolio is a percentage shift of current value; the rate fields are
// additive percentage-point deltas; Stability is an additive delta on the
// [0, 100] stability score.
type Effects struct {
	Portfolio float64 `json:"portfolio"`
	Inflation float64 `json:"inflation"`
	GDPGrowth float64 `json:"gdpGrowth"`
	FedRate   float64 `json:"fedRate"`
	Stability float64 `json:"marketStability"`
}

// Choice is one way to resolve an event.
type Choice struct {
	ID      string  `json:"id"`
	Text    string  `json:"text"`
	Impact  string  `json:"impactDescription"`
	Effects Effects `json:"effects"`
}

// Event is a decision point requiring user resolution. At most one event is
// pending at any time; it is destroyed when a choice is selected.
type Event struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Choices     []Choice `json:"choices"`
}

// Choice returns the choice with the given ID, or false when absent.
func (e *Event) Choice(id string) (Choice, bool) {
	for _, c := range e.Choices {
		if c.ID == id {
			return c, true
		}
	}
	return Choice{}, false
}

// Context is the market-context object returned by the event collaborator,
// used to parametrize a newly constructed event.
type Context struct {
	TopIndex string `json:"topIndex"`
}
