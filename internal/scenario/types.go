// Package scenario defines discrete investment strategy scenarios and the
// generator that ranks them for a parameter snapshot.
package scenario

// Risk is the qualitative risk tier of a scenario.
type Risk string

const (
	RiskLow    Risk = "Low"
	RiskMedium Risk = "Medium"
	RiskHigh   Risk = "High"
)

// Scenario is a pre-packaged investment strategy with a projected return.
// Scenarios are immutable once produced; a generation request replaces the
// active batch wholesale.
type Scenario struct {
	ID              string  `json:"id"`
	Risk            Risk    `json:"riskLevel"`
	ProjectedProfit float64 `json:"projectedProfit"`
	Strategy        string  `json:"strategy"`
	Description     string  `json:"description"`
}
