// Package core implements the pure session state machine: countdown ticks,
// market drift, event arming/resolution, and derived scores. It owns no
// timers and performs no I/O; the session service drives it.
package core

import (
	"errors"
	"math/rand"

	"github.com/macrolab/macrosim/internal/econ"
	"github.com/macrolab/macrosim/internal/portfolio"
	"github.com/macrolab/macrosim/internal/scenario"
	"github.com/macrolab/macrosim/internal/simevent"
)

var (
	ErrNoPendingEvent = errors.New("no pending event")
	ErrUnknownChoice  = errors.New("unknown choice")
	ErrNotRunning     = errors.New("session not running")
)

// State is the engine's lifecycle state.
// Idle → Countdown(timeRemaining) → [EventPending ⇄ Countdown] → Finished.
// The countdown clock keeps ticking in EventPending.
type State int

const (
	StateIdle State = iota
	StateCountdown
	StateEventPending
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCountdown:
		return "countdown"
	case StateEventPending:
		return "event-pending"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// ScoreSet holds the derived session scores, each in [0, 100].
type ScoreSet struct {
	Wealth     float64 `json:"wealth"`
	Stability  float64 `json:"stability"`
	Innovation float64 `json:"innovation"`
}

// Config holds the session core's tunables.
type Config struct {
	// LengthTicks is the session length in countdown ticks (seconds).
	LengthTicks int
	// DriftEvery applies a random market shift every Nth tick.
	DriftEvery int
	// EventEvery requests a new market event every Nth tick (if none pending).
	EventEvery int
	// InitialValue is the portfolio's starting value.
	InitialValue float64
	// InflationStabilityThreshold: slider mutations nudge stability -2 above
	// this inflation level, +2 at or below it.
	InflationStabilityThreshold float64
}

// DefaultConfig returns a Config with the standard session parameters.
func DefaultConfig() Config {
	return Config{
		LengthTicks:                 120,
		DriftEvery:                  10,
		EventEvery:                  20,
		InitialValue:                portfolio.DefaultInitialValue,
		InflationStabilityThreshold: 5.0,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.LengthTicks <= 0 {
		c.LengthTicks = d.LengthTicks
	}
	if c.DriftEvery <= 0 {
		c.DriftEvery = d.DriftEvery
	}
	if c.EventEvery <= 0 {
		c.EventEvery = d.EventEvery
	}
	if c.InitialValue <= 0 {
		c.InitialValue = d.InitialValue
	}
	if c.InflationStabilityThreshold <= 0 {
		c.InflationStabilityThreshold = d.InflationStabilityThreshold
	}
	return c
}

// Outcome describes a side effect produced by advancing the core. The
// service translates outcomes into notifications and collaborator requests.
type Outcome interface{ isOutcome() }

// DriftApplied reports a periodic market shift.
type DriftApplied struct {
	Delta float64
}

func (DriftApplied) isOutcome() {}

// EventRequested asks the service to fetch a new market event.
type EventRequested struct{}

func (EventRequested) isOutcome() {}

// Finished reports session end and final performance percent.
type Finished struct {
	Performance float64
}

func (Finished) isOutcome() {}

// Core is the session state machine. Not safe for concurrent use; the
// session service serializes access through its engine goroutine.
type Core struct {
	cfg Config
	rng *rand.Rand

	state     State
	tick      int
	remaining int

	params    econ.Params
	portfolio portfolio.Portfolio
	scores    ScoreSet
	pending   *simevent.Event
	scenarios []scenario.Scenario
	resolved  int
}

// New creates a Core in the Idle state. A nil rng falls back to a
// time-seeded source; tests pass a seeded one for reproducibility.
func New(cfg Config, rng *rand.Rand) *Core {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Core{
		cfg:       cfg.withDefaults(),
		rng:       rng,
		params:    econ.DefaultParams(),
		portfolio: portfolio.New(cfg.InitialValue),
		scores:    ScoreSet{Wealth: 50, Stability: 50, Innovation: 50},
	}
}

// Start (re)enters Countdown: full time remaining, portfolio back at its
// initial value, scores re-centered, any stale pending event dropped.
// User-set parameters survive the restart.
func (c *Core) Start() {
	c.state = StateCountdown
	c.tick = 0
	c.remaining = c.cfg.LengthTicks
	c.portfolio = c.portfolio.Reset()
	c.scores = ScoreSet{Wealth: 50, Stability: 50, Innovation: 50}
	c.pending = nil
	c.resolved = 0
}

// Advance processes one countdown tick. Ticking continues while an event is
// pending; only Idle and Finished states ignore ticks.
func (c *Core) Advance() []Outcome {
	if c.state != StateCountdown && c.state != StateEventPending {
		return nil
	}

	c.tick++
	c.remaining--

	var outs []Outcome

	if c.tick%c.cfg.DriftEvery == 0 {
		delta := c.rng.Float64()*2 - 1
		c.ApplyDrift(delta)
		outs = append(outs, DriftApplied{Delta: delta})
	}

	if c.tick%c.cfg.EventEvery == 0 && c.pending == nil {
		outs = append(outs, EventRequested{})
	}

	if c.remaining <= 0 {
		c.state = StateFinished
		c.pending = nil
		outs = append(outs, Finished{Performance: c.portfolio.Performance()})
	}

	return outs
}

// ApplyDrift applies a market shift delta to parameters and portfolio:
// inflation and GDP growth move by delta, the fed rate by delta/2 (all
// clamped), and the portfolio value by delta percent.
func (c *Core) ApplyDrift(delta float64) {
	c.params = c.params.ApplyDrift(delta)
	c.portfolio = c.portfolio.ApplyShift(delta)
}

// AttachEvent arms a fetched event. Returns false when the session is not in
// plain Countdown: an already-pending event is never displaced, and finished
// or idle sessions discard late arrivals.
func (c *Core) AttachEvent(ev simevent.Event) bool {
	if c.state != StateCountdown {
		return false
	}
	c.pending = &ev
	c.state = StateEventPending
	return true
}

// Respond resolves the pending event with the given choice, applying its
// effects to portfolio, parameters, and stability (all clamped), then
// returns to Countdown.
func (c *Core) Respond(choiceID string) (simevent.Choice, error) {
	if c.state != StateEventPending || c.pending == nil {
		return simevent.Choice{}, ErrNoPendingEvent
	}
	choice, ok := c.pending.Choice(choiceID)
	if !ok {
		return simevent.Choice{}, ErrUnknownChoice
	}

	e := choice.Effects
	c.portfolio = c.portfolio.ApplyShift(e.Portfolio)
	c.params = c.params.ApplyShift(e.Inflation, e.GDPGrowth, e.FedRate)
	c.scores.Stability = econ.ClampScore(c.scores.Stability + e.Stability)

	c.pending = nil
	c.state = StateCountdown
	c.resolved++
	return choice, nil
}

// MergeParams applies a partial slider update and nudges stability by the
// inflation threshold rule.
func (c *Core) MergeParams(u econ.Partial) {
	c.params = c.params.Merge(u)
	if c.params.Inflation > c.cfg.InflationStabilityThreshold {
		c.scores.Stability = econ.ClampScore(c.scores.Stability - 2)
	} else {
		c.scores.Stability = econ.ClampScore(c.scores.Stability + 2)
	}
}

// SetScenarios replaces the active scenario batch wholesale.
func (c *Core) SetScenarios(list []scenario.Scenario) {
	c.scenarios = list
}

// Snapshot is a point-in-time copy of the core for rendering.
type Snapshot struct {
	State          State
	Tick           int
	Remaining      int
	Params         econ.Params
	Portfolio      portfolio.Portfolio
	Scores         ScoreSet
	Pending        *simevent.Event
	Scenarios      []scenario.Scenario
	EventsResolved int
}

// Snapshot copies the observable core state.
func (c *Core) Snapshot() Snapshot {
	snap := Snapshot{
		State:          c.state,
		Tick:           c.tick,
		Remaining:      c.remaining,
		Params:         c.params,
		Portfolio:      c.portfolio,
		Scores:         c.scores,
		EventsResolved: c.resolved,
	}
	if c.pending != nil {
		ev := *c.pending
		snap.Pending = &ev
	}
	if len(c.scenarios) > 0 {
		snap.Scenarios = make([]scenario.Scenario, len(c.scenarios))
		copy(snap.Scenarios, c.scenarios)
	}
	return snap
}

// State returns the current lifecycle state.
func (c *Core) State() State { return c.state }

// Params returns the current parameter snapshot.
func (c *Core) Params() econ.Params { return c.params }
