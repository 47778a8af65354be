package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/macrolab/macrosim/internal/econ"
	"github.com/macrolab/macrosim/internal/notify"
	"github.com/macrolab/macrosim/internal/scenario"
	"github.com/macrolab/macrosim/internal/session/core"
	"github.com/macrolab/macrosim/internal/simevent"
)

func testConfig() Config {
	return Config{
		Core: core.Config{
			LengthTicks: 10_000, // long enough that tests never hit the finish line by accident
		},
		TickInterval:    2 * time.Millisecond,
		NotificationTTL: time.Minute,
		RequestTimeout:  50 * time.Millisecond,
	}
}

func waitFor(t *testing.T, s *Service, cond func(core.Snapshot) bool) core.Snapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap, err := s.Snapshot(context.Background())
		if err != nil {
			t.Fatalf("snapshot: %v", err)
		}
		if cond(snap) {
			return snap
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
	return core.Snapshot{}
}

type stubEventSource struct {
	evCtx simevent.Context
	err   error
}

func (s *stubEventSource) GenerateEvent(context.Context) (simevent.Context, error) {
	return s.evCtx, s.err
}

type stubScenarioSource struct {
	batches [][]scenario.Scenario
	calls   int
	err     error
}

func (s *stubScenarioSource) Simulate(context.Context, econ.Params) ([]scenario.Scenario, error) {
	if s.err != nil {
		return nil, s.err
	}
	i := s.calls
	if i >= len(s.batches) {
		i = len(s.batches) - 1
	}
	s.calls++
	return s.batches[i], nil
}

func TestSessionRunsToCompletion(t *testing.T) {
	cfg := testConfig()
	cfg.Core.LengthTicks = 5
	s := NewService(cfg, nil, nil, nil)
	defer s.Close()

	s.Start()
	snap := waitFor(t, s, func(snap core.Snapshot) bool {
		return snap.State == core.StateFinished
	})
	if snap.Remaining > 0 {
		t.Errorf("expected no time remaining, got %d", snap.Remaining)
	}

	found := false
	for _, n := range s.Notifications() {
		if strings.HasPrefix(n.Message, "Session complete") {
			found = true
			if n.Kind != notify.KindSuccess && n.Kind != notify.KindWarning {
				t.Errorf("unexpected notification kind %q", n.Kind)
			}
		}
	}
	if !found {
		t.Error("expected a session-complete notification")
	}
}

func TestEventFetchAndRespond(t *testing.T) {
	cfg := testConfig()
	cfg.Core.EventEvery = 2
	src := &stubEventSource{evCtx: simevent.Context{TopIndex: "NASDAQ"}}
	s := NewService(cfg, nil, src, nil)
	defer s.Close()

	s.Start()
	snap := waitFor(t, s, func(snap core.Snapshot) bool {
		return snap.Pending != nil
	})
	if snap.State != core.StateEventPending {
		t.Fatalf("expected event-pending, got %s", snap.State)
	}
	if len(snap.Pending.Choices) == 0 {
		t.Fatal("pending event has no choices")
	}

	choice, err := s.RespondToEvent(context.Background(), snap.Pending.Choices[0].ID)
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	if choice.ID != snap.Pending.Choices[0].ID {
		t.Errorf("expected choice %q, got %q", snap.Pending.Choices[0].ID, choice.ID)
	}

	after, err := s.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if after.Pending != nil {
		t.Error("pending event survived resolution")
	}
	if after.EventsResolved != 1 {
		t.Errorf("expected 1 resolved event, got %d", after.EventsResolved)
	}
}

func TestEventSourceFailureDegrades(t *testing.T) {
	cfg := testConfig()
	cfg.Core.EventEvery = 2
	src := &stubEventSource{err: errors.New("collaborator down")}
	s := NewService(cfg, nil, src, nil)
	defer s.Close()

	s.Start()
	// The event still arrives, built from default context.
	waitFor(t, s, func(snap core.Snapshot) bool {
		return snap.Pending != nil
	})
}

func TestRespondWithoutPendingEvent(t *testing.T) {
	cfg := testConfig()
	s := NewService(cfg, nil, nil, nil)
	defer s.Close()

	s.Start()
	if _, err := s.RespondToEvent(context.Background(), "nope"); err != core.ErrNoPendingEvent {
		t.Errorf("expected ErrNoPendingEvent, got %v", err)
	}
}

func TestRunSimulationReplacesBatch(t *testing.T) {
	cfg := testConfig()
	src := &stubScenarioSource{batches: [][]scenario.Scenario{
		{{ID: "a", Risk: scenario.RiskLow}},
		{{ID: "b", Risk: scenario.RiskMedium}, {ID: "c", Risk: scenario.RiskHigh}},
	}}
	s := NewService(cfg, src, nil, nil)
	defer s.Close()

	s.Start()
	s.RunSimulation()
	waitFor(t, s, func(snap core.Snapshot) bool {
		return len(snap.Scenarios) == 1 && snap.Scenarios[0].ID == "a"
	})

	s.RunSimulation()
	waitFor(t, s, func(snap core.Snapshot) bool {
		return len(snap.Scenarios) == 2 && snap.Scenarios[0].ID == "b"
	})
}

func TestRunSimulationLocalFallback(t *testing.T) {
	cfg := testConfig()
	s := NewService(cfg, nil, nil, nil)
	defer s.Close()

	s.Start()
	s.RunSimulation()
	snap := waitFor(t, s, func(snap core.Snapshot) bool {
		return len(snap.Scenarios) == 3
	})
	for _, sc := range snap.Scenarios {
		if sc.ID == "" {
			t.Error("locally generated scenario missing ID")
		}
	}
}

func TestScenarioFetchFailureKeepsBatch(t *testing.T) {
	cfg := testConfig()
	src := &stubScenarioSource{batches: [][]scenario.Scenario{
		{{ID: "keep", Risk: scenario.RiskLow}},
	}}
	s := NewService(cfg, src, nil, nil)
	defer s.Close()

	s.Start()
	s.RunSimulation()
	waitFor(t, s, func(snap core.Snapshot) bool {
		return len(snap.Scenarios) == 1
	})

	src.err = errors.New("collaborator down")
	s.RunSimulation()
	time.Sleep(20 * time.Millisecond)

	snap, err := s.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap.Scenarios) != 1 || snap.Scenarios[0].ID != "keep" {
		t.Errorf("expected previous batch to survive the failure, got %v", snap.Scenarios)
	}
}

// A context fetched for an earlier session run must not arm an event in a
// later one.
func TestStaleEventContextDiscardedAfterRestart(t *testing.T) {
	cfg := testConfig()
	cfg.Core.EventEvery = 10
	cfg.TickInterval = 5 * time.Millisecond
	cfg.RequestTimeout = 200 * time.Millisecond
	release := make(chan simevent.Context, 1)
	src := &gatedEventSource{release: release}
	s := NewService(cfg, nil, src, nil)
	defer s.Close()

	s.Start()
	// Wait past tick 10 so a request is in flight, blocked on the gate.
	waitFor(t, s, func(snap core.Snapshot) bool {
		return snap.Tick >= 10
	})

	s.Start() // restart bumps the epoch
	release <- simevent.Context{TopIndex: "NASDAQ"}
	// Check well before the new run reaches its own tick-10 request.
	time.Sleep(15 * time.Millisecond)

	snap, err := s.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.Pending != nil {
		t.Error("stale event context armed an event in the new session")
	}
}

type gatedEventSource struct {
	release chan simevent.Context
}

func (g *gatedEventSource) GenerateEvent(ctx context.Context) (simevent.Context, error) {
	select {
	case c := <-g.release:
		return c, nil
	case <-ctx.Done():
		return simevent.Context{}, ctx.Err()
	}
}

func TestParamsSurviveRestart(t *testing.T) {
	cfg := testConfig()
	s := NewService(cfg, nil, nil, nil)
	defer s.Close()

	s.Start()
	inf := 7.5
	s.SetParams(econ.Partial{Inflation: &inf})
	waitFor(t, s, func(snap core.Snapshot) bool {
		return snap.Params.Inflation == 7.5
	})

	s.Start()
	snap := waitFor(t, s, func(snap core.Snapshot) bool {
		return snap.Tick < 5 // fresh run
	})
	if snap.Params.Inflation != 7.5 {
		t.Errorf("expected inflation to survive restart, got %v", snap.Params.Inflation)
	}
	if snap.Portfolio.Current != snap.Portfolio.Initial {
		t.Errorf("expected portfolio reset, got %v", snap.Portfolio.Current)
	}
}

func TestCloseRejectsCalls(t *testing.T) {
	s := NewService(testConfig(), nil, nil, nil)
	s.Close()

	if _, err := s.Snapshot(context.Background()); err != ErrClosed {
		t.Errorf("expected ErrClosed from Snapshot, got %v", err)
	}
	if _, err := s.RespondToEvent(context.Background(), "x"); err != ErrClosed {
		t.Errorf("expected ErrClosed from RespondToEvent, got %v", err)
	}
	// idempotent
	s.Close()
}
