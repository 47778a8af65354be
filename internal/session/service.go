// Package session runs the simulation session engine: a single goroutine owns
// the core state machine and a wall-clock ticker, and all mutations arrive as
// commands over a channel. Collaborator calls (event context, scenario
// generation) run on side goroutines and deliver their results back as
// epoch-tagged commands, so a response that lands after a restart or shutdown
// is discarded instead of mutating the wrong session.
package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/macrolab/macrosim/internal/econ"
	"github.com/macrolab/macrosim/internal/logger"
	"github.com/macrolab/macrosim/internal/notify"
	"github.com/macrolab/macrosim/internal/recorder"
	"github.com/macrolab/macrosim/internal/scenario"
	"github.com/macrolab/macrosim/internal/session/core"
	"github.com/macrolab/macrosim/internal/simevent"
)

var ErrClosed = errors.New("session service closed")

// ScenarioSource produces investment scenarios for the current parameters.
type ScenarioSource interface {
	Simulate(ctx context.Context, p econ.Params) ([]scenario.Scenario, error)
}

// EventSource supplies market context used to flesh out generated events.
type EventSource interface {
	GenerateEvent(ctx context.Context) (simevent.Context, error)
}

type Service struct {
	cfg Config

	core   *core.Core
	gen    *simevent.Generator
	notify *notify.Queue
	rec    recorder.Recorder

	scenarios ScenarioSource // nil: generate locally
	events    EventSource    // nil: generate events without market context

	cmdCh chan any

	closed  chan struct{}
	closeMu sync.Mutex
	wg      sync.WaitGroup

	// epoch increments on every Start; async results carry the epoch they
	// were requested under and are dropped when it no longer matches.
	epoch atomic.Int64

	startedAt time.Time // engine goroutine only
}

// NewService starts the engine goroutine. scenarios, events, and rec may each
// be nil; the service then degrades to local generation and no recording.
func NewService(cfg Config, scenarios ScenarioSource, events EventSource, rec recorder.Recorder) *Service {
	cfg = cfg.withDefaults()
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := &Service{
		cfg:       cfg,
		core:      core.New(cfg.Core, rand.New(rand.NewSource(seed))),
		gen:       simevent.NewGenerator(nil),
		notify:    notify.NewQueue(cfg.NotificationTTL),
		rec:       rec,
		scenarios: scenarios,
		events:    events,
		cmdCh:     make(chan any, cfg.CommandBuffer),
		closed:    make(chan struct{}),
	}

	s.wg.Add(1)
	go s.engineLoop()
	return s
}

// Close stops the engine and drops all pending notifications. In-flight
// collaborator calls finish (or time out) before Close returns; their results
// are discarded.
func (s *Service) Close() {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()

	select {
	case <-s.closed:
		return
	default:
		close(s.closed)
	}
	s.wg.Wait()
	s.notify.Close()
}

// Start begins a fresh session. A running session restarts; user parameters
// survive, everything else resets.
func (s *Service) Start() {
	s.post(startCmd{})
}

// SetParams applies a partial parameter update (nil fields untouched).
func (s *Service) SetParams(u econ.Partial) {
	s.post(setParamsCmd{update: u})
}

// RunSimulation regenerates the scenario batch for the current parameters.
// Results replace the previous batch wholesale; the latest request wins.
func (s *Service) RunSimulation() {
	s.post(runSimCmd{})
}

// RespondToEvent resolves the pending market event with the given choice.
func (s *Service) RespondToEvent(ctx context.Context, choiceID string) (simevent.Choice, error) {
	if err := s.ensureOpen(ctx); err != nil {
		return simevent.Choice{}, err
	}

	reply := make(chan respondResp, 1)
	if err := s.sendCmd(ctx, respondCmd{choiceID: choiceID, reply: reply}); err != nil {
		return simevent.Choice{}, err
	}

	select {
	case r := <-reply:
		return r.choice, r.err
	case <-ctx.Done():
		return simevent.Choice{}, ctx.Err()
	case <-s.closed:
		return simevent.Choice{}, ErrClosed
	}
}

// Snapshot returns a point-in-time copy of the session state.
func (s *Service) Snapshot(ctx context.Context) (core.Snapshot, error) {
	if err := s.ensureOpen(ctx); err != nil {
		return core.Snapshot{}, err
	}

	reply := make(chan core.Snapshot, 1)
	if err := s.sendCmd(ctx, snapshotCmd{reply: reply}); err != nil {
		return core.Snapshot{}, err
	}

	select {
	case snap := <-reply:
		return snap, nil
	case <-ctx.Done():
		return core.Snapshot{}, ctx.Err()
	case <-s.closed:
		return core.Snapshot{}, ErrClosed
	}
}

// Notifications returns the currently visible notifications, oldest first.
func (s *Service) Notifications() []notify.Notification {
	return s.notify.Active()
}

type startCmd struct{}
type setParamsCmd struct {
	update econ.Partial
}
type runSimCmd struct{}
type respondCmd struct {
	choiceID string
	reply    chan respondResp
}
type respondResp struct {
	choice simevent.Choice
	err    error
}
type snapshotCmd struct {
	reply chan core.Snapshot
}
type eventContextCmd struct {
	epoch int64
	evCtx simevent.Context
}
type scenariosCmd struct {
	epoch int64
	list  []scenario.Scenario
}

func (s *Service) ensureOpen(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.closed:
		return ErrClosed
	default:
		return nil
	}
}

func (s *Service) sendCmd(ctx context.Context, cmd any) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.closed:
		return ErrClosed
	case s.cmdCh <- cmd:
		return nil
	}
}

// post is sendCmd for fire-and-forget callers and result goroutines.
func (s *Service) post(cmd any) {
	select {
	case <-s.closed:
	case s.cmdCh <- cmd:
	}
}

// owns core state; the only goroutine that touches s.core and s.gen
func (s *Service) engineLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.closed:
			return
		case <-ticker.C:
			s.handleTick()
		case cmd := <-s.cmdCh:
			s.handleCmd(cmd)
		}
	}
}

func (s *Service) handleTick() {
	for _, out := range s.core.Advance() {
		switch o := out.(type) {
		case core.DriftApplied:
			logger.Debug("market drift: %+.2f%%", o.Delta)
		case core.EventRequested:
			s.fetchEventContext()
		case core.Finished:
			s.finish(o)
		}
	}
}

func (s *Service) handleCmd(cmd any) {
	switch c := cmd.(type) {
	case startCmd:
		s.epoch.Add(1)
		s.startedAt = time.Now()
		s.core.Start()
		logger.Info("session started: %d ticks", s.cfg.Core.LengthTicks)

	case setParamsCmd:
		s.core.MergeParams(c.update)

	case runSimCmd:
		s.runSimulation()

	case respondCmd:
		choice, err := s.core.Respond(c.choiceID)
		if err == nil {
			s.notify.Push(choice.Impact, notify.KindSuccess)
		}
		c.reply <- respondResp{choice: choice, err: err}

	case snapshotCmd:
		c.reply <- s.core.Snapshot()

	case eventContextCmd:
		if c.epoch != s.epoch.Load() {
			logger.Debug("dropping stale event context")
			return
		}
		ev := s.gen.FromContext(c.evCtx)
		if s.core.AttachEvent(ev) {
			s.notify.Push("Market event: "+ev.Title, notify.KindInfo)
		}

	case scenariosCmd:
		if c.epoch != s.epoch.Load() {
			logger.Debug("dropping stale scenario batch")
			return
		}
		s.core.SetScenarios(c.list)
	}
}

// fetchEventContext asks the collaborator for market context, then delivers
// it back to the engine loop. Failure degrades to an empty context; the event
// itself is always generated.
func (s *Service) fetchEventContext() {
	epoch := s.epoch.Load()

	if s.events == nil {
		s.handleCmd(eventContextCmd{epoch: epoch})
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.RequestTimeout)
		defer cancel()

		evCtx, err := s.events.GenerateEvent(ctx)
		if err != nil {
			logger.Warn("event context fetch failed, using defaults: %v", err)
			evCtx = simevent.Context{}
		}
		s.post(eventContextCmd{epoch: epoch, evCtx: evCtx})
	}()
}

func (s *Service) runSimulation() {
	params := s.core.Params()

	if s.scenarios == nil {
		s.core.SetScenarios(scenario.Generate(params))
		return
	}

	epoch := s.epoch.Load()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.RequestTimeout)
		defer cancel()

		list, err := s.scenarios.Simulate(ctx, params)
		if err != nil {
			// keep the previous batch on failure
			logger.Warn("scenario fetch failed: %v", err)
			return
		}
		s.post(scenariosCmd{epoch: epoch, list: list})
	}()
}

func (s *Service) finish(o core.Finished) {
	kind := notify.KindSuccess
	if o.Performance < 0 {
		kind = notify.KindWarning
	}
	s.notify.Push(fmt.Sprintf("Session complete: portfolio %+.2f%%", o.Performance), kind)

	snap := s.core.Snapshot()
	rec := &recorder.SessionRecord{
		StartedAt:      s.startedAt,
		DurationTicks:  snap.Tick,
		InitialValue:   snap.Portfolio.Initial,
		FinalValue:     snap.Portfolio.Current,
		Performance:    o.Performance,
		EventsResolved: snap.EventsResolved,
		Stability:      snap.Scores.Stability,
	}
	if err := s.rec.RecordSession(rec); err != nil {
		logger.Error("record session: %v", err)
	}
	logger.Info("session finished: %+.2f%%, %d events resolved", o.Performance, snap.EventsResolved)
}
