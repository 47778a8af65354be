package alerts

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/macrolab/macrosim/internal/logger"
)

// QuoteFunc resolves a symbol to its latest value. The second return is false
// when the symbol is unknown.
type QuoteFunc func(symbol string) (float64, bool)

// Notifier delivers triggered-alert messages to an external channel.
type Notifier interface {
	Notify(text string) error
}

// Watcher evaluates active alerts on a cron schedule.
type Watcher struct {
	store    *Store
	quotes   QuoteFunc
	notifier Notifier // may be nil
	cron     *cron.Cron
}

// NewWatcher builds a watcher over the given store. notifier may be nil;
// triggered alerts are then only logged and marked.
func NewWatcher(store *Store, quotes QuoteFunc, notifier Notifier) *Watcher {
	return &Watcher{
		store:    store,
		quotes:   quotes,
		notifier: notifier,
		cron:     cron.New(),
	}
}

// Start registers the evaluation job and starts the scheduler.
func (w *Watcher) Start(schedule string) error {
	if _, err := w.cron.AddFunc(schedule, w.Evaluate); err != nil {
		return fmt.Errorf("register alert evaluation: %w", err)
	}
	w.cron.Start()
	logger.Info("alert watcher started: %q", schedule)
	return nil
}

// Stop stops the scheduler; a running evaluation finishes first.
func (w *Watcher) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
	logger.Info("alert watcher stopped")
}

// Evaluate checks every active price alert against the latest quotes.
// Triggered alerts are deactivated so they fire once.
func (w *Watcher) Evaluate() {
	for _, a := range w.store.List() {
		if !a.Active {
			continue
		}
		if a.Type != TypePrice {
			// news and technical alerts have no evaluable data source
			continue
		}

		quote, ok := w.quotes(a.Symbol)
		if !ok {
			logger.Debug("alert %s: unknown symbol %q", a.ID, a.Symbol)
			continue
		}

		triggered := (a.Condition == CondAbove && quote > a.Value) ||
			(a.Condition == CondBelow && quote < a.Value)
		if !triggered {
			continue
		}

		logger.Info("alert triggered: %s %s %s %.2f (now %.2f)",
			a.ID, a.Symbol, a.Condition, a.Value, quote)
		if err := w.store.markTriggered(a.ID, time.Now()); err != nil {
			logger.Error("mark alert triggered: %v", err)
			continue
		}

		if w.notifier != nil {
			msg := fmt.Sprintf("Alert: %s is %s %.2f (now %.2f)",
				a.Symbol, a.Condition, a.Value, quote)
			if err := w.notifier.Notify(msg); err != nil {
				logger.Error("notify alert: %v", err)
			}
		}
	}
}
