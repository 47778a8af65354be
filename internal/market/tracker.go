package market

import (
	"math/rand"
	"sync"
	"time"

	"github.com/macrolab/macrosim/internal/history"
)

// maxStepPct bounds a single random-walk step, in percent.
const maxStepPct = 2.5

// changeHistory is how many recent composite returns feed condition derivation.
const changeHistory = 12

// Tracker random-walks the tracked indexes. Safe for concurrent use; the
// cron refresher writes while handlers read.
type Tracker struct {
	mu      sync.RWMutex
	rng     *rand.Rand
	quotes  []Quote
	changes []float64
	updated time.Time
}

// NewTracker starts all indexes at their base values. A nil rng falls back
// to a time-seeded source.
func NewTracker(indexes []Index, rng *rand.Rand) *Tracker {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	quotes := make([]Quote, len(indexes))
	for i, idx := range indexes {
		quotes[i] = Quote{Symbol: idx.Symbol, Value: idx.Base}
	}
	return &Tracker{
		rng:     rng,
		quotes:  quotes,
		updated: time.Now(),
	}
}

// Refresh applies one random-walk step to every index and records the
// composite return for condition derivation.
func (t *Tracker) Refresh() {
	t.mu.Lock()
	defer t.mu.Unlock()

	var sum float64
	for i := range t.quotes {
		pct := (t.rng.Float64()*2 - 1) * maxStepPct
		t.quotes[i].Value *= 1 + pct/100
		t.quotes[i].ChangePct = pct
		sum += pct
	}
	if len(t.quotes) > 0 {
		t.changes = append(t.changes, sum/float64(len(t.quotes)))
		if len(t.changes) > changeHistory {
			t.changes = t.changes[len(t.changes)-changeHistory:]
		}
	}
	t.updated = time.Now()
}

// Snapshot returns a copy of the current quotes.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	quotes := make([]Quote, len(t.quotes))
	copy(quotes, t.quotes)
	return Snapshot{Quotes: quotes, Updated: t.updated}
}

// Quote returns the latest value for a symbol.
func (t *Tracker) Quote(symbol string) (float64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, q := range t.quotes {
		if q.Symbol == symbol {
			return q.Value, true
		}
	}
	return 0, false
}

// Conditions derives a market-conditions snapshot from the recent composite
// returns.
func (t *Tracker) Conditions() history.Conditions {
	t.mu.RLock()
	defer t.mu.RUnlock()

	changes := make([]float64, len(t.changes))
	copy(changes, t.changes)
	return history.DeriveConditions(changes)
}
