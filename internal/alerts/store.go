// Package alerts stores user-defined market alerts and evaluates them on a
// schedule. The store persists as a single JSON file rewritten in full on
// every mutation.
package alerts

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("alert not found")

// Type classifies what an alert watches.
type Type string

const (
	TypePrice     Type = "price"
	TypeNews      Type = "news"
	TypeTechnical Type = "technical"
)

// Condition is the comparison direction for price alerts.
type Condition string

const (
	CondAbove Condition = "above"
	CondBelow Condition = "below"
)

// Alert is a user-defined watch on a market symbol.
type Alert struct {
	ID          string     `json:"id"`
	Type        Type       `json:"type"`
	Symbol      string     `json:"symbol"`
	Condition   Condition  `json:"condition"`
	Value       float64    `json:"value"`
	Active      bool       `json:"active"`
	CreatedAt   time.Time  `json:"createdAt"`
	TriggeredAt *time.Time `json:"triggeredAt,omitempty"`
}

// Store holds alerts in memory and mirrors every change to disk.
type Store struct {
	mu     sync.RWMutex
	path   string
	alerts []Alert
}

// NewStore loads the alert file at path, creating an empty store when the
// file does not exist yet.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read alerts file: %w", err)
	}
	if err := json.Unmarshal(data, &s.alerts); err != nil {
		return nil, fmt.Errorf("parse alerts file: %w", err)
	}
	return s, nil
}

// List returns a copy of all alerts, oldest first.
func (s *Store) List() []Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Alert, len(s.alerts))
	copy(out, s.alerts)
	return out
}

// Add stores a new alert, assigning its ID and creation time.
func (s *Store) Add(a Alert) (Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a.ID = uuid.New().String()
	a.CreatedAt = time.Now()
	a.Active = true
	a.TriggeredAt = nil
	if a.Condition == "" {
		a.Condition = CondAbove
	}
	if a.Type == "" {
		a.Type = TypePrice
	}

	s.alerts = append(s.alerts, a)
	if err := s.persistLocked(); err != nil {
		s.alerts = s.alerts[:len(s.alerts)-1]
		return Alert{}, err
	}
	return a, nil
}

// Delete removes the alert with the given ID.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, a := range s.alerts {
		if a.ID == id {
			s.alerts = append(s.alerts[:i], s.alerts[i+1:]...)
			return s.persistLocked()
		}
	}
	return ErrNotFound
}

// SetActive toggles an alert on or off.
func (s *Store) SetActive(id string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.alerts {
		if s.alerts[i].ID == id {
			s.alerts[i].Active = active
			return s.persistLocked()
		}
	}
	return ErrNotFound
}

// markTriggered records the trigger time and deactivates the alert so it does
// not fire again on the next evaluation.
func (s *Store) markTriggered(id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.alerts {
		if s.alerts[i].ID == id {
			s.alerts[i].Active = false
			s.alerts[i].TriggeredAt = &at
			return s.persistLocked()
		}
	}
	return ErrNotFound
}

// persistLocked rewrites the whole alert file. Write-to-temp then rename
// keeps the file whole if the process dies mid-write.
func (s *Store) persistLocked() error {
	data, err := json.MarshalIndent(s.alerts, "", "  ")
	if err != nil {
		return fmt.Errorf("encode alerts: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create alerts dir: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write alerts file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace alerts file: %w", err)
	}
	return nil
}
