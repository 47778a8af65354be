// Package recorder persists finished simulation sessions for later review.
package recorder

import "time"

// SessionRecord holds the result of one completed simulation session.
type SessionRecord struct {
	StartedAt      time.Time
	DurationTicks  int
	InitialValue   float64
	FinalValue     float64
	Performance    float64 // percent
	EventsResolved int
	Stability      float64
}

// Recorder persists session results.
type Recorder interface {
	RecordSession(rec *SessionRecord) error
	Close() error
}
