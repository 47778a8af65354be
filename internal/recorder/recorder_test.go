package recorder

import (
	"path/filepath"
	"testing"
	"time"
)

func TestSQLiteRecorderRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")

	r, err := NewSQLiteRecorder(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()

	rec := &SessionRecord{
		StartedAt:      time.Now(),
		DurationTicks:  120,
		InitialValue:   1_000_000,
		FinalValue:     1_083_000,
		Performance:    8.3,
		EventsResolved: 4,
		Stability:      56,
	}
	if err := r.RecordSession(rec); err != nil {
		t.Fatalf("record: %v", err)
	}

	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 session row, got %d", count)
	}

	var perf float64
	if err := r.db.QueryRow("SELECT performance_pct FROM sessions").Scan(&perf); err != nil {
		t.Fatalf("select: %v", err)
	}
	if perf != 8.3 {
		t.Errorf("expected performance 8.3, got %v", perf)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")

	r, err := NewSQLiteRecorder(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	r.Close()

	r2, err := NewSQLiteRecorder(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	r2.Close()
}
