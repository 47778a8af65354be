package notify

import (
	"testing"
	"time"
)

func TestPushAndActive(t *testing.T) {
	q := NewQueue(time.Second)
	defer q.Close()

	q.Push("first", KindInfo)
	q.Push("second", KindSuccess)

	active := q.Active()
	if len(active) != 2 {
		t.Fatalf("expected 2 active notifications, got %d", len(active))
	}
	if active[0].Message != "first" || active[1].Message != "second" {
		t.Errorf("unexpected order: %v", active)
	}
	if active[1].ID <= active[0].ID {
		t.Errorf("expected monotonic IDs, got %d then %d", active[0].ID, active[1].ID)
	}
}

func TestSelfExpiry(t *testing.T) {
	q := NewQueue(50 * time.Millisecond)
	defer q.Close()

	q.Push("short-lived", KindWarning)

	// Further pushes must not extend the first notification's life.
	time.Sleep(20 * time.Millisecond)
	q.Push("later", KindInfo)

	time.Sleep(50 * time.Millisecond) // 70ms after first push

	active := q.Active()
	if len(active) != 1 {
		t.Fatalf("expected 1 active notification after expiry, got %d", len(active))
	}
	if active[0].Message != "later" {
		t.Errorf("wrong survivor: %s", active[0].Message)
	}

	time.Sleep(40 * time.Millisecond)
	if got := len(q.Active()); got != 0 {
		t.Errorf("expected empty queue, got %d", got)
	}
}

func TestExpiryAfterCloseIsHarmless(t *testing.T) {
	q := NewQueue(20 * time.Millisecond)
	q.Push("doomed", KindInfo)
	q.Close()

	if got := len(q.Active()); got != 0 {
		t.Errorf("expected empty queue after close, got %d", got)
	}

	// Let the outstanding timer fire against the closed queue.
	time.Sleep(40 * time.Millisecond)
	if got := len(q.Active()); got != 0 {
		t.Errorf("expected queue to stay empty, got %d", got)
	}
}

func TestPushAfterCloseIsDropped(t *testing.T) {
	q := NewQueue(time.Second)
	q.Close()
	q.Push("ignored", KindInfo)
	if got := len(q.Active()); got != 0 {
		t.Errorf("expected push after close to be dropped, got %d", got)
	}
}
