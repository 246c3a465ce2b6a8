package moderation

import (
	"testing"
	"time"
)

func TestFloodDetectorTripsOnSixthMessage(t *testing.T) {
	t.Parallel()

	d := NewFloodDetector()
	key := ChatUser{ChatID: 1, UserID: 2}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	triggers := 0
	for i := 0; i < 6; i++ {
		if d.Hit(key, start.Add(time.Duration(i)*time.Second), 5, 10*time.Second) {
			triggers++
			if i != 5 {
				t.Fatalf("flood triggered on message %d, want 6th", i+1)
			}
		}
	}
	if triggers != 1 {
		t.Fatalf("expected exactly one trigger, got %d", triggers)
	}

	// window is cleared, the next messages start over
	for i := 6; i < 11; i++ {
		if d.Hit(key, start.Add(time.Duration(i)*time.Second), 5, 10*time.Second) {
			t.Fatalf("unexpected re-trigger on message %d", i+1)
		}
	}
}

func TestFloodDetectorDropsOldTimestamps(t *testing.T) {
	t.Parallel()

	d := NewFloodDetector()
	key := ChatUser{ChatID: 1, UserID: 2}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 20; i++ {
		// one message every 3 seconds keeps at most 4 in a 10s window
		if d.Hit(key, start.Add(time.Duration(i)*3*time.Second), 5, 10*time.Second) {
			t.Fatalf("slow sender must not trigger flood, message %d", i+1)
		}
	}
}

func TestFloodDetectorKeysAreIndependent(t *testing.T) {
	t.Parallel()

	d := NewFloodDetector()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := ChatUser{ChatID: 1, UserID: 1}
	b := ChatUser{ChatID: 1, UserID: 2}
	c := ChatUser{ChatID: 2, UserID: 1}

	for i := 0; i < 3; i++ {
		for _, key := range []ChatUser{a, b, c} {
			if d.Hit(key, now, 3, 10*time.Second) {
				t.Fatalf("key %v triggered early", key)
			}
		}
	}
	if !d.Hit(a, now, 3, 10*time.Second) {
		t.Fatalf("expected trigger for %v", a)
	}
	if d.Hit(a, now, 3, 10*time.Second) {
		t.Fatalf("triggered window must start over")
	}
}
