package moderation

import (
	"testing"
	"time"
)

func TestSlowmodeAllowsOneMessagePerInterval(t *testing.T) {
	t.Parallel()

	s := NewSlowmode()
	key := ChatUser{ChatID: 1, UserID: 2}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	steps := []struct {
		offset time.Duration
		want   bool
	}{
		{0, true},
		{time.Second, false},
		{4 * time.Second, false},
		{5 * time.Second, true},
		{6 * time.Second, false},
		{11 * time.Second, true},
	}
	for _, step := range steps {
		if got := s.Allow(key, start.Add(step.offset), 5*time.Second); got != step.want {
			t.Fatalf("Allow at +%v = %v, want %v", step.offset, got, step.want)
		}
	}
}

func TestSlowmodeDisabledAndIntervalChange(t *testing.T) {
	t.Parallel()

	s := NewSlowmode()
	key := ChatUser{ChatID: 1, UserID: 2}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		if !s.Allow(key, now, 0) {
			t.Fatalf("disabled slowmode must allow everything")
		}
	}

	if !s.Allow(key, now, time.Minute) {
		t.Fatalf("first message must pass")
	}
	if s.Allow(key, now.Add(time.Second), time.Minute) {
		t.Fatalf("second message within a minute must be held")
	}
	// a new interval starts a fresh bucket
	if !s.Allow(key, now.Add(2*time.Second), 2*time.Second) {
		t.Fatalf("interval change must reset the bucket")
	}
}
