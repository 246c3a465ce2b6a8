package db

import "testing"

func TestWordListScanAndValue(t *testing.T) {
	t.Parallel()

	var l WordList
	if err := l.Scan(`["spam","scam"]`); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(l) != 2 || l[0] != "spam" || l[1] != "scam" {
		t.Fatalf("unexpected list: %v", l)
	}

	v, err := l.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if v != `["spam","scam"]` {
		t.Fatalf("unexpected value: %v", v)
	}

	var empty WordList
	if err := empty.Scan(nil); err != nil {
		t.Fatalf("scan nil: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", empty)
	}
	if err := empty.Scan(42); err == nil {
		t.Fatalf("expected error scanning int")
	}
}

func TestWordListWithWithout(t *testing.T) {
	t.Parallel()

	base := WordList{"spam"}
	added := base.With("  SCAM ")
	if len(added) != 2 || added[1] != "scam" {
		t.Fatalf("unexpected list after add: %v", added)
	}
	if len(base) != 1 {
		t.Fatalf("With must not mutate receiver, got %v", base)
	}
	if again := added.With("Spam"); len(again) != 2 {
		t.Fatalf("duplicate word must be ignored, got %v", again)
	}
	if blank := added.With("   "); len(blank) != 2 {
		t.Fatalf("blank word must be ignored, got %v", blank)
	}

	removed := added.Without("SPAM")
	if len(removed) != 1 || removed[0] != "scam" {
		t.Fatalf("unexpected list after remove: %v", removed)
	}
}

func TestDefaultSettingsFallsBackOnInvalidDefaults(t *testing.T) {
	t.Parallel()

	s := DefaultSettings(-100, SettingsDefaults{})
	if s.WarnLimit != 3 || s.AntifloodCount != 5 || s.AntifloodSeconds != 10 {
		t.Fatalf("unexpected defaults: %#v", s)
	}
	if !s.AntifloodEnabled {
		t.Fatalf("antiflood must be enabled by default")
	}
	if s.SlowmodeSeconds != 0 || s.Slowmode() != 0 {
		t.Fatalf("slowmode must be off by default")
	}
}
