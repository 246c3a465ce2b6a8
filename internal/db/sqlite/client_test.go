package sqlite

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/iamwavecut/ngwarden/internal/db"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestClient(t *testing.T, opts ...Option) *sqliteClient {
	t.Helper()

	client, err := NewSQLiteClient(context.Background(), t.TempDir(), "test.db", opts...)
	if err != nil {
		t.Fatalf("new sqlite client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestWarningsIndexExistsAfterMigrations(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newTestClient(t)

	rows, err := client.db.QueryContext(ctx, "PRAGMA index_list('warnings')")
	if err != nil {
		t.Fatalf("query index_list: %v", err)
	}
	defer rows.Close()

	found := false
	for rows.Next() {
		var (
			seq     int
			name    string
			unique  int
			origin  string
			partial int
		)
		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			t.Fatalf("scan index row: %v", err)
		}
		if name == "idx_warnings_chat_user" {
			found = true
		}
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("iterate index rows: %v", err)
	}
	if !found {
		t.Fatalf("required index idx_warnings_chat_user not found")
	}
}

func TestGetSettingsCreatesDefaultsOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newTestClient(t, WithSettingsDefaults(db.SettingsDefaults{WarnLimit: 4, AntifloodCount: 6, AntifloodSeconds: 12}))

	settings, err := client.GetSettings(ctx, -1001)
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	if settings.WarnLimit != 4 || settings.AntifloodCount != 6 || settings.AntifloodSeconds != 12 {
		t.Fatalf("unexpected defaults: %#v", settings)
	}
	if settings.WelcomeMessage != db.DefaultWelcomeMessage || settings.Rules != db.DefaultRules {
		t.Fatalf("unexpected default texts: %#v", settings)
	}
	if !settings.AntifloodEnabled || len(settings.BadWords) != 0 || settings.SlowmodeSeconds != 0 {
		t.Fatalf("unexpected default flags: %#v", settings)
	}

	if err := client.UpdateWelcome(ctx, -1001, "hi {name}"); err != nil {
		t.Fatalf("update welcome: %v", err)
	}
	again, err := client.GetSettings(ctx, -1001)
	if err != nil {
		t.Fatalf("get settings again: %v", err)
	}
	if again.WelcomeMessage != "hi {name}" {
		t.Fatalf("welcome not persisted: %q", again.WelcomeMessage)
	}
	if again.Rules != db.DefaultRules {
		t.Fatalf("rules must keep default, got %q", again.Rules)
	}
}

func TestSettingsUpdatesPersist(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newTestClient(t)
	const chatID = int64(-1002)

	// updates on a chat never read before must create the row first
	if err := client.UpdateRules(ctx, chatID, "be nice"); err != nil {
		t.Fatalf("update rules: %v", err)
	}
	if err := client.UpdateBadWords(ctx, chatID, db.WordList{"spam", "scam"}); err != nil {
		t.Fatalf("update bad words: %v", err)
	}
	if err := client.UpdateSlowmode(ctx, chatID, 30); err != nil {
		t.Fatalf("update slowmode: %v", err)
	}
	if err := client.UpdateWarnLimit(ctx, chatID, 5); err != nil {
		t.Fatalf("update warn limit: %v", err)
	}
	if err := client.UpdateAntiflood(ctx, chatID, false, 7, 20); err != nil {
		t.Fatalf("update antiflood: %v", err)
	}

	settings, err := client.GetSettings(ctx, chatID)
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	if settings.Rules != "be nice" {
		t.Fatalf("unexpected rules: %q", settings.Rules)
	}
	if len(settings.BadWords) != 2 || settings.BadWords[0] != "spam" || settings.BadWords[1] != "scam" {
		t.Fatalf("unexpected bad words: %v", settings.BadWords)
	}
	if settings.SlowmodeSeconds != 30 || settings.WarnLimit != 5 {
		t.Fatalf("unexpected slowmode/limit: %#v", settings)
	}
	if settings.AntifloodEnabled || settings.AntifloodCount != 7 || settings.AntifloodSeconds != 20 {
		t.Fatalf("unexpected antiflood: %#v", settings)
	}

	if err := client.UpdateWarnLimit(ctx, chatID, 0); err == nil {
		t.Fatalf("expected error for zero warn limit")
	}
	if err := client.UpdateAntiflood(ctx, chatID, true, 0, 10); err == nil {
		t.Fatalf("expected error for zero antiflood count")
	}
}

func TestSettingsArePerChat(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newTestClient(t)

	if err := client.UpdateRules(ctx, 1, "first"); err != nil {
		t.Fatalf("update rules: %v", err)
	}
	other, err := client.GetSettings(ctx, 2)
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	if other.Rules != db.DefaultRules {
		t.Fatalf("settings leaked between chats: %q", other.Rules)
	}
}

func TestWarningsCountRemoveAndClear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newTestClient(t)
	const chatID, userID = int64(-1003), int64(42)

	for i, reason := range []string{"first", "second", "third"} {
		count, err := client.AddWarning(ctx, &db.Warning{ChatID: chatID, UserID: userID, IssuerID: 1, Reason: reason})
		if err != nil {
			t.Fatalf("add warning %d: %v", i, err)
		}
		if count != i+1 {
			t.Fatalf("expected count %d, got %d", i+1, count)
		}
	}
	if _, err := client.AddWarning(ctx, &db.Warning{ChatID: chatID, UserID: 43, IssuerID: 1}); err != nil {
		t.Fatalf("add warning for other user: %v", err)
	}

	remaining, err := client.RemoveWarning(ctx, chatID, userID)
	if err != nil {
		t.Fatalf("remove warning: %v", err)
	}
	if remaining != 2 {
		t.Fatalf("expected 2 remaining, got %d", remaining)
	}
	var list []*db.Warning
	if err := client.db.SelectContext(ctx, &list, `SELECT id, chat_id, user_id, issuer_id, reason, created_at FROM warnings WHERE chat_id = ? AND user_id = ? ORDER BY id`, chatID, userID); err != nil {
		t.Fatalf("select warnings: %v", err)
	}
	if len(list) != 2 || list[0].Reason != "first" || list[1].Reason != "second" {
		t.Fatalf("most recent warning must be removed, got %#v", list)
	}

	if err := client.ClearWarnings(ctx, chatID, userID); err != nil {
		t.Fatalf("clear warnings: %v", err)
	}
	count, err := client.WarningCount(ctx, chatID, userID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 after clear, got %d", count)
	}
	other, err := client.WarningCount(ctx, chatID, 43)
	if err != nil {
		t.Fatalf("count other: %v", err)
	}
	if other != 1 {
		t.Fatalf("clear must not touch other members, got %d", other)
	}

	remaining, err = client.RemoveWarning(ctx, chatID, userID)
	if err != nil {
		t.Fatalf("remove from empty: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("expected 0 for empty list, got %d", remaining)
	}
}

func TestMuteExpiresLazily(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	client := newTestClient(t, WithClock(clock.Now))
	const chatID, userID = int64(-1004), int64(7)

	expiresAt, err := client.AddMute(ctx, chatID, userID, 60)
	if err != nil {
		t.Fatalf("add mute: %v", err)
	}
	if want := clock.Now().Add(time.Minute); !expiresAt.Equal(want) {
		t.Fatalf("expected expiry %v, got %v", want, expiresAt)
	}

	muted, err := client.IsMuted(ctx, chatID, userID)
	if err != nil {
		t.Fatalf("is muted: %v", err)
	}
	if !muted {
		t.Fatalf("expected muted before expiry")
	}

	clock.Advance(time.Minute)
	muted, err = client.IsMuted(ctx, chatID, userID)
	if err != nil {
		t.Fatalf("is muted after expiry: %v", err)
	}
	if muted {
		t.Fatalf("mute must end exactly at expiry")
	}

	stored, err := client.MuteExpiry(ctx, chatID, userID)
	if err != nil {
		t.Fatalf("mute expiry: %v", err)
	}
	if !stored.IsZero() {
		t.Fatalf("expired mute must be deleted, got %v", stored)
	}

	if _, err := client.AddMute(ctx, chatID, userID, 0); err == nil {
		t.Fatalf("expected error for zero duration")
	}
}

func TestMuteReplaceAndRemove(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	client := newTestClient(t, WithClock(clock.Now))

	if _, err := client.AddMute(ctx, 1, 2, 3600); err != nil {
		t.Fatalf("add mute: %v", err)
	}
	expiresAt, err := client.AddMute(ctx, 1, 2, 60)
	if err != nil {
		t.Fatalf("replace mute: %v", err)
	}
	stored, err := client.MuteExpiry(ctx, 1, 2)
	if err != nil {
		t.Fatalf("mute expiry: %v", err)
	}
	if !stored.Equal(expiresAt) {
		t.Fatalf("mute must be replaced, stored %v want %v", stored, expiresAt)
	}

	if err := client.RemoveMute(ctx, 1, 2); err != nil {
		t.Fatalf("remove mute: %v", err)
	}
	muted, err := client.IsMuted(ctx, 1, 2)
	if err != nil {
		t.Fatalf("is muted: %v", err)
	}
	if muted {
		t.Fatalf("expected not muted after removal")
	}
	if err := client.RemoveMute(ctx, 1, 2); err != nil {
		t.Fatalf("removing absent mute must succeed: %v", err)
	}
}

func TestUserStatsUpsert(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	client := newTestClient(t, WithClock(clock.Now))

	stats, err := client.GetUserStats(ctx, 1, 2)
	if err != nil {
		t.Fatalf("get absent stats: %v", err)
	}
	if stats != nil {
		t.Fatalf("expected nil stats, got %#v", stats)
	}

	if err := client.UpdateUserStats(ctx, 1, 2, "old", "Old"); err != nil {
		t.Fatalf("update stats: %v", err)
	}
	firstSeen := clock.Now()
	clock.Advance(time.Hour)
	if err := client.UpdateUserStats(ctx, 1, 2, "new", "New"); err != nil {
		t.Fatalf("update stats again: %v", err)
	}

	stats, err = client.GetUserStats(ctx, 1, 2)
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}
	if stats.MessagesCount != 2 {
		t.Fatalf("expected 2 messages, got %d", stats.MessagesCount)
	}
	if stats.Username != "new" || stats.FirstName != "New" {
		t.Fatalf("names must be refreshed: %#v", stats)
	}
	if !stats.FirstSeen.Equal(firstSeen) {
		t.Fatalf("first seen must stay %v, got %v", firstSeen, stats.FirstSeen)
	}
	if !stats.LastSeen.Equal(clock.Now()) {
		t.Fatalf("last seen must be %v, got %v", clock.Now(), stats.LastSeen)
	}
}
