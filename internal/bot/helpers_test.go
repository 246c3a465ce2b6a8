package bot

import (
	"testing"

	api "github.com/OvyFlash/telegram-bot-api"
)

func TestUserNames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		user     *api.User
		fullName string
	}{
		{user: nil, fullName: ""},
		{user: &api.User{UserName: "neo", FirstName: "Thomas", LastName: "Anderson"}, fullName: "Thomas Anderson"},
		{user: &api.User{FirstName: "Trinity"}, fullName: "Trinity"},
		{user: &api.User{UserName: "oracle"}, fullName: "oracle"},
	}
	for _, tt := range tests {
		if got := GetFullName(tt.user); got != tt.fullName {
			t.Fatalf("GetFullName(%+v) = %q, want %q", tt.user, got, tt.fullName)
		}
	}
}

func TestExtractText(t *testing.T) {
	t.Parallel()

	if got := ExtractText(&api.Message{Text: "hello"}); got != "hello" {
		t.Fatalf("unexpected text %q", got)
	}
	if got := ExtractText(&api.Message{Caption: "photo caption"}); got != "photo caption" {
		t.Fatalf("unexpected caption %q", got)
	}
	if got := ExtractText(nil); got != "" {
		t.Fatalf("expected empty text for nil message, got %q", got)
	}
}
