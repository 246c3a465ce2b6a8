package moderation

import "testing"

func TestMatchBannedWord(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		text  string
		words []string
		want  string
		ok    bool
	}{
		{name: "case insensitive substring", text: "SPAMalot now spam", words: []string{"spam"}, want: "spam", ok: true},
		{name: "inside word", text: "myPasswordHere", words: []string{"password"}, want: "password", ok: true},
		{name: "first listed wins", text: "foo bar", words: []string{"bar", "foo"}, want: "bar", ok: true},
		{name: "empty words ignored", text: "hello", words: []string{"", "xyz"}, ok: false},
		{name: "empty text", text: "", words: []string{"spam"}, ok: false},
		{name: "no list", text: "anything", words: nil, ok: false},
		{name: "upper case stored word", text: "buy now", words: []string{"BUY"}, want: "BUY", ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := MatchBannedWord(tt.text, tt.words)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("MatchBannedWord(%q) = %q, %v; want %q, %v", tt.text, got, ok, tt.want, tt.ok)
			}
		})
	}
}
