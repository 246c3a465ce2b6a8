package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type (
	ChatSettings struct {
		ChatID           int64    `db:"chat_id"`
		WelcomeMessage   string   `db:"welcome_message"`
		Rules            string   `db:"rules"`
		WarnLimit        int      `db:"warn_limit"`
		AntifloodEnabled bool     `db:"antiflood_enabled"`
		AntifloodCount   int      `db:"antiflood_count"`
		AntifloodSeconds int      `db:"antiflood_seconds"`
		BadWords         WordList `db:"bad_words"`
		SlowmodeSeconds  int      `db:"slowmode_seconds"`
	}

	Warning struct {
		ID        int64     `db:"id"`
		ChatID    int64     `db:"chat_id"`
		UserID    int64     `db:"user_id"`
		IssuerID  int64     `db:"issuer_id"`
		Reason    string    `db:"reason"`
		CreatedAt time.Time `db:"created_at"`
	}

	UserStats struct {
		ChatID        int64     `db:"chat_id"`
		UserID        int64     `db:"user_id"`
		Username      string    `db:"username"`
		FirstName     string    `db:"first_name"`
		MessagesCount int64     `db:"messages_count"`
		FirstSeen     time.Time `db:"first_seen"`
		LastSeen      time.Time `db:"last_seen"`
	}

	// WordList is an ordered banned-word list stored as a JSON array.
	WordList []string
)

// AntifloodWindow returns the sliding window length.
func (s *ChatSettings) AntifloodWindow() time.Duration {
	return time.Duration(s.AntifloodSeconds) * time.Second
}

// Slowmode returns the minimal interval between messages of one member, 0 when off.
func (s *ChatSettings) Slowmode() time.Duration {
	if s.SlowmodeSeconds <= 0 {
		return 0
	}
	return time.Duration(s.SlowmodeSeconds) * time.Second
}

// Contains reports whether word is present, ignoring case.
func (l WordList) Contains(word string) bool {
	word = strings.ToLower(word)
	for _, w := range l {
		if w == word {
			return true
		}
	}
	return false
}

// With returns a copy with word appended lower-cased, unchanged if already listed.
func (l WordList) With(word string) WordList {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" || l.Contains(word) {
		return l
	}
	res := make(WordList, 0, len(l)+1)
	res = append(res, l...)
	return append(res, word)
}

// Without returns a copy with word removed.
func (l WordList) Without(word string) WordList {
	word = strings.ToLower(strings.TrimSpace(word))
	res := make(WordList, 0, len(l))
	for _, w := range l {
		if w != word {
			res = append(res, w)
		}
	}
	return res
}

func (l WordList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *WordList) Scan(v interface{}) error {
	if v == nil {
		*l = WordList{}
		return nil
	}
	var raw []byte
	switch data := v.(type) {
	case string:
		raw = []byte(data)
	case []byte:
		raw = data
	default:
		return fmt.Errorf("cannot scan type %T into WordList", v)
	}
	if len(raw) == 0 {
		*l = WordList{}
		return nil
	}
	return json.Unmarshal(raw, (*[]string)(l))
}
