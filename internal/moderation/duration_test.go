package moderation

import "testing"

func TestParseDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		token   string
		seconds int
		ok      bool
	}{
		{"10m", 600, true},
		{"2h", 7200, true},
		{"45s", 45, true},
		{"1d", 86400, true},
		{"3H", 10800, true},
		{"0m", 0, true},
		{"bogus", 0, false},
		{"", 0, false},
		{"10", 0, false},
		{"m10", 0, false},
		{"10mx", 0, false},
		{"x10m", 0, false},
		{"1w", 0, false},
		{"-5m", 0, false},
		{"25000d", 25000 * 86400, true},
		{"600000h", 600000 * 3600, true},
		{"3000000000s", 3000000000, true},
		{"200000000d", 0, false},
		{"99999999999999999999d", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			t.Parallel()
			seconds, ok := ParseDuration(tt.token)
			if ok != tt.ok || seconds != tt.seconds {
				t.Fatalf("ParseDuration(%q) = %d, %v; want %d, %v", tt.token, seconds, ok, tt.seconds, tt.ok)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tests := map[int]string{
		45:     "45 sec",
		300:    "5 min",
		3599:   "59 min",
		3600:   "1 h",
		7200:   "2 h",
		86400:  "1 d",
		172800: "2 d",
	}
	for seconds, want := range tests {
		if got := FormatDuration(seconds); got != want {
			t.Fatalf("FormatDuration(%d) = %q, want %q", seconds, got, want)
		}
	}
}
