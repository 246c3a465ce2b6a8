package moderation

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	durationPattern = regexp.MustCompile(`^(\d+)([smhd])$`)
	unitSeconds     = map[string]int{"s": 1, "m": 60, "h": 3600, "d": 86400}
)

// ParseDuration converts tokens like "30s", "5m", "2h" or "1d" to seconds.
// The whole token must match; ok is false otherwise and the caller picks a default.
func ParseDuration(token string) (seconds int, ok bool) {
	m := durationPattern.FindStringSubmatch(strings.ToLower(token))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	mult := unitSeconds[m[2]]
	if int64(n) > math.MaxInt64/int64(time.Second)/int64(mult) {
		return 0, false
	}
	return n * mult, true
}

// FormatDuration renders seconds in the largest unit that fits, rounding down.
func FormatDuration(seconds int) string {
	switch {
	case seconds < 60:
		return strconv.Itoa(seconds) + " sec"
	case seconds < 3600:
		return strconv.Itoa(seconds/60) + " min"
	case seconds < 86400:
		return strconv.Itoa(seconds/3600) + " h"
	default:
		return strconv.Itoa(seconds/86400) + " d"
	}
}
