package invocation

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Duration formatting constants.
const (
	minutesPerHour = 60
	hoursPerDay    = 24
)

// ErrInvalidTTL is returned for non-positive TTLs and durations.
var ErrInvalidTTL = errors.New("TTL must be positive")

// FormatDuration formats a duration in a human-readable way.
// Examples: "45s", "30m", "5h30m", "2d3h".
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
	if d < hoursPerDay*time.Hour {
		hours := int(d.Hours())
		minutes := int(d.Minutes()) % minutesPerHour
		if minutes == 0 {
			return fmt.Sprintf("%dh", hours)
		}
		return fmt.Sprintf("%dh%dm", hours, minutes)
	}
	days := int(d.Hours()) / hoursPerDay
	hours := int(d.Hours()) % hoursPerDay
	if hours == 0 {
		return fmt.Sprintf("%dd", days)
	}
	return fmt.Sprintf("%dd%dh", days, hours)
}

// ParseAge parses an age given as integer seconds ("3600") or a duration
// string ("1h", "90m", "36h").
func ParseAge(s string) (time.Duration, error) {
	if seconds, err := strconv.Atoi(s); err == nil {
		if seconds <= 0 {
			return 0, fmt.Errorf("%w: got %d", ErrInvalidTTL, seconds)
		}
		return time.Duration(seconds) * time.Second, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: got %s", ErrInvalidTTL, s)
	}
	return d, nil
}
