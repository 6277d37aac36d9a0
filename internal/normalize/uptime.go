package normalize

import (
	"fmt"
	"time"
)

// FormatUptime renders the time elapsed since startedAt, e.g. "2d 3h",
// "1h 1m", "5m" or "42s". It returns nil when startedAt is empty,
// unparseable, the zero time or in the future.
func FormatUptime(startedAt string, now time.Time) *string {
	if startedAt == "" {
		return nil
	}
	started, err := time.Parse(time.RFC3339Nano, startedAt)
	if err != nil || started.IsZero() {
		return nil
	}

	seconds := int64(now.Sub(started) / time.Second)
	if seconds < 0 {
		return nil
	}
	minutes := seconds / 60
	hours := minutes / 60
	days := hours / 24

	var s string
	switch {
	case days > 0:
		s = fmt.Sprintf("%dd %dh", days, hours%24)
	case hours > 0:
		s = fmt.Sprintf("%dh %dm", hours, minutes%60)
	case minutes > 0:
		s = fmt.Sprintf("%dm", minutes)
	default:
		s = fmt.Sprintf("%ds", seconds)
	}
	return &s
}
