package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatUptime(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	ago := func(d time.Duration) string { return now.Add(-d).Format(time.RFC3339Nano) }

	tests := []struct {
		name      string
		startedAt string
		want      string
	}{
		{"seconds", ago(42 * time.Second), "42s"},
		{"zero elapsed", ago(0), "0s"},
		{"minutes only", ago(90 * time.Second), "1m"},
		{"hours and minutes", ago(3661 * time.Second), "1h 1m"},
		{"days and hours", ago(49*time.Hour + 30*time.Minute), "2d 1h"},
		{"fractional seconds from docker", "2025-03-10T11:59:00.123456789Z", "59s"},
		{"non utc offset", "2025-03-10T13:00:00+02:00", "1h 0m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatUptime(tt.startedAt, now)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestFormatUptime_Nil(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		startedAt string
	}{
		{"missing", ""},
		{"garbage", "yesterday"},
		{"never started", "0001-01-01T00:00:00Z"},
		{"in the future", now.Add(time.Minute).Format(time.RFC3339)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, FormatUptime(tt.startedAt, now))
		})
	}
}
