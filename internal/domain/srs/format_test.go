package srs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatInterval(t *testing.T) {
	t.Parallel() // Enable parallel execution

	testCases := []struct {
		name     string
		interval time.Duration
		want     string
	}{
		{"zero duration", 0, "<1m"},
		{"thirty seconds", 30 * time.Second, "<1m"},
		{"one minute", time.Minute, "1m"},
		{"ten minutes", 10 * time.Minute, "10m"},
		{"just under an hour", 59*time.Minute + 30*time.Second, "60m"},
		{"one hour", time.Hour, "1h"},
		{"twelve hours", 12 * time.Hour, "12h"},
		{"one day", 24 * time.Hour, "1d"},
		{"twenty nine days", 29 * 24 * time.Hour, "29d"},
		{"thirty days rolls to months", 30 * 24 * time.Hour, "1mo"},
		{"forty five days", 45 * 24 * time.Hour, "2mo"},
		{"one year", 365 * 24 * time.Hour, "12mo"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, FormatInterval(tc.interval))
		})
	}
}
