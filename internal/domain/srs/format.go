package srs

import (
	"fmt"
	"math"
	"time"
)

// Unit boundaries for interval display. These are the single source of
// truth for every call site that renders an interval, so previews and
// committed schedules never disagree.
const (
	dayDuration    = 24 * time.Hour
	monthThreshold = 30 * dayDuration
	daysPerMonth   = 30.0
)

// FormatInterval renders a scheduling interval for display: sub-day
// intervals in minutes or hours with a "<1m" floor, whole days below the
// month threshold, months above it.
func FormatInterval(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "<1m"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(math.Round(d.Minutes())))
	case d < dayDuration:
		return fmt.Sprintf("%dh", int(math.Round(d.Hours())))
	case d < monthThreshold:
		return fmt.Sprintf("%dd", int(math.Round(d.Hours()/24)))
	default:
		months := int(math.Round(d.Hours() / 24 / daysPerMonth))
		if months < 1 {
			months = 1
		}
		return fmt.Sprintf("%dmo", months)
	}
}
