package formatter

import (
	"fmt"
	"time"
)

// ClockDuration formats a duration as hh:mm, truncating seconds. Hours keep
// growing past 24 so weekly and monthly totals stay readable.
func ClockDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}

// HumanDuration formats a duration as "N hours M minutes" prose.
func HumanDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60

	hourUnit := "hours"
	if hours == 1 {
		hourUnit = "hour"
	}
	minuteUnit := "minutes"
	if minutes == 1 {
		minuteUnit = "minute"
	}
	return fmt.Sprintf("%d %s %d %s", hours, hourUnit, minutes, minuteUnit)
}

// HumanDate returns a human-friendly absolute date string.
func HumanDate(t time.Time) string {
	now := time.Now()
	y1, m1, d1 := now.Date()
	y2, m2, d2 := t.Date()
	if y1 == y2 && m1 == m2 && d1 == d2 {
		return "Today"
	}
	yesterday := now.AddDate(0, 0, -1)
	y3, m3, d3 := yesterday.Date()
	if y2 == y3 && m2 == m3 && d2 == d3 {
		return "Yesterday"
	}
	return t.Format("Mon, Jan 2 2006")
}

// Truncate shortens s to max visible characters with an ellipsis.
func Truncate(s string, max int) string {
	if max <= 3 || len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
