package domain

import (
	"sort"
	"time"
)

// ProcessUsage is one entry of the per-process active-time ranking.
type ProcessUsage struct {
	ProcessName string
	Active      time.Duration
}

// DaySummary aggregates one calendar day of the activity log. It is derived
// by replaying the day's log file and is never persisted.
type DaySummary struct {
	Date      time.Time
	Active    time.Duration
	Idle      time.Duration
	Locked    time.Duration
	Processes []ProcessUsage
}

// Total returns the sum of the three buckets.
func (s DaySummary) Total() time.Duration {
	return s.Active + s.Idle + s.Locked
}

// WeekSummary aggregates 7 consecutive days starting at Start. The grand
// totals are the exact full-precision sums of the per-day totals.
type WeekSummary struct {
	Start  time.Time
	Days   []DaySummary
	Active time.Duration
	Idle   time.Duration
	Locked time.Duration
}

// MonthSummary aggregates a calendar month, with a merged per-process
// ranking across all days of the month.
type MonthSummary struct {
	Year      int
	Month     time.Month
	Active    time.Duration
	Idle      time.Duration
	Locked    time.Duration
	Processes []ProcessUsage
}

// SortProcessUsage orders a ranking by descending active duration, breaking
// ties by process name so the order is deterministic.
func SortProcessUsage(usage []ProcessUsage) {
	sort.SliceStable(usage, func(i, j int) bool {
		if usage[i].Active != usage[j].Active {
			return usage[i].Active > usage[j].Active
		}
		return usage[i].ProcessName < usage[j].ProcessName
	})
}
