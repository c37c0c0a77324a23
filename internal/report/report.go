// Package report reconstructs usage summaries by replaying daily log files.
// Summaries are pure recomputation: the log is the only source of truth, and
// every read is safe while the tracking engine appends to the same file.
package report

import (
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/argus/internal/domain"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Reader is the slice of the log store the aggregator consumes.
type Reader interface {
	ReadDay(date time.Time) ([]domain.Interval, error)
	DaySize(date time.Time) int64
}

// Day summaries are cached keyed by (date, file size); a day file only ever
// grows, so a size match means the parse is still valid. Weekly and monthly
// reports re-read up to 31 files, and the live dashboard re-reads today
// every refresh, so this saves most of the parsing.
const cacheSize = 64

// Service computes daily, weekly, and monthly summaries.
type Service struct {
	store Reader
	cache *lru.Cache[string, domain.DaySummary]
}

// NewService creates an aggregator over the given store.
func NewService(store Reader) *Service {
	cache, err := lru.New[string, domain.DaySummary](cacheSize)
	if err != nil {
		panic(err) // only possible with a non-positive size
	}
	return &Service{store: store, cache: cache}
}

// Day replays one day's log into totals and a ranked per-process breakdown.
// An absent file yields a zero summary.
func (s *Service) Day(date time.Time) (domain.DaySummary, error) {
	key := date.Format("2006-01-02") + "@" + strconv.FormatInt(s.store.DaySize(date), 10)
	if sum, ok := s.cache.Get(key); ok {
		return sum, nil
	}

	intervals, err := s.store.ReadDay(date)
	if err != nil {
		return domain.DaySummary{}, err
	}
	sum := summarizeDay(date, intervals)
	s.cache.Add(key, sum)
	return sum, nil
}

// Week summarizes the 7 consecutive days starting at start. Grand totals are
// exact full-precision sums of the per-day totals, independent of how the
// display later rounds them.
func (s *Service) Week(start time.Time) (domain.WeekSummary, error) {
	week := domain.WeekSummary{Start: start, Days: make([]domain.DaySummary, 0, 7)}
	for i := 0; i < 7; i++ {
		day, err := s.Day(start.AddDate(0, 0, i))
		if err != nil {
			return domain.WeekSummary{}, err
		}
		week.Days = append(week.Days, day)
		week.Active += day.Active
		week.Idle += day.Idle
		week.Locked += day.Locked
	}
	return week, nil
}

// Month summarizes a calendar month with a merged per-process ranking.
func (s *Service) Month(year int, month time.Month, loc *time.Location) (domain.MonthSummary, error) {
	if loc == nil {
		loc = time.Local
	}
	sum := domain.MonthSummary{Year: year, Month: month}
	merged := newProcessTally()

	for d := time.Date(year, month, 1, 0, 0, 0, 0, loc); d.Month() == month; d = d.AddDate(0, 0, 1) {
		day, err := s.Day(d)
		if err != nil {
			return domain.MonthSummary{}, err
		}
		sum.Active += day.Active
		sum.Idle += day.Idle
		sum.Locked += day.Locked
		for _, p := range day.Processes {
			merged.add(p.ProcessName, p.Active)
		}
	}

	sum.Processes = merged.ranked()
	return sum, nil
}

// StartOfWeek returns midnight of the most recent occurrence of weekday at
// or before t.
func StartOfWeek(t time.Time, weekday time.Weekday) time.Time {
	diff := (int(t.Weekday()) - int(weekday) + 7) % 7
	y, m, d := t.AddDate(0, 0, -diff).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// summarizeDay partitions closed intervals into the three buckets and builds
// the per-process active ranking. Rows with an empty process name count
// toward the active total but not the ranking.
func summarizeDay(date time.Time, intervals []domain.Interval) domain.DaySummary {
	sum := domain.DaySummary{Date: date}
	tally := newProcessTally()

	for _, iv := range intervals {
		d := iv.Duration()
		switch {
		case iv.Locked:
			sum.Locked += d
		case iv.Idle:
			sum.Idle += d
		default:
			sum.Active += d
			if iv.ProcessName != "" {
				tally.add(iv.ProcessName, d)
			}
		}
	}

	sum.Processes = tally.ranked()
	return sum
}

// processTally accumulates active time per process. Keys compare
// case-insensitively; the first-seen casing is what reports display.
type processTally struct {
	byKey map[string]*domain.ProcessUsage
}

func newProcessTally() *processTally {
	return &processTally{byKey: make(map[string]*domain.ProcessUsage)}
}

func (t *processTally) add(name string, d time.Duration) {
	key := strings.ToLower(name)
	entry, ok := t.byKey[key]
	if !ok {
		entry = &domain.ProcessUsage{ProcessName: name}
		t.byKey[key] = entry
	}
	entry.Active += d
}

func (t *processTally) ranked() []domain.ProcessUsage {
	usage := make([]domain.ProcessUsage, 0, len(t.byKey))
	for _, entry := range t.byKey {
		usage = append(usage, *entry)
	}
	domain.SortProcessUsage(usage)
	return usage
}
