package report

import (
	"os"
	"testing"
	"time"

	"github.com/alexanderramin/argus/internal/domain"
	"github.com/alexanderramin/argus/internal/logstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

func appendInterval(t *testing.T, s *logstore.Store, start time.Time, d time.Duration, c domain.Classification) {
	t.Helper()
	iv := domain.OpenInterval(start, c)
	iv.Close(start.Add(d))
	require.NoError(t, s.Append(*iv))
}

// appendTruncated leaves a torn, newline-less row at the end of the day
// file, as a reader racing the writer would see it.
func appendTruncated(t *testing.T, s *logstore.Store, date time.Time) {
	t.Helper()
	f, err := os.OpenFile(s.FileForDate(date), os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	defer f.Close()
	_, err = f.WriteString("2025-06-15T11:00:00Z,2025-06-15T11:0")
	require.NoError(t, err)
}

func TestDay_AbsentFile(t *testing.T) {
	svc := NewService(logstore.NewStore(t.TempDir()))

	sum, err := svc.Day(day)
	require.NoError(t, err)
	assert.Zero(t, sum.Active)
	assert.Zero(t, sum.Idle)
	assert.Zero(t, sum.Locked)
	assert.Empty(t, sum.Processes)
}

func TestDay_PartitionsAndRanks(t *testing.T) {
	store := logstore.NewStore(t.TempDir())
	svc := NewService(store)

	at := func(h, m int) time.Time { return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }
	appendInterval(t, store, at(9, 0), 30*time.Minute, domain.ClassifyActive("editor", "notes"))
	appendInterval(t, store, at(9, 30), 15*time.Minute, domain.ClassifyIdle())
	appendInterval(t, store, at(9, 45), 15*time.Minute, domain.ClassifyActive("editor", "other"))

	sum, err := svc.Day(day)
	require.NoError(t, err)
	assert.Equal(t, 45*time.Minute, sum.Active)
	assert.Equal(t, 15*time.Minute, sum.Idle)
	assert.Zero(t, sum.Locked)
	require.Len(t, sum.Processes, 1)
	assert.Equal(t, "editor", sum.Processes[0].ProcessName)
	assert.Equal(t, 45*time.Minute, sum.Processes[0].Active)
}

func TestDay_Idempotent(t *testing.T) {
	store := logstore.NewStore(t.TempDir())
	svc := NewService(store)
	appendInterval(t, store, day.Add(9*time.Hour), 10*time.Minute, domain.ClassifyActive("editor", ""))

	first, err := svc.Day(day)
	require.NoError(t, err)
	second, err := svc.Day(day)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDay_LockedBucket(t *testing.T) {
	store := logstore.NewStore(t.TempDir())
	svc := NewService(store)
	appendInterval(t, store, day.Add(12*time.Hour), 20*time.Minute, domain.ClassifyLocked())

	sum, err := svc.Day(day)
	require.NoError(t, err)
	assert.Equal(t, 20*time.Minute, sum.Locked)
	assert.Empty(t, sum.Processes, "locked time never enters the process ranking")
}

func TestDay_EmptyProcessCountsActiveButUnranked(t *testing.T) {
	store := logstore.NewStore(t.TempDir())
	svc := NewService(store)
	appendInterval(t, store, day.Add(9*time.Hour), 5*time.Minute, domain.ClassifyActive("", ""))

	sum, err := svc.Day(day)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, sum.Active)
	assert.Empty(t, sum.Processes)
}

func TestDay_ProcessKeysCaseInsensitive(t *testing.T) {
	store := logstore.NewStore(t.TempDir())
	svc := NewService(store)
	appendInterval(t, store, day.Add(9*time.Hour), 10*time.Minute, domain.ClassifyActive("Editor", ""))
	appendInterval(t, store, day.Add(10*time.Hour), 5*time.Minute, domain.ClassifyActive("editor", ""))

	sum, err := svc.Day(day)
	require.NoError(t, err)
	require.Len(t, sum.Processes, 1)
	assert.Equal(t, "Editor", sum.Processes[0].ProcessName, "first-seen casing wins")
	assert.Equal(t, 15*time.Minute, sum.Processes[0].Active)
}

func TestDay_SurvivesTornTrailingLine(t *testing.T) {
	store := logstore.NewStore(t.TempDir())
	svc := NewService(store)
	appendInterval(t, store, day.Add(9*time.Hour), 30*time.Minute, domain.ClassifyActive("editor", ""))

	// Simulate an append caught mid-write.
	appendTruncated(t, store, day)

	sum, err := svc.Day(day)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, sum.Active)
}

func TestWeek_GrandTotalsAreExactSums(t *testing.T) {
	store := logstore.NewStore(t.TempDir())
	svc := NewService(store)

	// Odd sub-minute durations: totals must sum at full precision, not from
	// any rounded display form.
	for i := 0; i < 7; i++ {
		d := day.AddDate(0, 0, i)
		appendInterval(t, store, d.Add(9*time.Hour), 7*time.Minute+13*time.Second, domain.ClassifyActive("editor", ""))
		appendInterval(t, store, d.Add(10*time.Hour), 90*time.Second, domain.ClassifyIdle())
	}

	week, err := svc.Week(day)
	require.NoError(t, err)
	require.Len(t, week.Days, 7)

	var active, idle, locked time.Duration
	for _, d := range week.Days {
		active += d.Active
		idle += d.Idle
		locked += d.Locked
	}
	assert.Equal(t, active, week.Active)
	assert.Equal(t, idle, week.Idle)
	assert.Equal(t, locked, week.Locked)
	assert.Equal(t, 7*(7*time.Minute+13*time.Second), week.Active)
	assert.Equal(t, 7*90*time.Second, week.Idle)
}

func TestMonth_MergesProcessRanking(t *testing.T) {
	store := logstore.NewStore(t.TempDir())
	svc := NewService(store)

	d1 := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 6, 20, 9, 0, 0, 0, time.UTC)
	appendInterval(t, store, d1, 30*time.Minute, domain.ClassifyActive("editor", ""))
	appendInterval(t, store, d2, 45*time.Minute, domain.ClassifyActive("editor", ""))
	appendInterval(t, store, d2.Add(time.Hour), 10*time.Minute, domain.ClassifyActive("browser", ""))

	sum, err := svc.Month(2025, time.June, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 85*time.Minute, sum.Active)
	require.Len(t, sum.Processes, 2)
	assert.Equal(t, "editor", sum.Processes[0].ProcessName)
	assert.Equal(t, 75*time.Minute, sum.Processes[0].Active)
}

type countingReader struct {
	inner Reader
	reads int
}

func (r *countingReader) ReadDay(date time.Time) ([]domain.Interval, error) {
	r.reads++
	return r.inner.ReadDay(date)
}

func (r *countingReader) DaySize(date time.Time) int64 {
	return r.inner.DaySize(date)
}

func TestDay_CachesUntilFileGrows(t *testing.T) {
	store := logstore.NewStore(t.TempDir())
	counting := &countingReader{inner: store}
	svc := NewService(counting)
	appendInterval(t, store, day.Add(9*time.Hour), 10*time.Minute, domain.ClassifyActive("editor", ""))

	_, err := svc.Day(day)
	require.NoError(t, err)
	_, err = svc.Day(day)
	require.NoError(t, err)
	assert.Equal(t, 1, counting.reads, "unchanged file must be served from cache")

	appendInterval(t, store, day.Add(10*time.Hour), 5*time.Minute, domain.ClassifyActive("editor", ""))
	sum, err := svc.Day(day)
	require.NoError(t, err)
	assert.Equal(t, 2, counting.reads, "grown file must be re-read")
	assert.Equal(t, 15*time.Minute, sum.Active)
}

func TestStartOfWeek(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"sunday rolls back to monday", time.Date(2025, 6, 15, 13, 30, 0, 0, time.UTC), time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)},
		{"monday stays", time.Date(2025, 6, 9, 8, 0, 0, 0, time.UTC), time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)},
		{"wednesday rolls back", time.Date(2025, 6, 11, 23, 59, 0, 0, time.UTC), time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StartOfWeek(tc.in, time.Monday))
		})
	}
}
