package logstore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/argus/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

func closedInterval(start time.Time, d time.Duration, c domain.Classification) domain.Interval {
	iv := domain.OpenInterval(start, c)
	iv.Close(start.Add(d))
	return *iv
}

func TestAppend_CreatesFileWithHeaderOnce(t *testing.T) {
	s := NewStore(t.TempDir())

	iv := closedInterval(day.Add(9*time.Hour), 30*time.Minute, domain.ClassifyActive("editor", "notes.txt"))
	require.NoError(t, s.Append(iv))
	require.NoError(t, s.Append(iv))

	data, err := os.ReadFile(s.FileForDate(day))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, Header, lines[0])
	assert.Equal(t, 1, strings.Count(string(data), "StartTime"), "header must be written only once")
}

func TestAppend_ZeroStartIsNoOp(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "logs"))

	require.NoError(t, s.Append(domain.Interval{ProcessName: "editor"}))

	_, err := os.Stat(filepath.Join(dir, "logs"))
	assert.True(t, os.IsNotExist(err), "no directory should be created for a malformed interval")
}

func TestAppend_FileNamedByStartDate(t *testing.T) {
	s := NewStore(t.TempDir())

	iv := closedInterval(day.Add(23*time.Hour+59*time.Minute), 2*time.Minute, domain.ClassifyIdle())
	require.NoError(t, s.Append(iv))

	assert.FileExists(t, filepath.Join(s.Dir(), "activity-log-2025-06-15.csv"))
}

func TestAppend_OpenIntervalEndSubstitutedWithNow(t *testing.T) {
	s := NewStore(t.TempDir())
	now := day.Add(10*time.Hour + 5*time.Minute)
	s.now = func() time.Time { return now }

	iv := domain.OpenInterval(day.Add(10*time.Hour), domain.ClassifyActive("browser", ""))
	require.NoError(t, s.Append(*iv))

	got, err := s.ReadDay(day)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].End.Equal(now))
	assert.Equal(t, 5*time.Minute, got[0].Duration())
}

func TestAppend_RoundTripsEscapedFields(t *testing.T) {
	s := NewStore(t.TempDir())

	title := `Report "Q2, final" — draft`
	iv := closedInterval(day.Add(9*time.Hour), time.Minute, domain.ClassifyActive("editor", title))
	require.NoError(t, s.Append(iv))

	got, err := s.ReadDay(day)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, title, got[0].WindowTitle)
	assert.Equal(t, "editor", got[0].ProcessName)
}

func TestAppend_WritesLiteralBooleans(t *testing.T) {
	s := NewStore(t.TempDir())

	require.NoError(t, s.Append(closedInterval(day, time.Minute, domain.ClassifyLocked())))

	data, err := os.ReadFile(s.FileForDate(day))
	require.NoError(t, err)
	assert.Contains(t, string(data), ",True,False\n")
}

func TestAppend_SubSecondPrecisionRoundTrips(t *testing.T) {
	s := NewStore(t.TempDir())

	start := day.Add(9*time.Hour + 123456789*time.Nanosecond)
	iv := closedInterval(start, 750*time.Millisecond, domain.ClassifyActive("terminal", "zsh"))
	require.NoError(t, s.Append(iv))

	got, err := s.ReadDay(day)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Start.Equal(start))
	assert.Equal(t, 750*time.Millisecond, got[0].Duration())
}

func TestDaySize(t *testing.T) {
	s := NewStore(t.TempDir())
	assert.Zero(t, s.DaySize(day))

	require.NoError(t, s.Append(closedInterval(day, time.Minute, domain.ClassifyIdle())))
	assert.Positive(t, s.DaySize(day))
}
