// Package testutil provides shared fixtures for tests: temp-dir log stores
// and synthetic interval builders.
package testutil

import (
	"testing"
	"time"

	"github.com/alexanderramin/argus/internal/domain"
	"github.com/alexanderramin/argus/internal/logstore"
	"github.com/stretchr/testify/require"
)

// NewTestStore creates a log store rooted in a per-test temp directory.
func NewTestStore(t *testing.T) *logstore.Store {
	t.Helper()
	return logstore.NewStore(t.TempDir())
}

// ClosedInterval builds a closed interval spanning d from start.
func ClosedInterval(start time.Time, d time.Duration, c domain.Classification) domain.Interval {
	iv := domain.OpenInterval(start, c)
	iv.Close(start.Add(d))
	return *iv
}

// AppendClosed appends a closed interval, failing the test on error.
func AppendClosed(t *testing.T, s *logstore.Store, start time.Time, d time.Duration, c domain.Classification) {
	t.Helper()
	require.NoError(t, s.Append(ClosedInterval(start, d, c)))
}

// SeedMorning appends a small, representative morning of activity to the
// given date: 45m active in "editor", 15m idle, 10m locked.
func SeedMorning(t *testing.T, s *logstore.Store, date time.Time) {
	t.Helper()
	at := date.Add(9 * time.Hour)
	AppendClosed(t, s, at, 30*time.Minute, domain.ClassifyActive("editor", "notes"))
	AppendClosed(t, s, at.Add(30*time.Minute), 15*time.Minute, domain.ClassifyIdle())
	AppendClosed(t, s, at.Add(45*time.Minute), 15*time.Minute, domain.ClassifyActive("editor", "notes"))
	AppendClosed(t, s, at.Add(time.Hour), 10*time.Minute, domain.ClassifyLocked())
}
