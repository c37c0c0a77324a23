package export

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/argus/internal/domain"
	"github.com/alexanderramin/argus/internal/logstore"
	"github.com/alexanderramin/argus/internal/report"
	"github.com/alexanderramin/argus/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

func seedStore(t *testing.T) *logstore.Store {
	t.Helper()
	store := testutil.NewTestStore(t)
	testutil.AppendClosed(t, store, day.Add(9*time.Hour), 30*time.Minute, domain.ClassifyActive("editor", "notes"))
	testutil.AppendClosed(t, store, day.Add(9*time.Hour+30*time.Minute), 15*time.Minute, domain.ClassifyIdle())
	testutil.AppendClosed(t, store, day.AddDate(0, 0, 1).Add(10*time.Hour), 20*time.Minute, domain.ClassifyLocked())
	return store
}

func TestRun_ExportsIntervalsAndSummaries(t *testing.T) {
	store := seedStore(t)
	exp := NewExporter(store, report.NewService(store))
	path := filepath.Join(t.TempDir(), "argus.db")

	res, err := exp.Run(context.Background(), path, day, day.AddDate(0, 0, 6))
	require.NoError(t, err)
	assert.NotEmpty(t, res.ExportID)
	assert.Equal(t, 2, res.Days)
	assert.Equal(t, 3, res.Intervals)

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM intervals`).Scan(&count))
	assert.Equal(t, 3, count)

	var active, idle float64
	require.NoError(t, db.QueryRow(
		`SELECT active_seconds, idle_seconds FROM daily_summaries WHERE date = ?`, "2025-06-15",
	).Scan(&active, &idle))
	assert.Equal(t, (30 * time.Minute).Seconds(), active)
	assert.Equal(t, (15 * time.Minute).Seconds(), idle)

	var from, to string
	require.NoError(t, db.QueryRow(`SELECT from_date, to_date FROM export_info`).Scan(&from, &to))
	assert.Equal(t, "2025-06-15", from)
	assert.Equal(t, "2025-06-21", to)
}

func TestRun_EmptyRangeWritesManifestOnly(t *testing.T) {
	store := testutil.NewTestStore(t)
	exp := NewExporter(store, report.NewService(store))
	path := filepath.Join(t.TempDir(), "argus.db")

	res, err := exp.Run(context.Background(), path, day, day)
	require.NoError(t, err)
	assert.Zero(t, res.Days)
	assert.Zero(t, res.Intervals)

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM export_info`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestRun_RejectsInvertedRange(t *testing.T) {
	store := testutil.NewTestStore(t)
	exp := NewExporter(store, report.NewService(store))

	_, err := exp.Run(context.Background(), filepath.Join(t.TempDir(), "x.db"), day, day.AddDate(0, 0, -1))
	assert.Error(t, err)
}
