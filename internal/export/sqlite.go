// Package export replays a date range of the activity log into a SQLite
// database for ad-hoc querying. The export is a one-way derived artifact:
// the CSV log remains the only source of truth and is never modified.
package export

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/argus/internal/domain"
	"github.com/alexanderramin/argus/internal/report"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS export_info (
	export_id   TEXT NOT NULL,
	exported_at TEXT NOT NULL,
	from_date   TEXT NOT NULL,
	to_date     TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS intervals (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	start_time   TEXT NOT NULL,
	end_time     TEXT NOT NULL,
	process_name TEXT NOT NULL,
	window_title TEXT NOT NULL,
	is_locked    INTEGER NOT NULL,
	is_idle      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_intervals_start ON intervals(start_time);
CREATE TABLE IF NOT EXISTS daily_summaries (
	date           TEXT PRIMARY KEY,
	active_seconds  REAL NOT NULL,
	idle_seconds    REAL NOT NULL,
	locked_seconds  REAL NOT NULL
);
`

// Reader yields the raw intervals of one day.
type Reader interface {
	ReadDay(date time.Time) ([]domain.Interval, error)
}

// Exporter writes intervals and per-day summaries into a SQLite file.
type Exporter struct {
	store   Reader
	reports *report.Service
}

// NewExporter creates an exporter over the given store and aggregator.
func NewExporter(store Reader, reports *report.Service) *Exporter {
	return &Exporter{store: store, reports: reports}
}

// Result reports what an export wrote.
type Result struct {
	ExportID  string
	Days      int
	Intervals int
}

// Run exports every day in [from, to] into the database at path, creating
// the schema as needed. Days without a log file contribute nothing.
func (e *Exporter) Run(ctx context.Context, path string, from, to time.Time) (*Result, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("export range ends before it starts")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening export database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("creating export schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting export transaction: %w", err)
	}
	defer tx.Rollback()

	res := &Result{ExportID: uuid.New().String()}

	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		intervals, err := e.store.ReadDay(d)
		if err != nil {
			return nil, err
		}
		if len(intervals) == 0 {
			continue
		}

		for _, iv := range intervals {
			if err := insertInterval(ctx, tx, iv); err != nil {
				return nil, err
			}
		}
		res.Intervals += len(intervals)

		sum, err := e.reports.Day(d)
		if err != nil {
			return nil, err
		}
		if err := insertSummary(ctx, tx, d, sum); err != nil {
			return nil, err
		}
		res.Days++
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO export_info (export_id, exported_at, from_date, to_date) VALUES (?, ?, ?, ?)`,
		res.ExportID,
		time.Now().UTC().Format(time.RFC3339),
		from.Format("2006-01-02"),
		to.Format("2006-01-02"),
	)
	if err != nil {
		return nil, fmt.Errorf("writing export manifest: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing export: %w", err)
	}
	return res, nil
}

func insertInterval(ctx context.Context, tx *sql.Tx, iv domain.Interval) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO intervals (start_time, end_time, process_name, window_title, is_locked, is_idle)
		VALUES (?, ?, ?, ?, ?, ?)`,
		iv.Start.Format(time.RFC3339Nano),
		iv.End.Format(time.RFC3339Nano),
		iv.ProcessName,
		iv.WindowTitle,
		boolToInt(iv.Locked),
		boolToInt(iv.Idle),
	)
	if err != nil {
		return fmt.Errorf("inserting interval: %w", err)
	}
	return nil
}

func insertSummary(ctx context.Context, tx *sql.Tx, date time.Time, sum domain.DaySummary) error {
	_, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO daily_summaries (date, active_seconds, idle_seconds, locked_seconds)
		VALUES (?, ?, ?, ?)`,
		date.Format("2006-01-02"),
		sum.Active.Seconds(),
		sum.Idle.Seconds(),
		sum.Locked.Seconds(),
	)
	if err != nil {
		return fmt.Errorf("inserting daily summary: %w", err)
	}
	return nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
