// Package logstore persists closed activity intervals as append-only per-day
// CSV files. The file format is the tracker's durability contract: one file
// per calendar date, a fixed six-column header, one closed interval per line.
// Readers open files independently of the writer and tolerate a torn final
// line.
package logstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/argus/internal/domain"
)

// Header is the fixed column row written at the top of every day file. It
// doubles as the format's version marker: a column change requires renaming
// the first column so old readers keep working.
const Header = "StartTime,EndTime,ProcessName,WindowTitle,IsLocked,IsIdle"

const (
	filePrefix = "activity-log-"
	fileSuffix = ".csv"
	dateLayout = "2006-01-02"
)

// Store appends intervals to per-day log files under a single directory.
// The tracking engine is the only writer; aggregation reads the same files
// concurrently without coordination.
type Store struct {
	dir string
	now func() time.Time
}

// NewStore creates a store rooted at dir. The directory is created on the
// first append.
func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// Dir returns the log directory.
func (s *Store) Dir() string {
	return s.dir
}

// FileForDate returns the path of the log file holding intervals whose start
// falls on the given calendar date.
func (s *Store) FileForDate(date time.Time) string {
	return filepath.Join(s.dir, filePrefix+date.Format(dateLayout)+fileSuffix)
}

// DaySize returns the byte size of a day's log file, or 0 when the file does
// not exist. Appends only ever grow it, so (date, size) identifies a parse
// state.
func (s *Store) DaySize(date time.Time) int64 {
	st, err := os.Stat(s.FileForDate(date))
	if err != nil {
		return 0
	}
	return st.Size()
}

// Append writes one interval to the day file for its start date, creating
// the directory and file (with header) as needed. Intervals with a zero
// start are ignored. An open interval's end is substituted with the current
// time rather than a sentinel, so every persisted row is closed.
func (s *Store) Append(iv domain.Interval) error {
	if iv.Start.IsZero() {
		return nil
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	path := s.FileForDate(iv.Start)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return fmt.Errorf("inspecting log file: %w", err)
	}

	end := iv.End
	if end.IsZero() {
		end = s.now()
	}

	var b strings.Builder
	if st.Size() == 0 {
		b.WriteString(Header)
		b.WriteString("\n")
	}
	b.WriteString(iv.Start.Format(time.RFC3339Nano))
	b.WriteString(",")
	b.WriteString(end.Format(time.RFC3339Nano))
	b.WriteString(",")
	b.WriteString(escapeField(iv.ProcessName))
	b.WriteString(",")
	b.WriteString(escapeField(iv.WindowTitle))
	b.WriteString(",")
	b.WriteString(formatBool(iv.Locked))
	b.WriteString(",")
	b.WriteString(formatBool(iv.Idle))
	b.WriteString("\n")

	// One write per row keeps concurrent readers from observing a row split
	// across appends.
	if _, err := f.WriteString(b.String()); err != nil {
		return fmt.Errorf("appending interval: %w", err)
	}
	return nil
}

func formatBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}
