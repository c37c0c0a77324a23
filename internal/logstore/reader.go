package logstore

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/argus/internal/domain"
)

// ReadDay replays one day's log file into closed intervals, in file order.
// A missing file yields no intervals and no error. Blank lines, the header,
// and malformed rows (including a torn final line still being written) are
// skipped; a malformed row never aborts the read.
func (s *Store) ReadDay(date time.Time) ([]domain.Interval, error) {
	f, err := os.Open(s.FileForDate(date))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	var intervals []domain.Interval
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if iv, ok := parseRow(sc.Text()); ok {
			intervals = append(intervals, iv)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading log file: %w", err)
	}
	return intervals, nil
}

// parseRow parses one data line. ok is false for anything that is not a
// complete well-formed row with end >= start.
func parseRow(line string) (domain.Interval, bool) {
	if strings.TrimSpace(line) == "" {
		return domain.Interval{}, false
	}
	if isHeader(line) {
		return domain.Interval{}, false
	}

	fields := splitLine(line)
	if len(fields) < 6 {
		return domain.Interval{}, false
	}

	start, err := time.Parse(time.RFC3339Nano, fields[0])
	if err != nil {
		return domain.Interval{}, false
	}
	end, err := time.Parse(time.RFC3339Nano, fields[1])
	if err != nil {
		return domain.Interval{}, false
	}
	locked, err := strconv.ParseBool(fields[4])
	if err != nil {
		return domain.Interval{}, false
	}
	idle, err := strconv.ParseBool(fields[5])
	if err != nil {
		return domain.Interval{}, false
	}
	if end.Before(start) {
		return domain.Interval{}, false
	}

	return domain.Interval{
		Start:       start,
		End:         end,
		ProcessName: fields[2],
		WindowTitle: fields[3],
		Locked:      locked,
		Idle:        idle,
	}, true
}

// isHeader detects the header row by its literal first column name,
// case-insensitively, matching files written by earlier versions.
func isHeader(line string) bool {
	const col = "StartTime"
	return len(line) >= len(col) && strings.EqualFold(line[:len(col)], col)
}
