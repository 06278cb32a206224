package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/sweeney/gpiotool/internal/logic"
)

// csvHeader is written once when the file is new or empty.
var csvHeader = []string{"timestamp", "pin", "state"}

// CSV appends events to a CSV file, one row per event.
type CSV struct {
	f *os.File
	w *csv.Writer
}

// NewCSV opens (or creates) the file for appending and writes the header row
// if the file is empty.
func NewCSV(path string) (*CSV, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open csv log: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat csv log: %w", err)
	}

	s := &CSV{f: f, w: csv.NewWriter(f)}
	if st.Size() == 0 {
		if err := s.w.Write(csvHeader); err != nil {
			f.Close()
			return nil, fmt.Errorf("write csv header: %w", err)
		}
		s.w.Flush()
		if err := s.w.Error(); err != nil {
			f.Close()
			return nil, fmt.Errorf("write csv header: %w", err)
		}
	}
	return s, nil
}

// WriteEvent appends one row and flushes it to the file.
func (s *CSV) WriteEvent(e logic.Event) error {
	r := recordFor(e)
	row := []string{
		strconv.FormatInt(r.Timestamp, 10),
		strconv.Itoa(r.Pin),
		strconv.Itoa(r.State),
	}
	if err := s.w.Write(row); err != nil {
		return fmt.Errorf("write csv row: %w", err)
	}
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		return fmt.Errorf("flush csv row: %w", err)
	}
	return nil
}

// Close flushes and closes the file.
func (s *CSV) Close() error {
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}
