package sink

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sweeney/gpiotool/internal/logic"
)

// JSONL appends events as line-delimited JSON, one compact object per line.
type JSONL struct {
	f *os.File
}

// NewJSONL opens (or creates) the file for appending.
func NewJSONL(path string) (*JSONL, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open jsonl log: %w", err)
	}
	return &JSONL{f: f}, nil
}

// WriteEvent appends one newline-terminated JSON object. The write goes
// straight to the file descriptor, so nothing is buffered in-process.
func (s *JSONL) WriteEvent(e logic.Event) error {
	b, err := json.Marshal(recordFor(e))
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	b = append(b, '\n')
	if _, err := s.f.Write(b); err != nil {
		return fmt.Errorf("write jsonl record: %w", err)
	}
	return nil
}

// Close closes the file.
func (s *JSONL) Close() error {
	return s.f.Close()
}
