package sink

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/sweeney/gpiotool/internal/logic"
)

var eventBase = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func testEvents() []logic.Event {
	return []logic.Event{
		{Time: eventBase, Pin: 14, Level: 1},
		{Time: eventBase.Add(50 * time.Millisecond), Pin: 14, Level: 0},
		{Time: eventBase.Add(2 * time.Second), Pin: 16, Level: 1},
	}
}

func TestCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.csv")
	s, err := NewCSV(path)
	if err != nil {
		t.Fatal(err)
	}

	events := testEvents()
	for _, e := range events {
		if err := s.WriteEvent(e); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}

	if len(rows) != len(events)+1 {
		t.Fatalf("got %d rows, want %d", len(rows), len(events)+1)
	}
	if rows[0][0] != "timestamp" || rows[0][1] != "pin" || rows[0][2] != "state" {
		t.Errorf("header: got %v", rows[0])
	}
	for i, e := range events {
		row := rows[i+1]
		ts, _ := strconv.ParseInt(row[0], 10, 64)
		pin, _ := strconv.Atoi(row[1])
		state, _ := strconv.Atoi(row[2])
		if ts != e.Time.Unix() || pin != e.Pin || state != e.Level {
			t.Errorf("row %d: got (%d,%d,%d), want (%d,%d,%d)", i, ts, pin, state, e.Time.Unix(), e.Pin, e.Level)
		}
	}
}

func TestCSVHeaderWrittenOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.csv")

	// First session writes the header, a reopened log must not repeat it.
	s, err := NewCSV(path)
	if err != nil {
		t.Fatal(err)
	}
	s.WriteEvent(logic.Event{Time: eventBase, Pin: 14, Level: 1})
	s.Close()

	s, err = NewCSV(path)
	if err != nil {
		t.Fatal(err)
	}
	s.WriteEvent(logic.Event{Time: eventBase.Add(time.Second), Pin: 14, Level: 0})
	s.Close()

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3 (one header, two events)", len(rows))
	}
	if rows[1][0] == "timestamp" || rows[2][0] == "timestamp" {
		t.Error("header repeated on reopen")
	}
}

func TestJSONLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	s, err := NewJSONL(path)
	if err != nil {
		t.Fatal(err)
	}

	events := testEvents()
	for _, e := range events {
		if err := s.WriteEvent(e); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 || data[len(data)-1] != '\n' {
		t.Error("log must be newline-terminated")
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	var got []record
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var r record
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			t.Fatalf("parse line %q: %v", sc.Text(), err)
		}
		got = append(got, r)
	}
	if err := sc.Err(); err != nil {
		t.Fatal(err)
	}

	if len(got) != len(events) {
		t.Fatalf("got %d records, want %d", len(got), len(events))
	}
	for i, e := range events {
		want := recordFor(e)
		if got[i] != want {
			t.Errorf("record %d: got %+v, want %+v", i, got[i], want)
		}
	}
}

func TestRecordSharedAcrossBackends(t *testing.T) {
	// CSV and JSONL must agree on the timestamp for the same event:
	// both go through recordFor, which truncates to Unix seconds.
	e := logic.Event{Time: eventBase.Add(700 * time.Millisecond), Pin: 4, Level: 1}
	r := recordFor(e)
	if r.Timestamp != eventBase.Unix() {
		t.Errorf("timestamp: got %d, want %d", r.Timestamp, eventBase.Unix())
	}
	if r.Pin != 4 || r.State != 1 {
		t.Errorf("record: got %+v", r)
	}

	b, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"timestamp":` + strconv.FormatInt(r.Timestamp, 10) + `,"pin":4,"state":1}`
	if string(b) != want {
		t.Errorf("payload: got %s, want %s", b, want)
	}
}
