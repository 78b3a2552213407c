package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// Entry is one line of the JSON log written by the app logger.
type Entry struct {
	Time      string
	Level     string
	Message   string
	Component string
	RequestID string
	Error     string
	Raw       string
}

// Filter selects entries. Zero fields match everything.
type Filter struct {
	RequestID string
	Component string
	// MinLevel keeps entries at this severity or worse, e.g. "warn".
	MinLevel string
}

func (f Filter) empty() bool {
	return f.RequestID == "" && f.Component == "" && f.MinLevel == ""
}

// Read returns at most maxLines matching entries from the end of the file at
// path, oldest first. A non-positive maxLines returns every match. A missing
// file yields no entries.
func Read(path string, maxLines int, f Filter) ([]Entry, error) {
	var minLevel logrus.Level
	if f.MinLevel != "" {
		lvl, err := logrus.ParseLevel(f.MinLevel)
		if err != nil {
			return nil, fmt.Errorf("parse level: %w", err)
		}
		minLevel = lvl
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	var (
		ring  []Entry
		idx   int
		count int
	)
	if maxLines > 0 {
		ring = make([]Entry, maxLines)
	}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		e, ok := parseLine(scanner.Text())
		if !ok && !f.empty() {
			continue
		}
		if ok && !f.matches(e, minLevel) {
			continue
		}
		if maxLines <= 0 {
			ring = append(ring, e)
			count++
			continue
		}
		ring[idx] = e
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	if maxLines <= 0 || count < maxLines {
		return ring[:count], nil
	}
	entries := make([]Entry, count)
	for i := 0; i < count; i++ {
		entries[i] = ring[(idx+i)%maxLines]
	}
	return entries, nil
}

func parseLine(line string) (Entry, bool) {
	if !gjson.Valid(line) {
		return Entry{Message: line, Raw: line}, false
	}
	fields := gjson.GetMany(line, "time", "level", "msg", "component", "request_id", "error")
	return Entry{
		Time:      fields[0].String(),
		Level:     fields[1].String(),
		Message:   fields[2].String(),
		Component: fields[3].String(),
		RequestID: fields[4].String(),
		Error:     fields[5].String(),
		Raw:       line,
	}, true
}

func (f Filter) matches(e Entry, minLevel logrus.Level) bool {
	if f.RequestID != "" && e.RequestID != f.RequestID {
		return false
	}
	if f.Component != "" && e.Component != f.Component {
		return false
	}
	if f.MinLevel != "" {
		lvl, err := logrus.ParseLevel(e.Level)
		if err != nil || lvl > minLevel {
			return false
		}
	}
	return true
}

// Format renders e as a single human readable line.
func Format(e Entry) string {
	if e.Level == "" && e.Time == "" {
		return e.Raw
	}
	var b strings.Builder
	if e.Time != "" {
		b.WriteString(e.Time)
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "%-5s", strings.ToUpper(e.Level))
	if e.Component != "" {
		b.WriteString(" [" + e.Component + "]")
	}
	b.WriteString(" " + e.Message)
	if e.RequestID != "" {
		b.WriteString(" request_id=" + e.RequestID)
	}
	if e.Error != "" {
		b.WriteString(" error=" + e.Error)
	}
	return b.String()
}
