// Package runlog keeps a JSONL journal of sync runs, one record per line,
// backing the history command.
package runlog

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Record summarizes one completed run.
type Record struct {
	Op         string    `json:"op"` // "import", "export", "notes"
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	DryRun     bool      `json:"dry_run,omitempty"`
	Updated    int       `json:"updated"`
	Added      int       `json:"added"`
	Removed    int       `json:"removed"`
	Snippets   int       `json:"snippets,omitempty"`
	Issues     int       `json:"issues"`
	Error      string    `json:"error,omitempty"`
}

// Log appends run records to a JSONL file.
type Log struct {
	path string
}

// New returns a log at path. The file is created on first append.
func New(path string) *Log {
	return &Log{path: path}
}

// Append writes one record as a JSON line.
func (l *Log) Append(rec Record) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("failed to create run log directory: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open run log %s: %w", l.path, err)
	}
	defer f.Close()

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode run record: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to append run record: %w", err)
	}
	return nil
}

// Recent returns the last n records, oldest first. Lines that do not parse
// (a partial trailing write, say) are skipped. A missing file is an empty
// history.
func (l *Log) Recent(n int) ([]Record, error) {
	f, err := os.Open(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open run log %s: %w", l.path, err)
	}
	defer f.Close()

	var all []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		all = append(all, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read run log %s: %w", l.path, err)
	}

	if n > 0 && len(all) > n {
		all = all[len(all)-n:]
	}
	return all, nil
}
