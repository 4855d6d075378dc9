package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// JournalEvent is one line of the run journal.
type JournalEvent struct {
	Event  string `json:"event"`
	Ts     string `json:"ts"`
	Src    string `json:"src,omitempty"`
	Dest   string `json:"dest,omitempty"`
	Kind   string `json:"kind,omitempty"`
	Taken  string `json:"taken,omitempty"`
	Reason string `json:"reason,omitempty"`
	Error  string `json:"error,omitempty"`

	// run_start / run_end fields
	Source      string `json:"source,omitempty"`
	Destination string `json:"destination,omitempty"`
	TotalFiles  int    `json:"total_files,omitempty"`
	Moved       int    `json:"moved,omitempty"`
	Skipped     int    `json:"skipped,omitempty"`
	Failed      int    `json:"failed,omitempty"`
}

// Journal appends JSON lines to a file. A nil *Journal discards everything,
// so callers need not check whether journaling is enabled.
type Journal struct {
	mu sync.Mutex
	f  *os.File
}

// OpenJournal opens path for appending. An empty path yields a nil journal.
func OpenJournal(path string) (*Journal, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	return &Journal{f: f}, nil
}

func (j *Journal) RunStart(source, destination string, totalFiles int) error {
	return j.write(JournalEvent{
		Event:       "run_start",
		Source:      source,
		Destination: destination,
		TotalFiles:  totalFiles,
	})
}

func (j *Journal) Moved(e Entry, dest string) error {
	return j.write(JournalEvent{
		Event: "moved",
		Src:   e.Path,
		Dest:  dest,
		Kind:  e.Kind.String(),
		Taken: e.Taken.Format(time.RFC3339),
	})
}

func (j *Journal) Skipped(e Entry) error {
	return j.write(JournalEvent{
		Event:  "skipped",
		Src:    e.Path,
		Kind:   e.Kind.String(),
		Reason: string(ReasonOf(e.Err)),
		Error:  errString(e.Err),
	})
}

func (j *Journal) Failed(e Entry, moveErr *MoveError) error {
	return j.write(JournalEvent{
		Event:  "failed",
		Src:    e.Path,
		Kind:   e.Kind.String(),
		Reason: string(moveErr.Category),
		Error:  errString(moveErr.OriginalErr),
	})
}

func (j *Journal) RunEnd(s *Stats) error {
	return j.write(JournalEvent{
		Event:   "run_end",
		Moved:   s.Moved,
		Skipped: s.Skipped,
		Failed:  s.Failed,
	})
}

func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	return j.f.Close()
}

func (j *Journal) write(ev JournalEvent) error {
	if j == nil {
		return nil
	}
	ev.Ts = time.Now().UTC().Format(time.RFC3339)

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if _, err := j.f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write to journal: %w", err)
	}
	return j.f.Sync()
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
