package internal

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Reason tells why no timestamp could be extracted from a file.
type Reason string

const (
	ReasonUnreadable  Reason = "unreadable"  // file could not be opened
	ReasonUnsupported Reason = "unsupported" // not a decodable image or container
	ReasonNoMetadata  Reason = "no_metadata" // decoded, but the date field is absent
	ReasonMalformed   Reason = "malformed"   // date field present but unparsable
	ReasonToolFailed  Reason = "tool_failed" // external probe missing or crashed
	ReasonUnknown     Reason = "unknown_error"
)

// ExtractError is returned by extractors in place of a timestamp.
type ExtractError struct {
	Path   string
	Reason Reason
	Err    error
}

func (e *ExtractError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Reason, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }

func extractErr(path string, reason Reason, err error) error {
	return &ExtractError{Path: path, Reason: reason, Err: err}
}

// ReasonOf returns the Reason carried by err, or ReasonUnknown.
func ReasonOf(err error) Reason {
	var e *ExtractError
	if errors.As(err, &e) {
		return e.Reason
	}
	return ReasonUnknown
}

// ErrorCategory represents the type of move failure encountered
type ErrorCategory string

const (
	ErrorCategoryIO      ErrorCategory = "io_error"
	ErrorCategoryUnknown ErrorCategory = "unknown_error"
)

// ErrorSeverity indicates how critical the error is
type ErrorSeverity string

const (
	ErrorSeverityCritical ErrorSeverity = "critical" // likely to hit every later move too
	ErrorSeverityError    ErrorSeverity = "error"    // this file only
)

// MoveError is a categorized failure to relocate one file.
type MoveError struct {
	FilePath    string
	Category    ErrorCategory
	Severity    ErrorSeverity
	OriginalErr error
	Suggestion  string
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("[%s/%s] %s: %v", e.Severity, e.Category, e.FilePath, e.OriginalErr)
}

func (e *MoveError) Unwrap() error { return e.OriginalErr }

// CategorizeError analyzes a move error and attaches category, severity and
// a suggestion for the user.
func CategorizeError(filePath string, err error) *MoveError {
	if err == nil {
		return nil
	}

	errStr := strings.ToLower(err.Error())
	moveErr := &MoveError{
		FilePath:    filePath,
		OriginalErr: err,
		Category:    ErrorCategoryIO,
	}

	switch {
	case strings.Contains(errStr, "no space left"):
		moveErr.Severity = ErrorSeverityCritical
		moveErr.Suggestion = "Free up disk space on the destination drive and retry the import"

	case strings.Contains(errStr, "permission denied"):
		moveErr.Severity = ErrorSeverityCritical
		moveErr.Suggestion = "Check file permissions on both source and destination directories"

	case strings.Contains(errStr, "read-only file system"):
		moveErr.Severity = ErrorSeverityCritical
		moveErr.Suggestion = "Destination filesystem is read-only - check mount options"

	case strings.Contains(errStr, "input/output error"):
		moveErr.Severity = ErrorSeverityError
		moveErr.Suggestion = "I/O error - check disk health with SMART tools"

	case strings.Contains(errStr, "no such file"):
		moveErr.Severity = ErrorSeverityError
		moveErr.Suggestion = "Source file disappeared during import - check if external drive disconnected"

	default:
		moveErr.Category = ErrorCategoryUnknown
		moveErr.Severity = ErrorSeverityError
	}

	return moveErr
}

// Stats tracks the outcome of a move pass.
type Stats struct {
	Moved    int
	Skipped  int
	Failed   int
	ByReason map[Reason]int
}

func NewStats() *Stats {
	return &Stats{ByReason: make(map[Reason]int)}
}

func (s *Stats) AddMoved() { s.Moved++ }

func (s *Stats) AddSkipped(err error) {
	s.Skipped++
	s.ByReason[ReasonOf(err)]++
}

func (s *Stats) AddFailed() { s.Failed++ }

// Summary renders a one-line tally, followed by the skip reasons if any.
func (s *Stats) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d moved, %d skipped, %d failed", s.Moved, s.Skipped, s.Failed)

	if len(s.ByReason) > 0 {
		reasons := make([]string, 0, len(s.ByReason))
		for r := range s.ByReason {
			reasons = append(reasons, string(r))
		}
		sort.Strings(reasons)
		parts := make([]string, 0, len(reasons))
		for _, r := range reasons {
			parts = append(parts, fmt.Sprintf("%s: %d", r, s.ByReason[Reason(r)]))
		}
		fmt.Fprintf(&b, " (%s)", strings.Join(parts, ", "))
	}
	return b.String()
}
