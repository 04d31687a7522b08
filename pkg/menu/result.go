package menu

import (
	"errors"
	"fmt"
	"strings"
)

// Status classifies an extraction outcome.
type Status string

const (
	StatusFound       Status = "found"
	StatusNotFound    Status = "not_found"
	StatusUnknownType Status = "unknown_type"
	StatusError       Status = "error"
)

// Errors matching the non-found statuses, for callers using errors.Is.
var (
	ErrNotFound    = errors.New("menu not found")
	ErrUnknownType = errors.New("menu type unknown")
	ErrUpstream    = errors.New("upstream failure")
	ErrNoDocument  = errors.New("no document")
)

// Placeholders shown in place of a menu.
const (
	PlaceholderNotFound    = "Menu not found"
	PlaceholderUnknownType = "Menu type unknown"
	PlaceholderError       = "Menu not available"
)

// Bullet prefixes each line in Bullets.
const Bullet = "• "

// Result is the outcome of one extraction: either a non-empty list of menu
// lines (StatusFound) or one of the sentinel statuses, never both.
type Result struct {
	Status  Status   `json:"status" yaml:"status"`
	Lines   []string `json:"lines,omitempty" yaml:"lines,omitempty"`
	Message string   `json:"message,omitempty" yaml:"message,omitempty"`
}

// Found returns a result carrying lines. An empty list is NotFound.
func Found(lines []string) Result {
	if len(lines) == 0 {
		return NotFound()
	}
	return Result{Status: StatusFound, Lines: lines}
}

// NotFound returns the result for a page without the target day.
func NotFound() Result {
	return Result{Status: StatusNotFound}
}

// UnknownType returns the result for a descriptor whose declared type has no strategy.
func UnknownType(declared string) Result {
	return Result{Status: StatusUnknownType, Message: fmt.Sprintf("no strategy for type %q", declared)}
}

// Failed returns the result for an upstream fetch or parse failure.
func Failed(err error) Result {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return Result{Status: StatusError, Message: msg}
}

// OK reports whether the result carries menu lines.
func (r Result) OK() bool {
	return r.Status == StatusFound
}

// Err maps the status onto an error; nil for a found menu.
func (r Result) Err() error {
	switch r.Status {
	case StatusFound:
		return nil
	case StatusNotFound:
		return ErrNotFound
	case StatusUnknownType:
		return fmt.Errorf("%w: %s", ErrUnknownType, r.Message)
	default:
		return fmt.Errorf("%w: %s", ErrUpstream, r.Message)
	}
}

// Placeholder returns the text shown instead of a menu, or "" when found.
func (r Result) Placeholder() string {
	switch r.Status {
	case StatusFound:
		return ""
	case StatusNotFound:
		return PlaceholderNotFound
	case StatusUnknownType:
		return PlaceholderUnknownType
	default:
		if r.Message == "" {
			return PlaceholderError
		}
		return fmt.Sprintf("%s (%s)", PlaceholderError, r.Message)
	}
}

// Bullets renders the lines as a bullet list, or the placeholder.
func (r Result) Bullets() string {
	if !r.OK() {
		return r.Placeholder()
	}
	return Bullet + strings.Join(r.Lines, "\n"+Bullet)
}
