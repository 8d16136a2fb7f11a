package iteration

import (
	"errors"
	"fmt"
	"strings"

	"github.com/umputun/invflow/app/enums"
)

// error classes, always returned wrapped in *Error. Use errors.Is to check for them.
var (
	ErrConfiguration      = errors.New("malformed or missing iteration record")
	ErrNotFound           = errors.New("not found")
	ErrAlreadySubmitted   = errors.New("job already submitted")
	ErrNotReady           = errors.New("job not complete")
	ErrMissingOutput      = errors.New("job reported complete but has no output")
	ErrBackendUnavailable = errors.New("compute backend unavailable")
	ErrInvalidState       = errors.New("invalid state")
)

// Error describes a failed operation on an iteration, event and job kind.
// Event and Kind are empty for iteration-wide operations.
type Error struct {
	Op        string // operation, e.g. "submit" or "load"
	Iteration string
	Event     string
	Kind      enums.JobKind
	Err       error
}

// Errorf makes *Error wrapping class with a formatted detail message
func Errorf(op, iter, event string, kind enums.JobKind, class error, format string, args ...any) error {
	return &Error{Op: op, Iteration: iter, Event: event, Kind: kind,
		Err: fmt.Errorf("%w: %s", class, fmt.Sprintf(format, args...))}
}

// Wrap makes *Error for err. Returns nil for nil err
func Wrap(op, iter, event string, kind enums.JobKind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Iteration: iter, Event: event, Kind: kind, Err: err}
}

func (e *Error) Error() string {
	scope := []string{e.Iteration}
	if e.Event != "" {
		scope = append(scope, e.Event)
	}
	if e.Kind != enums.JobKindUnknown {
		scope = append(scope, e.Kind.String())
	}
	return fmt.Sprintf("%s %s: %v", e.Op, strings.Join(scope, "/"), e.Err)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error { return e.Err }
