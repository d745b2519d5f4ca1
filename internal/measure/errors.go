package measure

import (
	"fmt"
	"strings"
)

// ErrorKind classifies measurement failures. Every kind is fatal for
// the whole session: a single broken reading invalidates the
// comparability of the batch, so nothing is retried or skipped.
type ErrorKind int

const (
	// LaunchFailed means the helper process itself could not start.
	LaunchFailed ErrorKind = iota + 1
	// NonZeroExit means the helper signaled failure.
	NonZeroExit
	// MissingResultFile means the helper exited zero but never wrote
	// the result file. A helper that forgets its output is not trusted.
	MissingResultFile
	// MalformedResult means the result file could not be parsed or
	// lacked a valid peak_mb field.
	MalformedResult
	// Timeout means the helper and its child were killed after the
	// configured measurement deadline.
	Timeout
)

func (k ErrorKind) String() string {
	switch k {
	case LaunchFailed:
		return "helper launch failed"
	case NonZeroExit:
		return "helper exited non-zero"
	case MissingResultFile:
		return "missing result file"
	case MalformedResult:
		return "malformed result"
	case Timeout:
		return "measurement timed out"
	}
	return "unknown measurement error"
}

// Error is a measurement failure for one (target, depth) request.
type Error struct {
	Kind     ErrorKind
	Language string
	Depth    int
	Output   string
	Err      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("measuring %s at depth %d: %s", e.Language, e.Depth, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += "\n" + out
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}
