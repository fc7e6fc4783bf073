package libtest

import (
	"errors"
	"fmt"
)

// Lifecycle violations. Each is returned wrapped in a *ProtocolError.
var (
	ErrSuiteAlreadyOpen  = errors.New("suite started while another suite is open")
	ErrNoOpenSuite       = errors.New("event found outside of suite")
	ErrTestsInFlight     = errors.New("tests still in flight")
	ErrDuplicateTest     = errors.New("test started twice")
	ErrUnknownTest       = errors.New("test was never started")
	ErrUnterminatedSuite = errors.New("stream ended inside an open suite")
)

// DecodeError reports a candidate line that matches no known event shape,
// even after the backslash retry.
type DecodeError struct {
	LineNo int
	Line   string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("parsing line %d %q: %v", e.LineNo, e.Line, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ProtocolError reports an event that the suite/test lifecycle does not
// permit in the current state.
type ProtocolError struct {
	LineNo int
	Event  string
	Test   string
	Err    error
}

func (e *ProtocolError) Error() string {
	switch {
	case e.Event == "":
		return fmt.Sprintf("line %d: %v", e.LineNo, e.Err)
	case e.Test == "":
		return fmt.Sprintf("line %d: %s: %v", e.LineNo, e.Event, e.Err)
	default:
		return fmt.Sprintf("line %d: %s %q: %v", e.LineNo, e.Event, e.Test, e.Err)
	}
}

func (e *ProtocolError) Unwrap() error { return e.Err }
