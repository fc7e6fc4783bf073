// Package libtest parses the JSON event stream emitted by
// `cargo test -- -Z unstable-options --format json` into a JUnit report.
package libtest

import "time"

// Kind discriminates suite events from test events.
type Kind int

const (
	KindSuite Kind = iota
	KindTest
)

func (k Kind) String() string {
	if k == KindSuite {
		return "suite"
	}
	return "test"
}

// Action is the lifecycle step an event reports.
type Action string

const (
	ActionStarted Action = "started"
	ActionOk      Action = "ok"
	ActionFailed  Action = "failed"
	ActionIgnored Action = "ignored" // test only
	ActionTimeout Action = "timeout" // test only, informational
)

// Event is a single decoded line of libtest output. Suite events use Counts;
// test events use the remaining fields.
type Event struct {
	Kind   Kind
	Action Action

	Name    string
	Stdout  string
	Stderr  string
	Message string
	Elapsed time.Duration

	Counts SuiteCounts
}

// SuiteCounts are the totals carried by suite events. They are decoded for
// shape matching and not otherwise consulted.
type SuiteCounts struct {
	TestCount   int
	Passed      int
	Failed      int
	Ignored     int
	Measured    int
	FilteredOut int
}

func (e Event) String() string {
	return e.Kind.String() + " " + string(e.Action)
}
