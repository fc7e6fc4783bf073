package libtest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	errNoEvent      = errors.New(`missing "event" field`)
	errUnknownShape = errors.New("object matches neither a suite nor a test event")
)

// rawEvent is the union of every field any libtest JSON variant has used.
// Pointers distinguish absent fields from zero values.
type rawEvent struct {
	Type  *string `json:"type"`
	Event *string `json:"event"`
	Name  *string `json:"name"`

	TestCount   *int `json:"test_count"`
	Passed      *int `json:"passed"`
	Failed      *int `json:"failed"`
	Ignored     *int `json:"ignored"`
	Measured    *int `json:"measured"`
	FilteredOut *int `json:"filtered_out"`

	Stdout  *string `json:"stdout"`
	Stderr  *string `json:"stderr"`
	Message *string `json:"message"`

	Duration *float64        `json:"duration"`  // milliseconds
	ExecTime json.RawMessage `json:"exec_time"` // seconds, number or "1.5s"
}

// IsCandidate reports whether line could hold an event: its first
// non-whitespace character is '{'. Everything else is log noise.
func IsCandidate(line string) bool {
	return strings.HasPrefix(strings.TrimLeftFunc(line, unicode.IsSpace), "{")
}

// DecodeLine filters and decodes one line of output. ok is false for noise
// lines, which carry no event and no error.
func DecodeLine(line string) (ev Event, ok bool, err error) {
	if !IsCandidate(line) {
		return Event{}, false, nil
	}
	ev, err = Decode(line)
	if err != nil {
		return Event{}, true, err
	}
	return ev, true, nil
}

// Decode parses one candidate line. libtest does not escape backslashes in
// captured output, so a line that fails to decode is retried once with every
// backslash doubled. The returned error is the one from the first attempt.
func Decode(line string) (Event, error) {
	ev, err := decodeStrict(line)
	if err == nil {
		return ev, nil
	}
	if retried, retryErr := decodeStrict(strings.ReplaceAll(line, `\`, `\\`)); retryErr == nil {
		return retried, nil
	}
	return Event{}, err
}

func decodeStrict(line string) (Event, error) {
	var raw rawEvent
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Event{}, err
	}
	if raw.Event == nil {
		return Event{}, errNoEvent
	}
	action := Action(*raw.Event)

	kind, err := raw.kind(action)
	if err != nil {
		return Event{}, err
	}
	if kind == KindSuite {
		return raw.suiteEvent(action)
	}
	return raw.testEvent(action)
}

// kind honours an explicit "type" tag and otherwise infers the variant from
// the fields present, trying the suite shape first.
func (r *rawEvent) kind(action Action) (Kind, error) {
	if r.Type != nil {
		switch *r.Type {
		case "suite":
			return KindSuite, nil
		case "test":
			return KindTest, nil
		default:
			return 0, fmt.Errorf("unknown event type %q", *r.Type)
		}
	}
	if r.hasSuiteShape(action) {
		return KindSuite, nil
	}
	if r.Name != nil {
		return KindTest, nil
	}
	return 0, errUnknownShape
}

func (r *rawEvent) hasSuiteShape(action Action) bool {
	switch action {
	case ActionStarted:
		return r.TestCount != nil
	case ActionOk, ActionFailed:
		return r.Passed != nil && r.Failed != nil
	default:
		return false
	}
}

func (r *rawEvent) suiteEvent(action Action) (Event, error) {
	switch action {
	case ActionStarted, ActionOk, ActionFailed:
	default:
		return Event{}, fmt.Errorf("unknown suite event %q", action)
	}
	if !r.hasSuiteShape(action) {
		return Event{}, fmt.Errorf("suite %s event is missing its counts", action)
	}
	return Event{
		Kind:   KindSuite,
		Action: action,
		Counts: SuiteCounts{
			TestCount:   deref(r.TestCount),
			Passed:      deref(r.Passed),
			Failed:      deref(r.Failed),
			Ignored:     deref(r.Ignored),
			Measured:    deref(r.Measured),
			FilteredOut: deref(r.FilteredOut),
		},
	}, nil
}

func (r *rawEvent) testEvent(action Action) (Event, error) {
	switch action {
	case ActionStarted, ActionOk, ActionFailed, ActionIgnored, ActionTimeout:
	default:
		return Event{}, fmt.Errorf("unknown test event %q", action)
	}
	if r.Name == nil {
		return Event{}, fmt.Errorf(`test %s event is missing "name"`, action)
	}
	secs, err := r.seconds()
	if err != nil {
		return Event{}, err
	}
	return Event{
		Kind:    KindTest,
		Action:  action,
		Name:    *r.Name,
		Stdout:  deref(r.Stdout),
		Stderr:  deref(r.Stderr),
		Message: deref(r.Message),
		Elapsed: Elapsed(r.Duration, secs),
	}, nil
}

// seconds decodes exec_time, which newer toolchains emit as a number and
// older ones as a string such as "0.0721s".
func (r *rawEvent) seconds() (*float64, error) {
	if len(r.ExecTime) == 0 || string(r.ExecTime) == "null" {
		return nil, nil
	}
	var num float64
	if err := json.Unmarshal(r.ExecTime, &num); err == nil {
		return &num, nil
	}
	var str string
	if err := json.Unmarshal(r.ExecTime, &str); err != nil {
		return nil, fmt.Errorf("exec_time: expected number or string, got %s", r.ExecTime)
	}
	v, err := ParseSeconds(str)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
