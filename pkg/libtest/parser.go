package libtest

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/dkoosis/cargo2junit/pkg/junit"
)

const (
	// DefaultSuitePrefix names suites "cargo test #0", "cargo test #1", ...
	DefaultSuitePrefix = "cargo test"

	failureType = "cargo test"
)

// Options configures a single parse. Zero values select the defaults.
type Options struct {
	SuitePrefix  string
	Timestamp    time.Time // stamped on every suite of the parse
	MaxOutputLen int       // bytes of system-out kept per failed test
}

func (o Options) withDefaults() Options {
	if o.SuitePrefix == "" {
		o.SuitePrefix = DefaultSuitePrefix
	}
	if o.Timestamp.IsZero() {
		o.Timestamp = time.Now().UTC()
	}
	if o.MaxOutputLen <= 0 {
		o.MaxOutputLen = DefaultMaxOutputLen
	}
	return o
}

// LineReader is buffered, line-oriented input. *bufio.Reader satisfies it.
type LineReader interface {
	ReadString(delim byte) (string, error)
}

// Parse consumes r to EOF and returns the accumulated report. Any decode
// error or lifecycle violation aborts the parse and no report is returned.
func Parse(r LineReader, opts Options) (*junit.Report, error) {
	p := newParser(opts.withDefaults())
	for {
		line, err := r.ReadString('\n')
		if line != "" {
			p.lineNo++
			if perr := p.processLine(trimEOL(line)); perr != nil {
				return nil, perr
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading test output: %w", err)
		}
	}
	return p.finish()
}

// ParseStream wraps r in a bufio.Reader when it is not already line-oriented.
func ParseStream(r io.Reader, opts Options) (*junit.Report, error) {
	if lr, ok := r.(LineReader); ok {
		return Parse(lr, opts)
	}
	return Parse(bufio.NewReaderSize(r, 64*1024), opts)
}

// ParseBytes is a convenience for parsing from a byte slice.
func ParseBytes(data []byte, opts Options) (*junit.Report, error) {
	return Parse(bufio.NewReader(bytes.NewReader(data)), opts)
}

type parser struct {
	opts Options

	report     *junit.Report
	current    *junit.Suite
	inFlight   map[string]struct{}
	suiteIndex int
	lineNo     int
}

func newParser(opts Options) *parser {
	return &parser{
		opts:     opts,
		report:   &junit.Report{Suites: []junit.Suite{}},
		inFlight: make(map[string]struct{}),
	}
}

func (p *parser) processLine(line string) error {
	ev, ok, err := DecodeLine(line)
	if !ok {
		return nil
	}
	if err != nil {
		return &DecodeError{LineNo: p.lineNo, Line: line, Err: err}
	}
	if ev.Kind == KindSuite {
		return p.processSuite(ev)
	}
	return p.processTest(ev)
}

func (p *parser) processSuite(ev Event) error {
	switch ev.Action {
	case ActionStarted:
		if p.current != nil {
			return p.violation(ev, p.current.Name, ErrSuiteAlreadyOpen)
		}
		if len(p.inFlight) > 0 {
			return p.violation(ev, p.firstInFlight(), ErrTestsInFlight)
		}
		p.current = &junit.Suite{
			Name:      fmt.Sprintf("%s #%d", p.opts.SuitePrefix, p.suiteIndex),
			Timestamp: p.opts.Timestamp,
			Cases:     []junit.Case{},
		}
		p.suiteIndex++

	default:
		// ok and failed seal the suite the same way; their counts are not
		// cross-checked against the recorded cases.
		if p.current == nil {
			return p.violation(ev, "", ErrNoOpenSuite)
		}
		if len(p.inFlight) > 0 {
			return p.violation(ev, p.firstInFlight(), ErrTestsInFlight)
		}
		p.report.Suites = append(p.report.Suites, *p.current)
		p.current = nil
	}
	return nil
}

func (p *parser) processTest(ev Event) error {
	if p.current == nil {
		return p.violation(ev, ev.Name, ErrNoOpenSuite)
	}

	switch ev.Action {
	case ActionStarted:
		if _, dup := p.inFlight[ev.Name]; dup {
			return p.violation(ev, ev.Name, ErrDuplicateTest)
		}
		p.inFlight[ev.Name] = struct{}{}

	case ActionTimeout:
		// libtest reports tests running past 60s; the test keeps running
		// and resolves later.

	default:
		if _, ok := p.inFlight[ev.Name]; !ok {
			return p.violation(ev, ev.Name, ErrUnknownTest)
		}
		delete(p.inFlight, ev.Name)
		p.current.Cases = append(p.current.Cases, p.newCase(ev))
	}
	return nil
}

func (p *parser) newCase(ev Event) junit.Case {
	name, classname := SplitName(ev.Name)
	c := junit.Case{Name: name, Classname: classname}

	switch ev.Action {
	case ActionOk:
		c.Outcome = junit.OutcomeSuccess
		c.Duration = ev.Elapsed
	case ActionFailed:
		c.Outcome = junit.OutcomeFailure
		c.Duration = ev.Elapsed
		c.FailureType = failureType
		c.Message = fmt.Sprintf("failed %s::%s", classname, name)
		c.SystemOut = diagnosticText(ev, p.opts.MaxOutputLen)
	case ActionIgnored:
		c.Outcome = junit.OutcomeSkipped
	}
	return c
}

func (p *parser) finish() (*junit.Report, error) {
	if p.current != nil {
		return nil, &ProtocolError{
			LineNo: p.lineNo,
			Err:    fmt.Errorf("%w: %s", ErrUnterminatedSuite, p.current.Name),
		}
	}
	return p.report, nil
}

func (p *parser) violation(ev Event, test string, err error) error {
	return &ProtocolError{LineNo: p.lineNo, Event: ev.String(), Test: test, Err: err}
}

// firstInFlight names one unresolved test, deterministically.
func (p *parser) firstInFlight() string {
	names := make([]string, 0, len(p.inFlight))
	for name := range p.inFlight {
		names = append(names, name)
	}
	sort.Strings(names)
	return names[0]
}

func trimEOL(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}
