package libtest

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/acarl005/stripansi"
)

// DefaultMaxOutputLen bounds captured output; GitLab rejects JUnit files with
// very large system-out blocks.
const DefaultMaxOutputLen = 65536

// TruncationMarker replaces the middle of output longer than the budget.
const TruncationMarker = "\n[...TRUNCATED...]\n"

var errMissingSuffix = errors.New(`exec_time string must end in "s"`)

// Elapsed resolves a test's duration. A seconds value wins over a
// milliseconds value; with neither the duration is zero.
func Elapsed(ms, secs *float64) time.Duration {
	switch {
	case secs != nil:
		return toDuration(*secs * 1e9)
	case ms != nil:
		return toDuration(*ms * 1e6)
	default:
		return 0
	}
}

// toDuration truncates ns toward zero, saturating at the int64 range.
// NaN maps to zero.
func toDuration(ns float64) time.Duration {
	switch {
	case math.IsNaN(ns):
		return 0
	case ns >= math.MaxInt64:
		return math.MaxInt64
	case ns <= math.MinInt64:
		return math.MinInt64
	default:
		return time.Duration(ns)
	}
}

// ParseSeconds parses the string form of exec_time, e.g. "0.0721s".
func ParseSeconds(s string) (float64, error) {
	num, ok := strings.CutSuffix(s, "s")
	if !ok {
		return 0, fmt.Errorf("%w: %q", errMissingSuffix, s)
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("exec_time %q: %w", s, err)
	}
	return v, nil
}

// SplitName splits "a::b::test" into the test name "test" and the
// classname "a::b".
func SplitName(full string) (name, classname string) {
	idx := strings.LastIndex(full, "::")
	if idx < 0 {
		return full, ""
	}
	return full[idx+2:], full[:idx]
}

// Sanitize strips terminal escape sequences and replaces invalid UTF-8.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToValidUTF8(stripansi.Strip(s), "\uFFFD")
}

// MergeOutput joins captured stdout and stderr, stdout first.
func MergeOutput(stdout, stderr string) string {
	switch {
	case stderr == "":
		return stdout
	case stdout == "":
		return stderr
	default:
		return stdout + "\n" + stderr
	}
}

// Bound keeps the head and tail of s when it exceeds max bytes, joined by
// TruncationMarker. Each side gets half of what remains after the marker.
// When max is smaller than the marker the result is the marker alone, which
// is longer than max.
func Bound(s string, max int) string {
	if len(s) <= max {
		return s
	}
	half := (max - len(TruncationMarker)) / 2
	if half < 0 {
		half = 0
	}

	head := half
	for head > 0 && !utf8.RuneStart(s[head]) {
		head--
	}
	tail := len(s) - half
	for tail < len(s) && !utf8.RuneStart(s[tail]) {
		tail++
	}
	return s[:head] + TruncationMarker + s[tail:]
}

// diagnosticText builds the system-out body for a failed test.
func diagnosticText(e Event, max int) string {
	return Bound(MergeOutput(Sanitize(e.Stdout), Sanitize(e.Stderr)), max)
}
