// Package junit holds the in-memory JUnit report model and its serializers.
package junit

import "time"

// Outcome is the result of a single test case.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
	OutcomeSkipped Outcome = "skipped"
)

// Report is the root of a JUnit document: an ordered list of suites.
type Report struct {
	Suites []Suite `json:"suites"`
}

// Suite is one test binary run, bounded by its started and completed events.
type Suite struct {
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
	Cases     []Case    `json:"cases"`
}

// Case is the reported outcome of one test within a suite.
type Case struct {
	Name      string        `json:"name"`
	Classname string        `json:"classname"`
	Outcome   Outcome       `json:"outcome"`
	Duration  time.Duration `json:"duration_ns"`

	// Set for failures only.
	FailureType string `json:"failure_type,omitempty"`
	Message     string `json:"message,omitempty"`
	SystemOut   string `json:"system_out,omitempty"`
}

// Tests returns the number of cases in the suite.
func (s *Suite) Tests() int {
	return len(s.Cases)
}

// Failures returns the number of failed cases.
func (s *Suite) Failures() int {
	return s.count(OutcomeFailure)
}

// Skipped returns the number of skipped cases.
func (s *Suite) Skipped() int {
	return s.count(OutcomeSkipped)
}

// Passed returns the number of successful cases.
func (s *Suite) Passed() int {
	return s.count(OutcomeSuccess)
}

// Time is the sum of the case durations.
func (s *Suite) Time() time.Duration {
	var total time.Duration
	for _, c := range s.Cases {
		total += c.Duration
	}
	return total
}

// Status returns "pass", "fail", or "skip" for the suite.
func (s *Suite) Status() string {
	if s.Failures() > 0 {
		return "fail"
	}
	if s.Passed() == 0 && s.Skipped() > 0 {
		return "skip"
	}
	return "pass"
}

func (s *Suite) count(o Outcome) int {
	n := 0
	for _, c := range s.Cases {
		if c.Outcome == o {
			n++
		}
	}
	return n
}

// FullName joins the classname and name the way libtest prints them.
func (c *Case) FullName() string {
	if c.Classname == "" {
		return c.Name
	}
	return c.Classname + "::" + c.Name
}
