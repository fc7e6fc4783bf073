package junit

import "time"

// Stats holds aggregate statistics across all suites.
type Stats struct {
	TotalTests   int
	Passed       int
	Failed       int
	Skipped      int
	Suites       int
	FailedSuites int
	Duration     time.Duration
}

// Stats aggregates case counts and durations over the whole report.
func (r *Report) Stats() Stats {
	var s Stats
	s.Suites = len(r.Suites)
	for i := range r.Suites {
		suite := &r.Suites[i]
		s.Passed += suite.Passed()
		s.Failed += suite.Failures()
		s.Skipped += suite.Skipped()
		s.TotalTests += suite.Tests()
		s.Duration += suite.Time()
		if suite.Status() == "fail" {
			s.FailedSuites++
		}
	}
	return s
}

// HasFailures reports whether any case in the report failed.
func (r *Report) HasFailures() bool {
	for i := range r.Suites {
		if r.Suites[i].Failures() > 0 {
			return true
		}
	}
	return false
}
