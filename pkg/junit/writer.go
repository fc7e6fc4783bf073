package junit

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"time"
)

const hostname = "localhost"

type xmlTestSuites struct {
	XMLName xml.Name       `xml:"testsuites"`
	Suites  []xmlTestSuite `xml:"testsuite"`
}

type xmlTestSuite struct {
	ID        int           `xml:"id,attr"`
	Name      string        `xml:"name,attr"`
	Package   string        `xml:"package,attr"`
	Tests     int           `xml:"tests,attr"`
	Errors    int           `xml:"errors,attr"`
	Failures  int           `xml:"failures,attr"`
	Skipped   int           `xml:"skipped,attr"`
	Hostname  string        `xml:"hostname,attr"`
	Timestamp string        `xml:"timestamp,attr"`
	Time      string        `xml:"time,attr"`
	Cases     []xmlTestCase `xml:"testcase"`
}

type xmlTestCase struct {
	Name      string      `xml:"name,attr"`
	Classname string      `xml:"classname,attr"`
	Time      string      `xml:"time,attr"`
	Failure   *xmlFailure `xml:"failure,omitempty"`
	Skipped   *xmlSkipped `xml:"skipped,omitempty"`
	SystemOut string      `xml:"system-out,omitempty"`
}

type xmlFailure struct {
	Type    string `xml:"type,attr"`
	Message string `xml:"message,attr"`
}

type xmlSkipped struct{}

// WriteXML renders the report as a JUnit XML document.
func WriteXML(w io.Writer, r *Report) error {
	doc := xmlTestSuites{Suites: make([]xmlTestSuite, 0, len(r.Suites))}
	for i := range r.Suites {
		doc.Suites = append(doc.Suites, toXMLSuite(i, &r.Suites[i]))
	}

	if _, err := io.WriteString(w, `<?xml version="1.0" encoding="utf-8"?>`+"\n"); err != nil {
		return fmt.Errorf("writing xml header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding junit xml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding junit xml: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// WriteJSON renders the report model as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding report json: %w", err)
	}
	return nil
}

func toXMLSuite(id int, s *Suite) xmlTestSuite {
	out := xmlTestSuite{
		ID:        id,
		Name:      s.Name,
		Package:   "testsuite/" + s.Name,
		Tests:     s.Tests(),
		Failures:  s.Failures(),
		Skipped:   s.Skipped(),
		Hostname:  hostname,
		Timestamp: s.Timestamp.UTC().Format(time.RFC3339Nano),
		Time:      formatSeconds(s.Time()),
		Cases:     make([]xmlTestCase, 0, len(s.Cases)),
	}
	for _, c := range s.Cases {
		tc := xmlTestCase{
			Name:      c.Name,
			Classname: c.Classname,
			Time:      formatSeconds(c.Duration),
		}
		switch c.Outcome {
		case OutcomeFailure:
			tc.Failure = &xmlFailure{Type: c.FailureType, Message: c.Message}
			tc.SystemOut = c.SystemOut
		case OutcomeSkipped:
			tc.Skipped = &xmlSkipped{}
		}
		out.Cases = append(out.Cases, tc)
	}
	return out
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}
