package junit

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *Report {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return &Report{Suites: []Suite{
		{
			Name:      "cargo test #0",
			Timestamp: ts,
			Cases: []Case{
				{Name: "adds", Classname: "tests", Outcome: OutcomeSuccess, Duration: 72100 * time.Microsecond},
				{
					Name:        "it_fails",
					Classname:   "math",
					Outcome:     OutcomeFailure,
					Duration:    10 * time.Millisecond,
					FailureType: "cargo test",
					Message:     "failed math::it_fails",
					SystemOut:   "assertion `left == right` failed\n  left: <1>",
				},
				{Name: "slow", Outcome: OutcomeSkipped},
			},
		},
		{Name: "cargo test #1", Timestamp: ts, Cases: []Case{}},
	}}
}

func TestWriteXML_Structure(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXML(&buf, sampleReport()))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="utf-8"?>`+"\n<testsuites>"))
	assert.True(t, strings.HasSuffix(out, "</testsuites>\n"))
	assert.Contains(t, out, `package="testsuite/cargo test #0"`)
	assert.Contains(t, out, `hostname="localhost"`)
	assert.Contains(t, out, `timestamp="2024-01-02T03:04:05Z"`)

	var doc xmlTestSuites
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Suites, 2)

	first := doc.Suites[0]
	assert.Equal(t, 0, first.ID)
	assert.Equal(t, 3, first.Tests)
	assert.Equal(t, 0, first.Errors)
	assert.Equal(t, 1, first.Failures)
	assert.Equal(t, 1, first.Skipped)
	assert.Equal(t, "0.082", first.Time)
	require.Len(t, first.Cases, 3)

	ok := first.Cases[0]
	assert.Equal(t, "adds", ok.Name)
	assert.Equal(t, "tests", ok.Classname)
	assert.Equal(t, "0.072", ok.Time)
	assert.Nil(t, ok.Failure)
	assert.Nil(t, ok.Skipped)
	assert.Empty(t, ok.SystemOut)

	failed := first.Cases[1]
	require.NotNil(t, failed.Failure)
	assert.Equal(t, "cargo test", failed.Failure.Type)
	assert.Equal(t, "failed math::it_fails", failed.Failure.Message)
	assert.Equal(t, "assertion `left == right` failed\n  left: <1>", failed.SystemOut)

	skipped := first.Cases[2]
	assert.NotNil(t, skipped.Skipped)
	assert.Nil(t, skipped.Failure)
	assert.Equal(t, "0.000", skipped.Time)

	second := doc.Suites[1]
	assert.Equal(t, 1, second.ID)
	assert.Equal(t, 0, second.Tests)
	assert.Empty(t, second.Cases)
}

func TestWriteXML_EmptyReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXML(&buf, &Report{}))

	var doc xmlTestSuites
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &doc))
	assert.Empty(t, doc.Suites)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleReport()))

	var got Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sampleReport(), &got)
	assert.Contains(t, buf.String(), `"duration_ns": 72100000`)
	assert.NotContains(t, buf.String(), `"system_out": ""`)
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0.000"},
		{1500 * time.Millisecond, "1.500"},
		{72100 * time.Microsecond, "0.072"},
		{2 * time.Minute, "120.000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatSeconds(tt.d))
	}
}
