package libtest

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsCandidate(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{`{ "type": "suite", "event": "started", "test_count": 1 }`, true},
		{"   \t{garbage}", true},
		{"running 3 tests", false},
		{"", false},
		{"   ", false},
		{"test result: ok. 1 passed", false},
		{"[1, 2]", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsCandidate(tt.line), "line %q", tt.line)
	}
}

func TestDecode_Variants(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Event
	}{
		{
			name: "tagged suite started",
			line: `{"type":"suite","event":"started","test_count":4}`,
			want: Event{Kind: KindSuite, Action: ActionStarted, Counts: SuiteCounts{TestCount: 4}},
		},
		{
			name: "untagged suite started",
			line: `{"event":"started","test_count":2}`,
			want: Event{Kind: KindSuite, Action: ActionStarted, Counts: SuiteCounts{TestCount: 2}},
		},
		{
			name: "untagged suite failed with counts",
			line: `{"event":"failed","passed":3,"failed":1,"ignored":2,"measured":0,"filtered_out":5,"exec_time":0.5}`,
			want: Event{Kind: KindSuite, Action: ActionFailed, Counts: SuiteCounts{Passed: 3, Failed: 1, Ignored: 2, FilteredOut: 5}},
		},
		{
			name: "untagged test started",
			line: `{"event":"started","name":"a::b"}`,
			want: Event{Kind: KindTest, Action: ActionStarted, Name: "a::b"},
		},
		{
			name: "untagged test ok",
			line: `{"event":"ok","name":"a::b"}`,
			want: Event{Kind: KindTest, Action: ActionOk, Name: "a::b"},
		},
		{
			name: "exec_time number",
			line: `{"type":"test","event":"ok","name":"t","exec_time":1.5}`,
			want: Event{Kind: KindTest, Action: ActionOk, Name: "t", Elapsed: 1500 * time.Millisecond},
		},
		{
			name: "exec_time string",
			line: `{"type":"test","event":"ok","name":"t","exec_time":"0.0721s"}`,
			want: Event{Kind: KindTest, Action: ActionOk, Name: "t", Elapsed: 72100000},
		},
		{
			name: "duration milliseconds",
			line: `{"type":"test","event":"ok","name":"t","duration":72.1}`,
			want: Event{Kind: KindTest, Action: ActionOk, Name: "t", Elapsed: 72100000},
		},
		{
			name: "seconds win over milliseconds",
			line: `{"type":"test","event":"ok","name":"t","duration":999,"exec_time":0.5}`,
			want: Event{Kind: KindTest, Action: ActionOk, Name: "t", Elapsed: 500 * time.Millisecond},
		},
		{
			name: "exec_time beyond duration range",
			line: `{"type":"test","event":"ok","name":"t","exec_time":1e300}`,
			want: Event{Kind: KindTest, Action: ActionOk, Name: "t", Elapsed: math.MaxInt64},
		},
		{
			name: "null exec_time",
			line: `{"type":"test","event":"ok","name":"t","exec_time":null}`,
			want: Event{Kind: KindTest, Action: ActionOk, Name: "t"},
		},
		{
			name: "failure with split streams",
			line: `{"type":"test","event":"failed","name":"t","stdout":"out","stderr":"err"}`,
			want: Event{Kind: KindTest, Action: ActionFailed, Name: "t", Stdout: "out", Stderr: "err"},
		},
		{
			name: "failure with message only",
			line: `{"type":"test","event":"failed","name":"t","message":"test did not panic as expected"}`,
			want: Event{Kind: KindTest, Action: ActionFailed, Name: "t", Message: "test did not panic as expected"},
		},
		{
			name: "ignored",
			line: `{"type":"test","event":"ignored","name":"t"}`,
			want: Event{Kind: KindTest, Action: ActionIgnored, Name: "t"},
		},
		{
			name: "timeout",
			line: `{"type":"test","event":"timeout","name":"t"}`,
			want: Event{Kind: KindTest, Action: ActionTimeout, Name: "t"},
		},
		{
			name: "leading whitespace",
			line: `   {"type":"test","event":"started","name":"t"}`,
			want: Event{Kind: KindTest, Action: ActionStarted, Name: "t"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecode_Rejects(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"garbage", `{garbage}`},
		{"truncated object", `{"type":"test","event":"ok"`},
		{"missing event", `{"type":"test","name":"t"}`},
		{"unknown type", `{"type":"bench","event":"ok","name":"t","median":10,"deviation":1}`},
		{"unknown test event", `{"type":"test","event":"exploded","name":"t"}`},
		{"unknown suite event", `{"type":"suite","event":"ignored","passed":0,"failed":0}`},
		{"suite without counts", `{"type":"suite","event":"ok"}`},
		{"test without name", `{"type":"test","event":"ok"}`},
		{"no recognizable shape", `{"event":"ok"}`},
		{"exec_time without suffix", `{"type":"test","event":"ok","name":"t","exec_time":"1.5"}`},
		{"exec_time unparsable", `{"type":"test","event":"ok","name":"t","exec_time":"fasts"}`},
		{"exec_time wrong type", `{"type":"test","event":"ok","name":"t","exec_time":[1]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.line)
			assert.Error(t, err)
		})
	}
}

func TestDecode_RetriesUnescapedBackslashes(t *testing.T) {
	line := `{"type":"test","event":"failed","name":"t","stdout":"C:\Users\ci\x"}`

	_, strictErr := decodeStrict(line)
	require.Error(t, strictErr)

	got, err := Decode(line)
	require.NoError(t, err)
	assert.Equal(t, `C:\Users\ci\x`, got.Stdout)
}

func TestDecode_ReturnsOriginalErrorWhenRetryFails(t *testing.T) {
	line := `{"type":"test","event":"failed","name":"t","stdout":"C:\Users" oops}`

	var probe map[string]any
	want := json.Unmarshal([]byte(line), &probe)
	require.Error(t, want)

	_, err := Decode(line)
	require.Error(t, err)
	assert.Equal(t, want.Error(), err.Error())
}

func TestDecodeLine_SkipsNoise(t *testing.T) {
	ev, ok, err := DecodeLine("test result: FAILED. 0 passed; 1 failed")
	assert.False(t, ok)
	assert.NoError(t, err)
	assert.Equal(t, Event{}, ev)

	_, ok, err = DecodeLine("{garbage}")
	assert.True(t, ok)
	assert.Error(t, err)
}
