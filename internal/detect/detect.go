// Package detect sniffs stdin to determine the input format.
package detect

import (
	"bytes"
	"encoding/json"

	"github.com/dkoosis/cargo2junit/pkg/libtest"
)

// Format represents a recognized input format.
type Format int

const (
	Unknown    Format = iota
	Libtest           // cargo test --format json stream
	GoTestJSON        // go test -json NDJSON stream
)

func (f Format) String() string {
	switch f {
	case Libtest:
		return "libtest json"
	case GoTestJSON:
		return "go test -json"
	default:
		return "unknown"
	}
}

// Sniff examines the first bytes of input to determine format. Cargo
// prefixes the event stream with build noise, so the first line that looks
// like a JSON object decides.
func Sniff(data []byte) Format {
	for len(data) > 0 {
		line := data
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			line, data = data[:i], data[i+1:]
		} else {
			data = nil
		}

		if !libtest.IsCandidate(string(line)) {
			continue
		}
		if _, err := libtest.Decode(string(line)); err == nil {
			return Libtest
		}
		if isGoTestJSON(line) {
			return GoTestJSON
		}
		return Unknown
	}
	return Unknown
}

func isGoTestJSON(line []byte) bool {
	var event struct {
		Action  string `json:"Action"`
		Package string `json:"Package"`
	}
	if err := json.Unmarshal(line, &event); err != nil {
		return false
	}

	validActions := map[string]bool{
		"start": true, "run": true, "pause": true, "cont": true,
		"pass": true, "bench": true, "fail": true, "output": true, "skip": true,
	}
	return validActions[event.Action]
}
