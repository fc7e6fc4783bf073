package render

import (
	"fmt"
	"strings"

	"github.com/dkoosis/cargo2junit/pkg/pattern"
)

const maxDetailLines = 3

// LLM renders patterns as terse plain text optimized for AI consumption.
// Zero ANSI codes, SCOPE line first, failure output capped per test.
type LLM struct{}

// NewLLM creates an LLM renderer.
func NewLLM() *LLM {
	return &LLM{}
}

// Render formats all patterns for LLM consumption.
func (l *LLM) Render(patterns []pattern.Pattern) string {
	var sb strings.Builder

	for _, p := range patterns {
		switch v := p.(type) {
		case *pattern.Summary:
			sb.WriteString("SCOPE: " + v.Label + "\n")
		case *pattern.TestTable:
			l.writeTable(&sb, v)
		case *pattern.Leaderboard:
			l.writeLeaderboard(&sb, v)
		}
	}
	return sb.String()
}

func (l *LLM) writeTable(sb *strings.Builder, t *pattern.TestTable) {
	if len(t.Results) == 0 {
		return
	}
	sb.WriteString("\n" + t.Label + "\n")
	for _, item := range t.Results {
		prefix := "  PASS"
		switch item.Status {
		case pattern.StatusFail:
			prefix = "  FAIL"
		case pattern.StatusSkip:
			prefix = "  SKIP"
		}

		dur := ""
		if item.Duration != "" {
			dur = " (" + item.Duration + ")"
		}
		fmt.Fprintf(sb, "%s %s%s\n", prefix, item.Name, dur)

		if item.Details == "" {
			continue
		}
		lines := strings.Split(item.Details, "\n")
		shown := min(len(lines), maxDetailLines)
		for _, line := range lines[:shown] {
			sb.WriteString("    " + line + "\n")
		}
		if len(lines) > maxDetailLines {
			fmt.Fprintf(sb, "    ... (%d more lines)\n", len(lines)-maxDetailLines)
		}
	}
}

func (l *LLM) writeLeaderboard(sb *strings.Builder, lb *pattern.Leaderboard) {
	if len(lb.Items) == 0 {
		return
	}
	sb.WriteString("\n" + lb.Label + "\n")
	for _, item := range lb.Items {
		fmt.Fprintf(sb, "  %d. %s %s\n", item.Rank, item.Name, item.Metric)
	}
}
