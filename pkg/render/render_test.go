package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"github.com/dkoosis/cargo2junit/pkg/pattern"
)

func samplePatterns() []pattern.Pattern {
	return []pattern.Pattern{
		&pattern.Summary{
			Label:  "FAIL 1/3 tests, 1 suites affected (1.6s)",
			Status: pattern.StatusFail,
			Metrics: []pattern.SummaryItem{
				{Label: "Failed", Value: "1/3 tests", Kind: "error"},
				{Label: "Passed", Value: "2/3 tests", Kind: "info"},
				{Label: "Suites", Value: "1", Kind: "info"},
			},
		},
		&pattern.TestTable{
			Label:  "FAIL cargo test #0 (1/3 failed)",
			Source: "cargo test #0",
			Results: []pattern.TestTableItem{
				{Name: "math::divides", Status: pattern.StatusFail, Duration: "12ms", Details: "panicked at src/lib.rs:4:5\nattempt to divide by zero"},
			},
		},
		&pattern.Leaderboard{
			Label:      "Slowest Tests",
			TotalCount: 3,
			ShowRank:   true,
			Items: []pattern.LeaderboardItem{
				{Name: "io::reads", Metric: "1.5s", Rank: 1, Context: "cargo test #0"},
			},
		},
		&pattern.TestTable{
			Label: "Passing Suites (1)",
			Results: []pattern.TestTableItem{
				{Name: "cargo test #1", Status: pattern.StatusPass, Duration: "0s", Count: 2},
			},
		},
	}
}

func TestTerminal_RenderMono(t *testing.T) {
	out := NewTerminal(MonoTheme(), 80).Render(samplePatterns())

	for _, want := range []string{
		"FAIL 1/3 tests",
		"x Failed: 1/3 tests",
		"x math::divides",
		"    attempt to divide by zero",
		"Slowest Tests (top 1 of 3)",
		" 1. io::reads",
		"+ cargo test #1",
		"2 tests",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("mono theme should not emit escape codes:\n%s", out)
	}
}

func TestTerminal_TruncatesWideNames(t *testing.T) {
	long := strings.Repeat("名", 50) // 100 display cells
	patterns := []pattern.Pattern{&pattern.TestTable{
		Label:   "wide",
		Results: []pattern.TestTableItem{{Name: long, Status: pattern.StatusPass}},
	}}
	out := NewTerminal(MonoTheme(), 60).Render(patterns)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	row := strings.TrimRight(lines[len(lines)-1], " ")
	if !strings.HasSuffix(row, "...") {
		t.Errorf("expected truncated name, got %q", row)
	}
	if w := runewidth.StringWidth(row); w > 60 {
		t.Errorf("row is %d cells wide, want <= 60", w)
	}
}

func TestTerminal_SkipsEmptyPatterns(t *testing.T) {
	out := NewTerminal(MonoTheme(), 0).Render([]pattern.Pattern{
		&pattern.TestTable{Label: "empty"},
		&pattern.Leaderboard{Label: "none"},
	})
	if out != "" {
		t.Errorf("expected empty output, got %q", out)
	}
}

func TestLLM_Render(t *testing.T) {
	out := NewLLM().Render(samplePatterns())

	if !strings.HasPrefix(out, "SCOPE: FAIL 1/3 tests") {
		t.Errorf("expected SCOPE line first:\n%s", out)
	}
	for _, want := range []string{
		"  FAIL math::divides (12ms)",
		"    attempt to divide by zero",
		"  1. io::reads 1.5s",
		"  PASS cargo test #1 (0s)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestLLM_CapsDetailLines(t *testing.T) {
	out := NewLLM().Render([]pattern.Pattern{&pattern.TestTable{
		Label: "FAIL s",
		Results: []pattern.TestTableItem{
			{Name: "t", Status: pattern.StatusFail, Details: "1\n2\n3\n4\n5"},
		},
	}})
	if !strings.Contains(out, "... (2 more lines)") {
		t.Errorf("expected truncation note:\n%s", out)
	}
	if strings.Contains(out, "    4\n") {
		t.Errorf("expected line 4 to be cut:\n%s", out)
	}
}

func TestJSON_Render(t *testing.T) {
	out := NewJSON().Render(samplePatterns())

	var doc struct {
		Version  string `json:"version"`
		Patterns []struct {
			Type string `json:"type"`
		} `json:"patterns"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, out)
	}
	got := make([]string, 0, len(doc.Patterns))
	for _, p := range doc.Patterns {
		got = append(got, p.Type)
	}
	want := "summary,test-table,leaderboard,test-table"
	if strings.Join(got, ",") != want {
		t.Errorf("pattern types = %v, want %s", got, want)
	}
}

func TestThemeByName(t *testing.T) {
	for _, name := range ThemeNames {
		th, err := ThemeByName(name)
		if err != nil {
			t.Fatalf("ThemeByName(%q): %v", name, err)
		}
		if th.Name != name {
			t.Errorf("ThemeByName(%q).Name = %q", name, th.Name)
		}
	}
	if th, err := ThemeByName("ORCA"); err != nil || th.Name != "orca" {
		t.Errorf("expected case-insensitive lookup, got %q, %v", th.Name, err)
	}
	if _, err := ThemeByName("neon"); err == nil {
		t.Error("expected error for unknown theme")
	}
}
