// Package mapper converts parsed reports into visualization patterns.
package mapper

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dkoosis/cargo2junit/pkg/junit"
	"github.com/dkoosis/cargo2junit/pkg/pattern"
)

// SlowestLimit caps the slowest-tests leaderboard.
const SlowestLimit = 5

var outcomeVerbs = map[junit.Outcome]string{
	junit.OutcomeFailure: "failed",
	junit.OutcomeSuccess: "passed",
	junit.OutcomeSkipped: "skipped",
}

// FromReport converts a parsed report into visualization patterns.
// Returns: Summary + TestTable per failing suite + slowest tests + TestTable
// for the remaining suites.
func FromReport(r *junit.Report) []pattern.Pattern {
	stats := r.Stats()
	patterns := []pattern.Pattern{reportSummary(stats)}

	for i := range r.Suites {
		if r.Suites[i].Failures() > 0 {
			patterns = append(patterns, failedSuiteTable(&r.Suites[i]))
		}
	}

	if lb := slowestTests(r, SlowestLimit); lb != nil {
		patterns = append(patterns, lb)
	}

	var passItems []pattern.TestTableItem
	for i := range r.Suites {
		s := &r.Suites[i]
		if s.Failures() > 0 {
			continue
		}
		item := pattern.TestTableItem{
			Name:     s.Name,
			Status:   s.Status(),
			Duration: formatDuration(s.Time()),
			Count:    s.Tests(),
		}
		if n := s.Skipped(); n > 0 {
			item.Details = fmt.Sprintf("%d skipped", n)
		}
		passItems = append(passItems, item)
	}
	if len(passItems) > 0 {
		patterns = append(patterns, &pattern.TestTable{
			Label:   fmt.Sprintf("Passing Suites (%d)", len(passItems)),
			Results: passItems,
		})
	}

	return patterns
}

func reportSummary(s junit.Stats) *pattern.Summary {
	// Casers carry state, so each summary gets its own.
	titler := cases.Title(language.English)
	label := func(o junit.Outcome) string { return titler.String(outcomeVerbs[o]) }

	var metrics []pattern.SummaryItem
	if s.Failed > 0 {
		metrics = append(metrics, pattern.SummaryItem{
			Label: label(junit.OutcomeFailure), Value: fmt.Sprintf("%d/%d tests", s.Failed, s.TotalTests), Kind: "error",
		})
	}
	if s.Passed > 0 {
		kind := "success"
		if s.Failed > 0 {
			kind = "info"
		}
		metrics = append(metrics, pattern.SummaryItem{
			Label: label(junit.OutcomeSuccess), Value: fmt.Sprintf("%d/%d tests", s.Passed, s.TotalTests), Kind: kind,
		})
	}
	if s.Skipped > 0 {
		metrics = append(metrics, pattern.SummaryItem{
			Label: label(junit.OutcomeSkipped), Value: fmt.Sprintf("%d", s.Skipped), Kind: "warning",
		})
	}
	metrics = append(metrics, pattern.SummaryItem{
		Label: "Suites", Value: fmt.Sprintf("%d", s.Suites), Kind: "info",
	})

	if s.Failed > 0 {
		return &pattern.Summary{
			Label: fmt.Sprintf("FAIL %d/%d tests, %d suites affected (%s)",
				s.Failed, s.TotalTests, s.FailedSuites, formatDuration(s.Duration)),
			Status:  pattern.StatusFail,
			Metrics: metrics,
		}
	}
	return &pattern.Summary{
		Label:   fmt.Sprintf("PASS %d tests in %d suites (%s)", s.TotalTests, s.Suites, formatDuration(s.Duration)),
		Status:  pattern.StatusPass,
		Metrics: metrics,
	}
}

func failedSuiteTable(s *junit.Suite) *pattern.TestTable {
	items := make([]pattern.TestTableItem, 0, s.Failures())
	for _, c := range s.Cases {
		if c.Outcome != junit.OutcomeFailure {
			continue
		}
		details := strings.TrimRight(c.SystemOut, "\n")
		if details == "" {
			details = c.Message
		}
		items = append(items, pattern.TestTableItem{
			Name:     c.FullName(),
			Status:   pattern.StatusFail,
			Duration: formatDuration(c.Duration),
			Details:  truncateLines(strings.Split(details, "\n"), 3),
		})
	}
	return &pattern.TestTable{
		Label:   fmt.Sprintf("FAIL %s (%d/%d failed)", s.Name, s.Failures(), s.Tests()),
		Source:  s.Name,
		Results: items,
	}
}

func slowestTests(r *junit.Report, limit int) *pattern.Leaderboard {
	var items []pattern.LeaderboardItem
	for i := range r.Suites {
		s := &r.Suites[i]
		for _, c := range s.Cases {
			if c.Duration <= 0 {
				continue
			}
			items = append(items, pattern.LeaderboardItem{
				Name:    c.FullName(),
				Metric:  formatDuration(c.Duration),
				Value:   c.Duration.Seconds(),
				Context: s.Name,
			})
		}
	}
	if len(items) == 0 {
		return nil
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Value != items[j].Value {
			return items[i].Value > items[j].Value
		}
		return items[i].Name < items[j].Name
	})

	total := len(items)
	if len(items) > limit {
		items = items[:limit]
	}
	for i := range items {
		items[i].Rank = i + 1
	}
	return &pattern.Leaderboard{
		Label:      "Slowest Tests",
		MetricName: "Duration",
		Items:      items,
		TotalCount: total,
		ShowRank:   true,
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return "0s"
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func truncateLines(lines []string, max int) string {
	if len(lines) <= max {
		return strings.Join(lines, "\n")
	}
	result := strings.Join(lines[:max], "\n")
	return result + fmt.Sprintf("\n... (%d more lines)", len(lines)-max)
}
