// Package pattern defines the semantic data types for the run summary.
// Patterns are pure data; renderers decide presentation.
package pattern

// PatternType identifies the kind of visualization pattern.
type PatternType string

const (
	PatternTypeSummary     PatternType = "summary"
	PatternTypeTestTable   PatternType = "test-table"
	PatternTypeLeaderboard PatternType = "leaderboard"
)

// Pattern is the interface all visualization patterns implement.
type Pattern interface {
	Type() PatternType
}

// Status values shared by summaries and table rows.
const (
	StatusPass = "pass"
	StatusFail = "fail"
	StatusSkip = "skip"
)
