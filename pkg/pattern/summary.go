package pattern

// Summary is the headline of a run: overall verdict plus counts.
type Summary struct {
	Label   string
	Status  string // StatusPass or StatusFail
	Metrics []SummaryItem
}

// SummaryItem is a single metric in a summary.
type SummaryItem struct {
	Label string // e.g., "Failed", "Passed", "Suites"
	Value string // formatted value
	Kind  string // "success", "error", "warning", "info"; selects the color
}

func (s *Summary) Type() PatternType { return PatternTypeSummary }
