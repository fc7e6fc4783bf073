package pattern

// Leaderboard ranks items by a metric, e.g. the slowest tests of a run.
type Leaderboard struct {
	Label      string
	MetricName string // e.g., "Duration"
	Items      []LeaderboardItem
	TotalCount int // total before filtering to top N
	ShowRank   bool
}

// LeaderboardItem is a single ranked entry.
type LeaderboardItem struct {
	Name    string  // display name
	Metric  string  // formatted value, e.g. "2.3s"
	Value   float64 // numeric value used for ranking
	Rank    int
	Context string // optional extra context, e.g. the suite name
}

func (l *Leaderboard) Type() PatternType { return PatternTypeLeaderboard }
