package pattern

// TestTable lists test cases, or whole suites, with status and timing.
type TestTable struct {
	Label   string
	Source  string // suite name the rows belong to, empty for cross-suite tables
	Results []TestTableItem
}

// TestTableItem is a single test or suite row.
type TestTableItem struct {
	Name     string // test path or suite name
	Status   string // StatusPass, StatusFail, StatusSkip
	Duration string // formatted duration
	Count    int    // number of tests (suite rows)
	Details  string // captured output or failure message
}

func (t *TestTable) Type() PatternType { return PatternTypeTestTable }
