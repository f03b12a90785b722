package testdb

type EvaluationRecord struct {
	ID         string `db:"id"`
	Kind       string `db:"kind"`
	RecordedAt int64  `db:"recorded_at"`
	TestJson   string `db:"test_json"`
	ResultJson string `db:"result_json"`
	Compliant  bool   `db:"compliant"`
}

// Aggregate models - computed compliance counts per timeframe.
// ReducedCount tracks single-point blower-door verdicts; zero for kinds
// whose results carry no confidence flag.
type AggregateComplianceRow struct {
	StartTime    int64  `db:"start_time"`
	Kind         string `db:"kind"`
	PassCount    uint32 `db:"pass_count"`
	FailCount    uint32 `db:"fail_count"`
	ReducedCount uint32 `db:"reduced_count"`
}

type AggregateComplianceDaily = AggregateComplianceRow
type AggregateComplianceMonthly = AggregateComplianceRow
