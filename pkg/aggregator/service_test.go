package aggregator

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ratertools/air_compliance_engine/pkg/testdb"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "aggregator")
	if err != nil {
		os.Exit(1)
	}
	testdb.InitializeDatabase(filepath.Join(dir, "results.db"))
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

func insertEvaluation(t *testing.T, kind string, recordedAt time.Time, compliant bool) {
	t.Helper()
	insertEvaluationWithResult(t, kind, recordedAt, compliant, "{}")
}

func insertEvaluationWithResult(t *testing.T, kind string, recordedAt time.Time, compliant bool, resultJson string) {
	t.Helper()
	require.NoError(t, testdb.InsertEvaluation(&testdb.EvaluationRecord{
		ID:         uuid.NewString(),
		Kind:       kind,
		RecordedAt: recordedAt.Unix(),
		TestJson:   "{}",
		ResultJson: resultJson,
		Compliant:  compliant,
	}))
}

func TestAggregateDayCountsPerKind(t *testing.T) {
	day := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	insertEvaluation(t, "blower_door", day.Add(9*time.Hour), true)
	insertEvaluation(t, "blower_door", day.Add(11*time.Hour), false)
	insertEvaluation(t, "blower_door", day.Add(15*time.Hour), true)
	insertEvaluation(t, "ventilation", day.Add(10*time.Hour), true)
	// Next day; must not bleed into this bucket.
	insertEvaluation(t, "blower_door", day.Add(30*time.Hour), false)

	require.NoError(t, AggregateDay(day))

	rows := readAggregates(t, "aggregate_compliance_daily", "day_start", day.Unix())
	assert.Equal(t, uint32(2), rows["blower_door"].PassCount)
	assert.Equal(t, uint32(1), rows["blower_door"].FailCount)
	assert.Equal(t, uint32(1), rows["ventilation"].PassCount)
	assert.Equal(t, uint32(0), rows["ventilation"].FailCount)
}

func TestAggregateDayCountsReducedConfidence(t *testing.T) {
	day := time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)
	insertEvaluationWithResult(t, "blower_door", day.Add(8*time.Hour), true,
		`{"ach50":4.1,"reduced_confidence":true}`)
	insertEvaluationWithResult(t, "blower_door", day.Add(10*time.Hour), true,
		`{"ach50":2.8,"reduced_confidence":false}`)
	insertEvaluationWithResult(t, "blower_door", day.Add(13*time.Hour), false,
		`{"ach50":6.3,"reduced_confidence":true}`)
	// No confidence flag on ventilation results; must count as zero.
	insertEvaluationWithResult(t, "ventilation", day.Add(11*time.Hour), true,
		`{"overall_compliant":true}`)

	require.NoError(t, AggregateDay(day))

	rows := readAggregates(t, "aggregate_compliance_daily", "day_start", day.Unix())
	assert.Equal(t, uint32(2), rows["blower_door"].PassCount)
	assert.Equal(t, uint32(1), rows["blower_door"].FailCount)
	assert.Equal(t, uint32(2), rows["blower_door"].ReducedCount)
	assert.Equal(t, uint32(0), rows["ventilation"].ReducedCount)
}

func TestAggregateDayIsIdempotent(t *testing.T) {
	day := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)
	insertEvaluation(t, "duct_leakage", day.Add(8*time.Hour), true)

	require.NoError(t, AggregateDay(day))
	require.NoError(t, AggregateDay(day))

	rows := readAggregates(t, "aggregate_compliance_daily", "day_start", day.Unix())
	assert.Equal(t, uint32(1), rows["duct_leakage"].PassCount)
}

func TestAggregateMonth(t *testing.T) {
	month := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	insertEvaluation(t, "ventilation", month.AddDate(0, 0, 3), false)
	insertEvaluation(t, "ventilation", month.AddDate(0, 0, 20), true)

	require.NoError(t, AggregateMonth(month))

	rows := readAggregates(t, "aggregate_compliance_monthly", "month_start", month.Unix())
	assert.Equal(t, uint32(1), rows["ventilation"].PassCount)
	assert.Equal(t, uint32(1), rows["ventilation"].FailCount)
}

func TestAggregateEmptyTimeframeWritesNothing(t *testing.T) {
	day := time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, AggregateDay(day))
	rows := readAggregates(t, "aggregate_compliance_daily", "day_start", day.Unix())
	assert.Empty(t, rows)
}

func readAggregates(t *testing.T, table, startColumn string, start int64) map[string]testdb.AggregateComplianceRow {
	t.Helper()
	db := testdb.GetDB()

	rows, err := db.Query(
		"SELECT kind, pass_count, fail_count, reduced_count FROM "+table+" WHERE "+startColumn+" = ?",
		start,
	)
	require.NoError(t, err)
	defer rows.Close()

	result := make(map[string]testdb.AggregateComplianceRow)
	for rows.Next() {
		var row testdb.AggregateComplianceRow
		require.NoError(t, rows.Scan(&row.Kind, &row.PassCount, &row.FailCount, &row.ReducedCount))
		row.StartTime = start
		result[row.Kind] = row
	}
	require.NoError(t, rows.Err())
	return result
}
