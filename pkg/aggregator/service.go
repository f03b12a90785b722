package aggregator

import (
	"database/sql"
	"log"
	"time"

	"github.com/ratertools/air_compliance_engine/pkg/testdb"
)

// roundToDayStart returns the Unix timestamp of the start of the day for the given time
func roundToDayStart(t time.Time) int64 {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Unix()
}

// roundToMonthStart returns the Unix timestamp of the start of the month for the given time
func roundToMonthStart(t time.Time) int64 {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).Unix()
}

// getDayEnd returns the Unix timestamp of the last second of the day (next day start - 1)
func getDayEnd(dayStart int64) int64 {
	return time.Unix(dayStart, 0).UTC().AddDate(0, 0, 1).Unix() - 1
}

// getMonthEnd returns the Unix timestamp of the last second of the month (next month start - 1)
func getMonthEnd(monthStart int64) int64 {
	t := time.Unix(monthStart, 0).UTC()
	return time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, time.UTC).Unix() - 1
}

// aggregateComplianceDaily rolls verdict counts per test kind for a specific day
func aggregateComplianceDaily(dayStart int64) error {
	return aggregateCompliance(
		"aggregate_compliance_daily", "day_start",
		dayStart, getDayEnd(dayStart),
	)
}

// aggregateComplianceMonthly rolls verdict counts per test kind for a specific month
func aggregateComplianceMonthly(monthStart int64) error {
	return aggregateCompliance(
		"aggregate_compliance_monthly", "month_start",
		monthStart, getMonthEnd(monthStart),
	)
}

func aggregateCompliance(table, startColumn string, start, end int64) error {
	db := testdb.GetDB()

	// Query to count verdicts grouped by test kind. The reduced-confidence
	// flag only exists on blower-door result json; json_extract yields NULL
	// for the other kinds, which counts as 0.
	query := `
		SELECT
			kind,
			SUM(CASE WHEN compliant THEN 1 ELSE 0 END) as pass_count,
			SUM(CASE WHEN compliant THEN 0 ELSE 1 END) as fail_count,
			SUM(CASE WHEN json_extract(result_json, '$.reduced_confidence') THEN 1 ELSE 0 END) as reduced_count
		FROM evaluations
		WHERE recorded_at >= ? AND recorded_at <= ?
		GROUP BY kind
	`

	rows, err := db.Query(query, start, end)
	if err != nil {
		return err
	}
	defer rows.Close()

	type counts struct {
		pass    uint32
		fail    uint32
		reduced uint32
	}
	aggregateData := make(map[string]counts)

	for rows.Next() {
		var kind string
		var c counts
		if err := rows.Scan(&kind, &c.pass, &c.fail, &c.reduced); err != nil {
			return err
		}
		aggregateData[kind] = c
	}
	if err := rows.Err(); err != nil {
		return err
	}

	// Only insert if we have data
	if len(aggregateData) == 0 {
		return nil
	}

	insertQuery := `
		INSERT OR REPLACE INTO ` + table + `
		(` + startColumn + `, kind, pass_count, fail_count, reduced_count)
		VALUES (?, ?, ?, ?, ?)
	`
	for kind, c := range aggregateData {
		if _, err := db.Exec(insertQuery, start, kind, c.pass, c.fail, c.reduced); err != nil {
			return err
		}
	}
	return nil
}

// cleanupOldData removes raw evaluations older than 12 months if we have aggregated them
func cleanupOldData() error {
	db := testdb.GetDB()

	cutoff := time.Now().UTC().AddDate(-1, 0, 0)
	cutoffTimestamp := cutoff.Unix()

	// Check the last daily aggregate to see if we've aggregated recent enough data
	var lastAggregateDay sql.NullInt64
	err := db.QueryRow("SELECT MAX(day_start) FROM aggregate_compliance_daily").Scan(&lastAggregateDay)
	if err != nil {
		return err
	}

	// Only clean up if we have aggregated data up to the cutoff point
	if !lastAggregateDay.Valid || lastAggregateDay.Int64 < cutoffTimestamp {
		return nil
	}

	_, err = db.Exec("DELETE FROM evaluations WHERE recorded_at < ?", cutoffTimestamp)
	if err != nil {
		return err
	}

	log.Printf("Cleaned up evaluations older than %s", cutoff.Format(time.RFC3339))
	return nil
}

// AggregateAndCleanup performs all aggregation and cleanup tasks
// This is the main function to call for data aggregation
func AggregateAndCleanup() error {
	now := time.Now().UTC()

	// Aggregate the previous day and re-roll the current day so partial
	// counts stay fresh for dashboards.
	for _, dayStart := range []int64{
		roundToDayStart(now.AddDate(0, 0, -1)),
		roundToDayStart(now),
	} {
		if err := aggregateComplianceDaily(dayStart); err != nil {
			log.Printf("Error aggregating daily compliance: %v", err)
			return err
		}
	}

	// Aggregate the previous month if it's a new month
	if now.Day() == 1 {
		previousMonth := now.AddDate(0, -1, 0)
		monthStart := roundToMonthStart(previousMonth)

		log.Printf("Aggregating compliance for month starting at %s", time.Unix(monthStart, 0).UTC().Format(time.RFC3339))

		if err := aggregateComplianceMonthly(monthStart); err != nil {
			log.Printf("Error aggregating monthly compliance: %v", err)
			return err
		}
	}

	// Run cleanup
	if err := cleanupOldData(); err != nil {
		log.Printf("Error cleaning up old evaluations: %v", err)
		return err
	}

	log.Println("Aggregation and cleanup completed successfully")
	return nil
}

// AggregateDay is exposed for backfill tooling; it re-rolls one day.
func AggregateDay(t time.Time) error {
	return aggregateComplianceDaily(roundToDayStart(t.UTC()))
}

// AggregateMonth re-rolls one month.
func AggregateMonth(t time.Time) error {
	return aggregateComplianceMonthly(roundToMonthStart(t.UTC()))
}
