package testdb

import "database/sql"

func InsertEvaluation(record *EvaluationRecord) error {
	db := GetDB()

	_, err := db.Exec(
		"INSERT OR REPLACE INTO evaluations (id, kind, recorded_at, test_json, result_json, compliant) "+
			"VALUES (?, ?, ?, ?, ?, ?)",
		record.ID,
		record.Kind,
		record.RecordedAt,
		record.TestJson,
		record.ResultJson,
		record.Compliant,
	)
	if err != nil {
		return err
	}
	return nil
}

func GetEvaluation(id string) (*EvaluationRecord, error) {
	db := GetDB()

	var record EvaluationRecord
	err := db.QueryRow(
		"SELECT id, kind, recorded_at, test_json, result_json, compliant "+
			"FROM evaluations WHERE id = ?",
		id,
	).Scan(
		&record.ID,
		&record.Kind,
		&record.RecordedAt,
		&record.TestJson,
		&record.ResultJson,
		&record.Compliant,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func ListEvaluationsBetween(startUnix, endUnix int64) ([]EvaluationRecord, error) {
	db := GetDB()

	rows, err := db.Query(
		"SELECT id, kind, recorded_at, test_json, result_json, compliant "+
			"FROM evaluations WHERE recorded_at >= ? AND recorded_at <= ? "+
			"ORDER BY recorded_at",
		startUnix, endUnix,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []EvaluationRecord
	for rows.Next() {
		var record EvaluationRecord
		if err := rows.Scan(
			&record.ID,
			&record.Kind,
			&record.RecordedAt,
			&record.TestJson,
			&record.ResultJson,
			&record.Compliant,
		); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
