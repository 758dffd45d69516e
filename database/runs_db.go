package database

import (
	"fmt"
	"strings"
	"time"
)

// RunRecord запись журнала о завершенном запуске консолидации
type RunRecord struct {
	Fingerprint       string    `json:"fingerprint"`
	OrganizationID    string    `json:"organization_id"`
	FrameworkIDs      []string  `json:"framework_ids"`
	Tier              string    `json:"tier,omitempty"`
	Sector            string    `json:"sector,omitempty"`
	TotalOriginal     int       `json:"total_original"`
	TotalUnified      int       `json:"total_unified"`
	ReductionRatio    float64   `json:"reduction_ratio"`
	OverallScore      float64   `json:"overall_score"`
	Valid             bool      `json:"valid"`
	PartialFrameworks []string  `json:"partial_frameworks,omitempty"`
	DurationMs        int64     `json:"duration_ms"`
	CreatedAt         time.Time `json:"created_at"`
}

// RecordRun сохраняет запись о завершенном запуске консолидации
func (db *DB) RecordRun(record RunRecord) error {
	valid := 0
	if record.Valid {
		valid = 1
	}
	_, err := db.conn.Exec(`
		INSERT INTO consolidation_runs
			(fingerprint, organization_id, framework_ids, tier, sector,
			 total_original, total_unified, reduction_ratio, overall_score,
			 valid, partial_frameworks, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, record.Fingerprint, record.OrganizationID, strings.Join(record.FrameworkIDs, ","),
		record.Tier, record.Sector, record.TotalOriginal, record.TotalUnified,
		record.ReductionRatio, record.OverallScore, valid,
		strings.Join(record.PartialFrameworks, ","), record.DurationMs)
	if err != nil {
		return fmt.Errorf("failed to record consolidation run: %w", err)
	}
	return nil
}

// GetRecentRuns возвращает последние запуски организации
func (db *DB) GetRecentRuns(organizationID string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT fingerprint, organization_id, framework_ids, tier, sector,
		       total_original, total_unified, reduction_ratio, overall_score,
		       valid, partial_frameworks, duration_ms, created_at
		FROM consolidation_runs
		WHERE organization_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, organizationID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query consolidation_runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var record RunRecord
		var frameworkIDs, partialFrameworks string
		var valid int
		if err := rows.Scan(&record.Fingerprint, &record.OrganizationID, &frameworkIDs,
			&record.Tier, &record.Sector, &record.TotalOriginal, &record.TotalUnified,
			&record.ReductionRatio, &record.OverallScore, &valid,
			&partialFrameworks, &record.DurationMs, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run record: %w", err)
		}
		record.Valid = valid != 0
		if frameworkIDs != "" {
			record.FrameworkIDs = strings.Split(frameworkIDs, ",")
		}
		if partialFrameworks != "" {
			record.PartialFrameworks = strings.Split(partialFrameworks, ",")
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
