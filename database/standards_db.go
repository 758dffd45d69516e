package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"complianceserver/frameworks"
)

// GetFrameworks возвращает фреймворки из standards_library в порядке добавления
func (db *DB) GetFrameworks(ctx context.Context) ([]frameworks.Framework, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, name, version, tiered
		FROM standards_library
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query standards_library: %w", err)
	}
	defer rows.Close()

	var result []frameworks.Framework
	for rows.Next() {
		var fw frameworks.Framework
		var tiered int
		if err := rows.Scan(&fw.ID, &fw.Name, &fw.Version, &tiered); err != nil {
			return nil, fmt.Errorf("failed to scan framework row: %w", err)
		}
		fw.Tiered = tiered != 0
		result = append(result, fw)
	}
	return result, rows.Err()
}

// GetRequirements возвращает требования фреймворка в порядке позиций.
// Реализует frameworks.Provider поверх requirements_library.
func (db *DB) GetRequirements(ctx context.Context, frameworkID string) ([]frameworks.FrameworkRequirement, error) {
	var frameworkName string
	err := db.conn.QueryRowContext(ctx,
		`SELECT name || CASE WHEN version != '' THEN ' ' || version ELSE '' END
		 FROM standards_library WHERE id = ?`, frameworkID).Scan(&frameworkName)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("framework %s not found in standards_library", frameworkID)
		}
		return nil, fmt.Errorf("failed to resolve framework %s: %w", frameworkID, err)
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, control_id, title, description, raw_text, tier, sectors, not_applicable, justification
		FROM requirements_library
		WHERE standard_id = ?
		ORDER BY position, control_id
	`, frameworkID)
	if err != nil {
		return nil, fmt.Errorf("failed to query requirements for %s: %w", frameworkID, err)
	}
	defer rows.Close()

	var result []frameworks.FrameworkRequirement
	for rows.Next() {
		var req frameworks.FrameworkRequirement
		var sectors string
		var notApplicable int
		if err := rows.Scan(&req.ID, &req.Code, &req.Title, &req.Description, &req.RawText,
			&req.Tier, &sectors, &notApplicable, &req.Justification); err != nil {
			return nil, fmt.Errorf("failed to scan requirement row: %w", err)
		}
		req.FrameworkID = frameworkID
		req.FrameworkName = frameworkName
		req.NotApplicable = notApplicable != 0
		if sectors != "" {
			req.Sectors = strings.Split(sectors, ",")
		}
		result = append(result, req)
	}
	return result, rows.Err()
}

// InsertFramework добавляет или обновляет фреймворк
func (db *DB) InsertFramework(fw frameworks.Framework) error {
	tiered := 0
	if fw.Tiered {
		tiered = 1
	}
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO standards_library(id, name, version, tiered)
		VALUES (?, ?, ?, ?)
	`, fw.ID, fw.Name, fw.Version, tiered)
	if err != nil {
		return fmt.Errorf("failed to insert framework %s: %w", fw.ID, err)
	}
	return nil
}

// InsertRequirement добавляет требование фреймворка с позицией в исходном порядке
func (db *DB) InsertRequirement(req frameworks.FrameworkRequirement, position int) error {
	notApplicable := 0
	if req.NotApplicable {
		notApplicable = 1
	}
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO requirements_library
			(id, standard_id, control_id, title, description, raw_text, tier, sectors, not_applicable, justification, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, req.ID, req.FrameworkID, req.Code, req.Title, req.Description, req.RawText,
		req.Tier, strings.Join(req.Sectors, ","), notApplicable, req.Justification, position)
	if err != nil {
		return fmt.Errorf("failed to insert requirement %s: %w", req.ID, err)
	}
	return nil
}

// CountRequirements возвращает число требований фреймворка
func (db *DB) CountRequirements(frameworkID string) (int, error) {
	var count int
	err := db.conn.QueryRow(
		`SELECT COUNT(*) FROM requirements_library WHERE standard_id = ?`, frameworkID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count requirements for %s: %w", frameworkID, err)
	}
	return count, nil
}
