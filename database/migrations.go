package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"
)

const migrationsTableName = "schema_migrations"

// migrate применяет все миграции схемы по порядку
func (db *DB) migrate() error {
	migrations := []struct {
		name string
		fn   func(*sql.DB) error
	}{
		{"001_standards_library", createStandardsLibrary},
		{"002_requirements_library", createRequirementsLibrary},
		{"003_taxonomy_tables", createTaxonomyTables},
		{"004_consolidation_runs", createConsolidationRuns},
	}

	for _, m := range migrations {
		if err := ensureMigrationApplied(db.conn, m.name, m.fn); err != nil {
			return fmt.Errorf("migration %s failed: %w", m.name, err)
		}
	}
	return nil
}

// createStandardsLibrary таблица фреймворков (стандартов и регламентов)
func createStandardsLibrary(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS standards_library (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			version TEXT NOT NULL DEFAULT '',
			tiered INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}

// createRequirementsLibrary таблица атомарных требований фреймворков.
// Имена столбцов повторяют схему исходной системы: control_id, title, description.
func createRequirementsLibrary(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS requirements_library (
			id TEXT PRIMARY KEY,
			standard_id TEXT NOT NULL REFERENCES standards_library(id),
			control_id TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			raw_text TEXT NOT NULL DEFAULT '',
			tier TEXT NOT NULL DEFAULT '',
			sectors TEXT NOT NULL DEFAULT '',
			not_applicable INTEGER NOT NULL DEFAULT 0,
			justification TEXT NOT NULL DEFAULT '',
			position INTEGER NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		return err
	}
	_, err = conn.Exec(`
		CREATE INDEX IF NOT EXISTS idx_requirements_standard
		ON requirements_library(standard_id, position)
	`)
	return err
}

// createTaxonomyTables таблицы канонических категорий и шаблонов подразделов
func createTaxonomyTables(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS canonical_categories (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			position INTEGER NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		return err
	}
	_, err = conn.Exec(`
		CREATE TABLE IF NOT EXISTS subsection_templates (
			category_id TEXT NOT NULL REFERENCES canonical_categories(id),
			letter TEXT NOT NULL,
			heading_text TEXT NOT NULL,
			topic TEXT NOT NULL,
			keywords TEXT NOT NULL DEFAULT '',
			priority_rank INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (category_id, letter)
		)
	`)
	return err
}

// createConsolidationRuns журнал завершенных запусков консолидации
func createConsolidationRuns(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS consolidation_runs (
			fingerprint TEXT NOT NULL,
			organization_id TEXT NOT NULL,
			framework_ids TEXT NOT NULL,
			tier TEXT NOT NULL DEFAULT '',
			sector TEXT NOT NULL DEFAULT '',
			total_original INTEGER NOT NULL DEFAULT 0,
			total_unified INTEGER NOT NULL DEFAULT 0,
			reduction_ratio REAL NOT NULL DEFAULT 0,
			overall_score REAL NOT NULL DEFAULT 0,
			valid INTEGER NOT NULL DEFAULT 0,
			partial_frameworks TEXT NOT NULL DEFAULT '',
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}

// ensureMigrationTable создает таблицу schema_migrations при необходимости
func ensureMigrationTable(conn *sql.DB) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			name TEXT PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`, migrationsTableName)

	if _, err := conn.Exec(query); err != nil {
		return fmt.Errorf("failed to ensure schema_migrations table: %w", err)
	}
	return nil
}

// isMigrationApplied проверяет, была ли уже применена миграция
func isMigrationApplied(conn *sql.DB, name string) (bool, error) {
	if err := ensureMigrationTable(conn); err != nil {
		return false, err
	}

	var appliedAt sql.NullTime
	query := fmt.Sprintf(`SELECT applied_at FROM %s WHERE name = ?`, migrationsTableName)
	err := conn.QueryRow(query, name).Scan(&appliedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to check migration %s: %w", name, err)
	}

	return appliedAt.Valid, nil
}

// markMigrationApplied сохраняет информацию о примененной миграции
func markMigrationApplied(conn *sql.DB, name string) error {
	if err := ensureMigrationTable(conn); err != nil {
		return err
	}

	query := fmt.Sprintf(`INSERT OR REPLACE INTO %s(name, applied_at) VALUES(?, ?)`, migrationsTableName)
	if _, err := conn.Exec(query, name, time.Now()); err != nil {
		return fmt.Errorf("failed to mark migration %s as applied: %w", name, err)
	}
	return nil
}

// ensureMigrationApplied выполняет миграцию только один раз
func ensureMigrationApplied(conn *sql.DB, name string, migration func(*sql.DB) error) error {
	applied, err := isMigrationApplied(conn, name)
	if err != nil {
		return err
	}
	if applied {
		return nil
	}

	if err := migration(conn); err != nil {
		return err
	}

	if err := markMigrationApplied(conn, name); err != nil {
		return err
	}

	log.Printf("[Migrations] %s applied successfully", name)
	return nil
}
