package database

import (
	"context"
	"fmt"
	"strings"

	"complianceserver/taxonomy"
)

// GetCategories возвращает канонические категории с шаблонами подразделов.
// Реализует taxonomy.Provider поверх таблиц canonical_categories и
// subsection_templates.
func (db *DB) GetCategories(ctx context.Context) ([]taxonomy.CanonicalCategory, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, name FROM canonical_categories ORDER BY position, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query canonical_categories: %w", err)
	}
	defer rows.Close()

	var categories []taxonomy.CanonicalCategory
	for rows.Next() {
		var category taxonomy.CanonicalCategory
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range categories {
		subsections, err := db.getSubsections(ctx, categories[i].ID)
		if err != nil {
			return nil, err
		}
		categories[i].Subsections = subsections
	}
	return categories, nil
}

func (db *DB) getSubsections(ctx context.Context, categoryID string) ([]taxonomy.SubsectionTemplate, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT category_id, letter, heading_text, topic, keywords, priority_rank
		FROM subsection_templates
		WHERE category_id = ?
		ORDER BY letter
	`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query subsection_templates for %s: %w", categoryID, err)
	}
	defer rows.Close()

	var subsections []taxonomy.SubsectionTemplate
	for rows.Next() {
		var sub taxonomy.SubsectionTemplate
		var keywords string
		if err := rows.Scan(&sub.CategoryID, &sub.Letter, &sub.HeadingText, &sub.Topic, &keywords, &sub.PriorityRank); err != nil {
			return nil, fmt.Errorf("failed to scan subsection row: %w", err)
		}
		if keywords != "" {
			sub.Keywords = strings.Split(keywords, "|")
		}
		subsections = append(subsections, sub)
	}
	return subsections, rows.Err()
}

// SaveCategories сохраняет набор категорий, замещая существующие шаблоны
func (db *DB) SaveCategories(categories []taxonomy.CanonicalCategory) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin taxonomy transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM subsection_templates`); err != nil {
		return fmt.Errorf("failed to clear subsection_templates: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM canonical_categories`); err != nil {
		return fmt.Errorf("failed to clear canonical_categories: %w", err)
	}

	for position, category := range categories {
		if _, err := tx.Exec(`
			INSERT INTO canonical_categories(id, name, position) VALUES (?, ?, ?)
		`, category.ID, category.Name, position); err != nil {
			return fmt.Errorf("failed to insert category %s: %w", category.ID, err)
		}
		for _, sub := range category.Subsections {
			if _, err := tx.Exec(`
				INSERT INTO subsection_templates(category_id, letter, heading_text, topic, keywords, priority_rank)
				VALUES (?, ?, ?, ?, ?, ?)
			`, category.ID, sub.Letter, sub.HeadingText, sub.Topic, strings.Join(sub.Keywords, "|"), sub.PriorityRank); err != nil {
				return fmt.Errorf("failed to insert subsection %s/%s: %w", category.ID, sub.Letter, err)
			}
		}
	}

	return tx.Commit()
}
