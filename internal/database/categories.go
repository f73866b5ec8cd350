package database

import (
	"database/sql"
	"fmt"

	"giftlist/internal/models"
)

func CreateEventCategory(db *sql.DB, eventID, name string, sortOrder int) (*models.EventCategory, error) {
	query := `
		INSERT INTO event_categories (event_id, name, sort_order)
		VALUES (?, ?, ?)
	`

	result, err := db.Exec(query, eventID, name, sortOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get category ID: %w", err)
	}

	category := &models.EventCategory{
		ID:        int(id),
		EventID:   eventID,
		Name:      name,
		SortOrder: sortOrder,
	}

	return category, nil
}

func GetEventCategories(db *sql.DB, eventID string) ([]models.EventCategory, error) {
	query := `
		SELECT id, event_id, name, sort_order, created_at
		FROM event_categories
		WHERE event_id = ?
		ORDER BY sort_order, name
	`

	rows, err := db.Query(query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []models.EventCategory
	for rows.Next() {
		var category models.EventCategory
		err := rows.Scan(
			&category.ID,
			&category.EventID,
			&category.Name,
			&category.SortOrder,
			&category.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

func UpdateEventCategory(db *sql.DB, eventID string, categoryID int, name string, sortOrder int) error {
	query := `
		UPDATE event_categories
		SET name = ?, sort_order = ?
		WHERE id = ? AND event_id = ?
	`

	result, err := db.Exec(query, name, sortOrder, categoryID, eventID)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("category not found")
	}

	return nil
}

func DeleteEventCategory(db *sql.DB, eventID string, categoryID int) error {
	query := `DELETE FROM event_categories WHERE id = ? AND event_id = ?`

	result, err := db.Exec(query, categoryID, eventID)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("category not found")
	}

	return nil
}
