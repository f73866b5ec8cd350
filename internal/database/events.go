package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"giftlist/internal/models"

	"github.com/google/uuid"
)

// ErrNotAuthorized means the event exists but belongs to another user.
var ErrNotAuthorized = errors.New("not authorized for this event")

func CreateEvent(db *sql.DB, userID int, title, slug string, eventDate *time.Time) (*models.Event, error) {
	eventID := uuid.New().String()

	query := `
		INSERT INTO events (id, user_id, title, slug, event_date)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, eventID, userID, title, slug, eventDate)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	event := &models.Event{
		ID:        eventID,
		UserID:    userID,
		Title:     title,
		Slug:      slug,
		EventDate: eventDate,
	}

	return event, nil
}

func GetEvents(db *sql.DB, userID int) ([]models.Event, error) {
	query := `
		SELECT id, user_id, title, slug, event_date, pix_key, pix_key_type, created_at, updated_at
		FROM events
		WHERE user_id = ?
		ORDER BY created_at DESC
	`

	rows, err := db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

// GetEventForUser resolves an event only when the given user owns it.
// Owner-facing operations go through this so a forged event id cannot
// touch someone else's list.
func GetEventForUser(db *sql.DB, eventID string, userID int) (*models.Event, error) {
	query := `
		SELECT id, user_id, title, slug, event_date, pix_key, pix_key_type, created_at, updated_at
		FROM events
		WHERE id = ?
	`
	event, err := scanEventRow(db.QueryRow(query, eventID))
	if err != nil {
		return nil, err
	}
	if event.UserID != userID {
		return nil, ErrNotAuthorized
	}
	return event, nil
}

// GetEventBySlug is the public lookup behind the guest-facing list page.
func GetEventBySlug(db *sql.DB, slug string) (*models.Event, error) {
	query := `
		SELECT id, user_id, title, slug, event_date, pix_key, pix_key_type, created_at, updated_at
		FROM events
		WHERE slug = ?
	`
	return scanEventRow(db.QueryRow(query, slug))
}

func UpdateEvent(db *sql.DB, eventID string, userID int, title, slug string, eventDate *time.Time) error {
	query := `
		UPDATE events
		SET title = ?, slug = ?, event_date = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ?
	`

	result, err := db.Exec(query, title, slug, eventDate, eventID, userID)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("event not found")
	}

	return nil
}

// UpdateEventPixKey stores the receiving PIX key used to build payment
// payloads for this event's items. An empty key clears the setting.
func UpdateEventPixKey(db *sql.DB, eventID string, userID int, pixKey string, keyType models.PixKeyType) error {
	var key, kt interface{}
	if pixKey != "" {
		key = pixKey
		kt = string(keyType)
	}

	query := `
		UPDATE events
		SET pix_key = ?, pix_key_type = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ?
	`

	result, err := db.Exec(query, key, kt, eventID, userID)
	if err != nil {
		return fmt.Errorf("failed to update pix key: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("event not found")
	}

	return nil
}

func DeleteEvent(db *sql.DB, eventID string, userID int) error {
	query := `DELETE FROM events WHERE id = ? AND user_id = ?`

	result, err := db.Exec(query, eventID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("event not found")
	}

	return nil
}

// GetEventStats aggregates the dashboard numbers for one event.
func GetEventStats(db *sql.DB, eventID string) (*models.EventStats, error) {
	stats := &models.EventStats{}
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(price), 0),
			COALESCE(SUM(CASE WHEN status = 'purchased' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'purchased' THEN price ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'available' THEN 1 ELSE 0 END), 0)
		FROM gift_items
		WHERE event_id = ?
	`

	err := db.QueryRow(query, eventID).Scan(
		&stats.TotalItems,
		&stats.TotalValue,
		&stats.PurchasedCount,
		&stats.PurchasedValue,
		&stats.AvailableCount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query event stats: %w", err)
	}

	return stats, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(row rowScanner) (*models.Event, error) {
	event := &models.Event{}
	var eventDate sql.NullTime
	var pixKey, pixKeyType sql.NullString

	err := row.Scan(
		&event.ID,
		&event.UserID,
		&event.Title,
		&event.Slug,
		&eventDate,
		&pixKey,
		&pixKeyType,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan event: %w", err)
	}

	if eventDate.Valid {
		event.EventDate = &eventDate.Time
	}
	if pixKey.Valid {
		event.PixKey = &pixKey.String
	}
	if pixKeyType.Valid {
		event.PixKeyType = &pixKeyType.String
	}

	return event, nil
}

func scanEventRow(row *sql.Row) (*models.Event, error) {
	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("event not found")
		}
		return nil, err
	}
	return event, nil
}
