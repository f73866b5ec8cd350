package database

import (
	"database/sql"
	"errors"
	"fmt"

	"giftlist/internal/models"

	"github.com/google/uuid"
)

func CreateGiftItem(db *sql.DB, eventID string, item models.GiftItem) (*models.GiftItem, error) {
	item.ID = uuid.New().String()
	item.EventID = eventID
	item.Status = models.GiftItemAvailable

	query := `
		INSERT INTO gift_items (id, event_id, name, product_url, image_url, price, category, status, sort_order)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, item.ID, item.EventID, item.Name, item.ProductURL,
		item.ImageURL, item.Price, item.Category, item.Status, item.SortOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to create gift item: %w", err)
	}

	return &item, nil
}

func GetGiftItems(db *sql.DB, eventID string) ([]models.GiftItem, error) {
	query := `
		SELECT id, event_id, name, product_url, image_url, price, category, status, sort_order, buyer_name, created_at, updated_at
		FROM gift_items
		WHERE event_id = ?
		ORDER BY sort_order, created_at
	`

	rows, err := db.Query(query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query gift items: %w", err)
	}
	defer rows.Close()

	var items []models.GiftItem
	for rows.Next() {
		item, err := scanGiftItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating gift items: %w", err)
	}

	return items, nil
}

func GetGiftItem(db *sql.DB, itemID string) (*models.GiftItem, error) {
	query := `
		SELECT id, event_id, name, product_url, image_url, price, category, status, sort_order, buyer_name, created_at, updated_at
		FROM gift_items
		WHERE id = ?
	`

	item, err := scanGiftItem(db.QueryRow(query, itemID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	return item, nil
}

// UpdateGiftItem changes the owner-editable fields. Status and buyer
// name are off limits here; those only move through the claim and
// confirmation paths. Repricing does not touch existing purchases, the
// ledger keeps the amount from claim time.
func UpdateGiftItem(db *sql.DB, itemID, eventID string, item models.GiftItem) error {
	query := `
		UPDATE gift_items
		SET name = ?, product_url = ?, image_url = ?, price = ?, category = ?, sort_order = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND event_id = ?
	`

	result, err := db.Exec(query, item.Name, item.ProductURL, item.ImageURL,
		item.Price, item.Category, item.SortOrder, itemID, eventID)
	if err != nil {
		return fmt.Errorf("failed to update gift item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return ErrItemNotFound
	}

	return nil
}

// ReleaseGiftItem is the owner override that puts a reserved item back
// on the list. The buyer name clears with it. The pending purchase row,
// if any, stays behind as an orphan and never confirms, because a
// confirmation requires the item to still be reserved.
func ReleaseGiftItem(db *sql.DB, itemID, eventID string) error {
	query := `
		UPDATE gift_items
		SET status = ?, buyer_name = NULL, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND event_id = ? AND status = ?
	`

	result, err := db.Exec(query, models.GiftItemAvailable, itemID, eventID, models.GiftItemReserved)
	if err != nil {
		return fmt.Errorf("failed to release gift item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check release result: %w", err)
	}
	if affected == 0 {
		return ErrItemNotFound
	}

	return nil
}

// DeleteGiftItem removes an item that nobody has claimed. Items with a
// pending or confirmed purchase refuse deletion so the ledger never
// points at a missing item.
func DeleteGiftItem(db *sql.DB, itemID, eventID string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	err = tx.QueryRow(`
		SELECT COUNT(*) FROM purchases
		WHERE gift_item_id = ? AND status IN (?, ?)
	`, itemID, models.PurchasePending, models.PurchaseConfirmed).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check purchases: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("gift item has purchases and cannot be deleted")
	}

	result, err := tx.Exec(`DELETE FROM gift_items WHERE id = ? AND event_id = ?`, itemID, eventID)
	if err != nil {
		return fmt.Errorf("failed to delete gift item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return ErrItemNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}

	return nil
}

func UpdateGiftItemOrder(db *sql.DB, eventID string, itemIDs []string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i, itemID := range itemIDs {
		_, err := tx.Exec(`
			UPDATE gift_items
			SET sort_order = ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ? AND event_id = ?
		`, i, itemID, eventID)
		if err != nil {
			return fmt.Errorf("failed to update item order: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order update: %w", err)
	}

	return nil
}

func scanGiftItem(row rowScanner) (*models.GiftItem, error) {
	item := &models.GiftItem{}
	var imageURL, buyerName sql.NullString

	err := row.Scan(
		&item.ID,
		&item.EventID,
		&item.Name,
		&item.ProductURL,
		&imageURL,
		&item.Price,
		&item.Category,
		&item.Status,
		&item.SortOrder,
		&buyerName,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan gift item: %w", err)
	}

	if imageURL.Valid {
		item.ImageURL = &imageURL.String
	}
	if buyerName.Valid {
		item.BuyerName = &buyerName.String
	}

	return item, nil
}
