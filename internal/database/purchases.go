package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"giftlist/internal/models"
	"giftlist/internal/token"

	"github.com/google/uuid"
)

var (
	// ErrItemNotFound means the gift item id did not resolve at all.
	ErrItemNotFound = errors.New("gift item not found")
	// ErrAlreadyClaimed covers both "someone just beat you to it" and
	// "it was taken long ago"; callers cannot tell the two apart and the
	// guest-facing message is the same either way.
	ErrAlreadyClaimed = errors.New("gift item already reserved or purchased")
	// ErrInvalidToken deliberately does not distinguish an unknown token
	// from a consumed one, so the confirmation URL cannot be enumerated.
	ErrInvalidToken = errors.New("confirmation link invalid or already used")
	// ErrPurchaseNotFound means no pending pix purchase matched under the
	// given event.
	ErrPurchaseNotFound = errors.New("purchase not found")
	// ErrBuyerNameRequired rejects claims without a guest name.
	ErrBuyerNameRequired = errors.New("buyer name is required")
)

// ClaimItem reserves an available gift item for a guest and writes the
// pending purchase row in the same transaction. The item price is
// snapshotted into the purchase; repricing the item later does not touch
// existing claims.
//
// The reservation is a conditional update keyed on status = 'available'.
// Under two simultaneous claims exactly one UPDATE reports an affected
// row; the loser gets ErrAlreadyClaimed and its transaction rolls back
// without leaving an orphaned purchase behind.
//
// For link claims the returned purchase carries the confirmation token in
// plaintext. This is the only time the token is handed out.
func ClaimItem(db *sql.DB, itemID, buyerName string, buyerUserID *int, paymentType models.PaymentType) (*models.Purchase, error) {
	buyerName = strings.TrimSpace(buyerName)
	if buyerName == "" {
		return nil, ErrBuyerNameRequired
	}
	if paymentType != models.PaymentLink && paymentType != models.PaymentPix {
		return nil, fmt.Errorf("unknown payment type %q", paymentType)
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var price float64
	err = tx.QueryRow("SELECT price FROM gift_items WHERE id = ?", itemID).Scan(&price)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to query gift item: %w", err)
	}

	result, err := tx.Exec(`
		UPDATE gift_items
		SET status = ?, buyer_name = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = ?
	`, models.GiftItemReserved, buyerName, itemID, models.GiftItemAvailable)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve gift item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check reservation result: %w", err)
	}
	if affected == 0 {
		return nil, ErrAlreadyClaimed
	}

	purchase := &models.Purchase{
		ID:          uuid.New().String(),
		GiftItemID:  itemID,
		BuyerUserID: buyerUserID,
		BuyerName:   buyerName,
		PaymentType: paymentType,
		Status:      models.PurchasePending,
		Amount:      price,
		CreatedAt:   time.Now(),
	}

	if paymentType == models.PaymentLink {
		confirmToken, err := token.New()
		if err != nil {
			return nil, err
		}
		purchase.ConfirmToken = &confirmToken
	}

	_, err = tx.Exec(`
		INSERT INTO purchases (id, gift_item_id, buyer_user_id, buyer_name, payment_type, status, amount, confirm_token)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, purchase.ID, purchase.GiftItemID, purchase.BuyerUserID, purchase.BuyerName,
		purchase.PaymentType, purchase.Status, purchase.Amount, purchase.ConfirmToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create purchase: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit claim: %w", err)
	}

	return purchase, nil
}

// ConfirmPurchaseByToken consumes a confirmation token: the purchase
// moves to confirmed, the token is cleared so the same string can never
// match again, and the item moves from reserved to purchased. All three
// effects commit together or not at all.
func ConfirmPurchaseByToken(db *sql.DB, confirmToken string) error {
	if confirmToken == "" {
		return ErrInvalidToken
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var purchaseID, itemID string
	err = tx.QueryRow(`
		SELECT id, gift_item_id
		FROM purchases
		WHERE confirm_token = ? AND status = ?
	`, confirmToken, models.PurchasePending).Scan(&purchaseID, &itemID)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrInvalidToken
		}
		return fmt.Errorf("failed to query purchase: %w", err)
	}

	result, err := tx.Exec(`
		UPDATE purchases
		SET status = ?, confirmed_at = CURRENT_TIMESTAMP, confirm_token = NULL
		WHERE id = ? AND status = ?
	`, models.PurchaseConfirmed, purchaseID, models.PurchasePending)
	if err != nil {
		return fmt.Errorf("failed to confirm purchase: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check confirmation result: %w", err)
	}
	if affected == 0 {
		return ErrInvalidToken
	}

	// The item must still be sitting in reserved; a token whose item was
	// released by the owner no longer confirms anything.
	result, err = tx.Exec(`
		UPDATE gift_items
		SET status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = ?
	`, models.GiftItemPurchased, itemID, models.GiftItemReserved)
	if err != nil {
		return fmt.Errorf("failed to update gift item: %w", err)
	}
	affected, err = result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check gift item update: %w", err)
	}
	if affected == 0 {
		return ErrInvalidToken
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit confirmation: %w", err)
	}

	return nil
}

// GetPurchaseByToken is the read-only lookup behind the confirmation
// page. It does not consume the token.
func GetPurchaseByToken(db *sql.DB, confirmToken string) (*models.Purchase, error) {
	purchase := &models.Purchase{}
	var buyerUserID sql.NullInt64
	var confirmedAt sql.NullTime

	err := db.QueryRow(`
		SELECT id, gift_item_id, buyer_user_id, buyer_name, payment_type, status, amount, confirmed_at, created_at
		FROM purchases
		WHERE confirm_token = ?
	`, confirmToken).Scan(
		&purchase.ID,
		&purchase.GiftItemID,
		&buyerUserID,
		&purchase.BuyerName,
		&purchase.PaymentType,
		&purchase.Status,
		&purchase.Amount,
		&confirmedAt,
		&purchase.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to query purchase: %w", err)
	}

	if buyerUserID.Valid {
		id := int(buyerUserID.Int64)
		purchase.BuyerUserID = &id
	}
	if confirmedAt.Valid {
		purchase.ConfirmedAt = &confirmedAt.Time
	}

	return purchase, nil
}

// ConfirmPurchaseByOwner lets the event owner confirm a pending pix
// claim from the dashboard. The purchase must belong to an item of the
// given event; checking that the caller owns the event is up to the
// handler. Same conditional-update contract as the token path: racing
// confirmations commit exactly once.
func ConfirmPurchaseByOwner(db *sql.DB, purchaseID, eventID string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var itemID, buyerName string
	err = tx.QueryRow(`
		SELECT p.gift_item_id, p.buyer_name
		FROM purchases p
		INNER JOIN gift_items gi ON p.gift_item_id = gi.id
		WHERE p.id = ? AND gi.event_id = ? AND p.payment_type = ? AND p.status = ?
	`, purchaseID, eventID, models.PaymentPix, models.PurchasePending).Scan(&itemID, &buyerName)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrPurchaseNotFound
		}
		return fmt.Errorf("failed to query purchase: %w", err)
	}

	result, err := tx.Exec(`
		UPDATE purchases
		SET status = ?, confirmed_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = ?
	`, models.PurchaseConfirmed, purchaseID, models.PurchasePending)
	if err != nil {
		return fmt.Errorf("failed to confirm purchase: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check confirmation result: %w", err)
	}
	if affected == 0 {
		return ErrPurchaseNotFound
	}

	result, err = tx.Exec(`
		UPDATE gift_items
		SET status = ?, buyer_name = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = ?
	`, models.GiftItemPurchased, buyerName, itemID, models.GiftItemReserved)
	if err != nil {
		return fmt.Errorf("failed to update gift item: %w", err)
	}
	affected, err = result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check gift item update: %w", err)
	}
	if affected == 0 {
		return ErrPurchaseNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit confirmation: %w", err)
	}

	return nil
}

// ListPendingPixPurchases returns the unconfirmed pix claims sitting on
// the given items, newest first. Item names come joined in so the
// dashboard does not need a second lookup.
func ListPendingPixPurchases(db *sql.DB, itemIDs []string) ([]models.PendingPixPurchase, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(itemIDs))
	placeholders = placeholders[:len(placeholders)-1]

	query := fmt.Sprintf(`
		SELECT p.id, p.gift_item_id, gi.name, p.buyer_name, p.amount, p.created_at
		FROM purchases p
		INNER JOIN gift_items gi ON p.gift_item_id = gi.id
		WHERE p.gift_item_id IN (%s) AND p.payment_type = ? AND p.status = ?
		ORDER BY p.created_at DESC
	`, placeholders)

	args := make([]interface{}, 0, len(itemIDs)+2)
	for _, id := range itemIDs {
		args = append(args, id)
	}
	args = append(args, models.PaymentPix, models.PurchasePending)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending purchases: %w", err)
	}
	defer rows.Close()

	var purchases []models.PendingPixPurchase
	for rows.Next() {
		var p models.PendingPixPurchase
		err := rows.Scan(
			&p.ID,
			&p.GiftItemID,
			&p.ItemName,
			&p.BuyerName,
			&p.Amount,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pending purchase: %w", err)
		}
		purchases = append(purchases, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pending purchases: %w", err)
	}

	return purchases, nil
}

// GetPurchasesForItem returns the full ledger of claim attempts against
// one item, newest first, orphaned rows included.
func GetPurchasesForItem(db *sql.DB, itemID string) ([]models.Purchase, error) {
	rows, err := db.Query(`
		SELECT id, gift_item_id, buyer_user_id, buyer_name, payment_type, status, amount, confirmed_at, created_at
		FROM purchases
		WHERE gift_item_id = ?
		ORDER BY created_at DESC
	`, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchases: %w", err)
	}
	defer rows.Close()

	var purchases []models.Purchase
	for rows.Next() {
		var p models.Purchase
		var buyerUserID sql.NullInt64
		var confirmedAt sql.NullTime

		err := rows.Scan(
			&p.ID,
			&p.GiftItemID,
			&buyerUserID,
			&p.BuyerName,
			&p.PaymentType,
			&p.Status,
			&p.Amount,
			&confirmedAt,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}

		if buyerUserID.Valid {
			id := int(buyerUserID.Int64)
			p.BuyerUserID = &id
		}
		if confirmedAt.Valid {
			p.ConfirmedAt = &confirmedAt.Time
		}

		purchases = append(purchases, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating purchases: %w", err)
	}

	return purchases, nil
}
