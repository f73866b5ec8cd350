package database

import (
	"sync"
	"testing"

	"giftlist/internal/models"
)

func TestClaimItem(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, event := createTestEvent(t, db)
	item := createTestItem(t, db, event.ID, "Panela", 129.90)

	purchase, err := ClaimItem(db, item.ID, "Maria", nil, models.PaymentLink)
	if err != nil {
		t.Fatal("Failed to claim item:", err)
	}

	if purchase.Status != models.PurchasePending {
		t.Errorf("Expected pending purchase, got %s", purchase.Status)
	}
	if purchase.Amount != 129.90 {
		t.Errorf("Expected amount 129.90, got %f", purchase.Amount)
	}
	if purchase.ConfirmToken == nil || *purchase.ConfirmToken == "" {
		t.Error("Expected a confirmation token for a link claim")
	}

	reloaded, err := GetGiftItem(db, item.ID)
	if err != nil {
		t.Fatal("Failed to reload item:", err)
	}
	if reloaded.Status != models.GiftItemReserved {
		t.Errorf("Expected item to be reserved, got %s", reloaded.Status)
	}
	if reloaded.BuyerName == nil || *reloaded.BuyerName != "Maria" {
		t.Error("Expected buyer name 'Maria' on the item")
	}

	// Second claim on the same item loses
	_, err = ClaimItem(db, item.ID, "João", nil, models.PaymentPix)
	if err != ErrAlreadyClaimed {
		t.Errorf("Expected ErrAlreadyClaimed, got %v", err)
	}

	_, err = ClaimItem(db, "missing-id", "Maria", nil, models.PaymentLink)
	if err != ErrItemNotFound {
		t.Errorf("Expected ErrItemNotFound, got %v", err)
	}

	_, err = ClaimItem(db, item.ID, "   ", nil, models.PaymentLink)
	if err != ErrBuyerNameRequired {
		t.Errorf("Expected ErrBuyerNameRequired, got %v", err)
	}
}

func TestClaimItemPixHasNoToken(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, event := createTestEvent(t, db)
	item := createTestItem(t, db, event.ID, "Vaso", 50.00)

	purchase, err := ClaimItem(db, item.ID, "Maria", nil, models.PaymentPix)
	if err != nil {
		t.Fatal("Failed to claim item:", err)
	}
	if purchase.ConfirmToken != nil {
		t.Error("Pix claims must not carry a confirmation token")
	}
}

func TestConcurrentClaimsExactlyOneWins(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, event := createTestEvent(t, db)
	item := createTestItem(t, db, event.ID, "Panela", 129.90)

	const claimers = 8

	var wg sync.WaitGroup
	results := make(chan error, claimers)

	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ClaimItem(db, item.ID, "Maria", nil, models.PaymentLink)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	wins, losses := 0, 0
	for err := range results {
		switch err {
		case nil:
			wins++
		case ErrAlreadyClaimed:
			losses++
		default:
			t.Errorf("Unexpected claim error: %v", err)
		}
	}

	if wins != 1 {
		t.Errorf("Expected exactly one winning claim, got %d", wins)
	}
	if losses != claimers-1 {
		t.Errorf("Expected %d losing claims, got %d", claimers-1, losses)
	}

	reloaded, err := GetGiftItem(db, item.ID)
	if err != nil {
		t.Fatal("Failed to reload item:", err)
	}
	if reloaded.Status != models.GiftItemReserved {
		t.Errorf("Expected item to end reserved, got %s", reloaded.Status)
	}

	// The loser transactions rolled back; only the winner's row exists
	purchases, err := GetPurchasesForItem(db, item.ID)
	if err != nil {
		t.Fatal("Failed to list purchases:", err)
	}
	if len(purchases) != 1 {
		t.Errorf("Expected exactly one purchase row, got %d", len(purchases))
	}
}

func TestConfirmByTokenRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, event := createTestEvent(t, db)
	item := createTestItem(t, db, event.ID, "Vaso", 50.00)

	purchase, err := ClaimItem(db, item.ID, "Maria", nil, models.PaymentLink)
	if err != nil {
		t.Fatal("Failed to claim item:", err)
	}
	confirmToken := *purchase.ConfirmToken

	// Reading the purchase does not consume the token
	pending, err := GetPurchaseByToken(db, confirmToken)
	if err != nil {
		t.Fatal("Failed to look up purchase by token:", err)
	}
	if pending.Status != models.PurchasePending {
		t.Errorf("Expected pending status, got %s", pending.Status)
	}
	if pending.BuyerName != "Maria" {
		t.Errorf("Expected buyer name 'Maria', got %s", pending.BuyerName)
	}

	if err := ConfirmPurchaseByToken(db, confirmToken); err != nil {
		t.Fatal("Failed to confirm purchase:", err)
	}

	// Single use: the same token never confirms twice
	if err := ConfirmPurchaseByToken(db, confirmToken); err != ErrInvalidToken {
		t.Errorf("Expected ErrInvalidToken on reuse, got %v", err)
	}

	reloaded, err := GetGiftItem(db, item.ID)
	if err != nil {
		t.Fatal("Failed to reload item:", err)
	}
	if reloaded.Status != models.GiftItemPurchased {
		t.Errorf("Expected item to be purchased, got %s", reloaded.Status)
	}

	purchases, err := GetPurchasesForItem(db, item.ID)
	if err != nil {
		t.Fatal("Failed to list purchases:", err)
	}
	if len(purchases) != 1 {
		t.Fatalf("Expected one purchase, got %d", len(purchases))
	}
	if purchases[0].Status != models.PurchaseConfirmed {
		t.Errorf("Expected confirmed purchase, got %s", purchases[0].Status)
	}
	if purchases[0].ConfirmedAt == nil {
		t.Error("Expected confirmed_at to be set")
	}
}

func TestConfirmByTokenUnknownToken(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := ConfirmPurchaseByToken(db, "no-such-token"); err != ErrInvalidToken {
		t.Errorf("Expected ErrInvalidToken, got %v", err)
	}
	if err := ConfirmPurchaseByToken(db, ""); err != ErrInvalidToken {
		t.Errorf("Expected ErrInvalidToken for empty token, got %v", err)
	}
}

func TestConcurrentTokenConfirmations(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, event := createTestEvent(t, db)
	item := createTestItem(t, db, event.ID, "Panela", 129.90)

	purchase, err := ClaimItem(db, item.ID, "Maria", nil, models.PaymentLink)
	if err != nil {
		t.Fatal("Failed to claim item:", err)
	}
	confirmToken := *purchase.ConfirmToken

	const attempts = 4

	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- ConfirmPurchaseByToken(db, confirmToken)
		}()
	}
	wg.Wait()
	close(results)

	wins := 0
	for err := range results {
		switch err {
		case nil:
			wins++
		case ErrInvalidToken:
		default:
			t.Errorf("Unexpected confirmation error: %v", err)
		}
	}

	if wins != 1 {
		t.Errorf("Expected exactly one successful confirmation, got %d", wins)
	}

	purchases, err := GetPurchasesForItem(db, item.ID)
	if err != nil {
		t.Fatal("Failed to list purchases:", err)
	}
	if purchases[0].ConfirmedAt == nil {
		t.Error("Expected confirmed_at to be set exactly once")
	}
}

func TestConfirmByOwner(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	user, event := createTestEvent(t, db)
	item := createTestItem(t, db, event.ID, "Jogo de Toalhas", 80.00)

	purchase, err := ClaimItem(db, item.ID, "João", nil, models.PaymentPix)
	if err != nil {
		t.Fatal("Failed to claim item:", err)
	}

	// A different event cannot confirm someone else's purchase
	otherEvent, err := CreateEvent(db, user.ID, "Outro Evento", "outro-evento", nil)
	if err != nil {
		t.Fatal("Failed to create second event:", err)
	}
	if err := ConfirmPurchaseByOwner(db, purchase.ID, otherEvent.ID); err != ErrPurchaseNotFound {
		t.Errorf("Expected ErrPurchaseNotFound for wrong event, got %v", err)
	}

	if err := ConfirmPurchaseByOwner(db, purchase.ID, event.ID); err != nil {
		t.Fatal("Failed to confirm purchase:", err)
	}

	// Confirming twice fails; the record never mutates after confirmed
	if err := ConfirmPurchaseByOwner(db, purchase.ID, event.ID); err != ErrPurchaseNotFound {
		t.Errorf("Expected ErrPurchaseNotFound on second confirm, got %v", err)
	}

	reloaded, err := GetGiftItem(db, item.ID)
	if err != nil {
		t.Fatal("Failed to reload item:", err)
	}
	if reloaded.Status != models.GiftItemPurchased {
		t.Errorf("Expected item to be purchased, got %s", reloaded.Status)
	}
}

func TestConfirmByOwnerRejectsLinkPurchases(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, event := createTestEvent(t, db)
	item := createTestItem(t, db, event.ID, "Vaso", 50.00)

	purchase, err := ClaimItem(db, item.ID, "Maria", nil, models.PaymentLink)
	if err != nil {
		t.Fatal("Failed to claim item:", err)
	}

	if err := ConfirmPurchaseByOwner(db, purchase.ID, event.ID); err != ErrPurchaseNotFound {
		t.Errorf("Expected ErrPurchaseNotFound for a link purchase, got %v", err)
	}
}

func TestAmountSnapshotSurvivesRepricing(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, event := createTestEvent(t, db)
	item := createTestItem(t, db, event.ID, "Panela", 50.00)

	purchase, err := ClaimItem(db, item.ID, "Maria", nil, models.PaymentPix)
	if err != nil {
		t.Fatal("Failed to claim item:", err)
	}

	repriced := *item
	repriced.Price = 70.00
	if err := UpdateGiftItem(db, item.ID, event.ID, repriced); err != nil {
		t.Fatal("Failed to reprice item:", err)
	}

	purchases, err := GetPurchasesForItem(db, item.ID)
	if err != nil {
		t.Fatal("Failed to list purchases:", err)
	}
	if purchases[0].ID != purchase.ID || purchases[0].Amount != 50.00 {
		t.Errorf("Expected ledger amount to stay 50.00, got %f", purchases[0].Amount)
	}
}

func TestReleaseAllowsNewClaimCycle(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, event := createTestEvent(t, db)
	item := createTestItem(t, db, event.ID, "Vaso", 50.00)

	first, err := ClaimItem(db, item.ID, "Maria", nil, models.PaymentLink)
	if err != nil {
		t.Fatal("Failed to claim item:", err)
	}

	if err := ReleaseGiftItem(db, item.ID, event.ID); err != nil {
		t.Fatal("Failed to release item:", err)
	}

	reloaded, err := GetGiftItem(db, item.ID)
	if err != nil {
		t.Fatal("Failed to reload item:", err)
	}
	if reloaded.Status != models.GiftItemAvailable {
		t.Errorf("Expected item to be available again, got %s", reloaded.Status)
	}
	if reloaded.BuyerName != nil {
		t.Error("Expected buyer name to be cleared on release")
	}

	// The abandoned claim's token is dead: its item is no longer reserved
	if err := ConfirmPurchaseByToken(db, *first.ConfirmToken); err != ErrInvalidToken {
		t.Errorf("Expected ErrInvalidToken for an orphaned claim, got %v", err)
	}

	// A fresh claim cycle proceeds normally
	second, err := ClaimItem(db, item.ID, "João", nil, models.PaymentLink)
	if err != nil {
		t.Fatal("Failed to claim released item:", err)
	}
	if err := ConfirmPurchaseByToken(db, *second.ConfirmToken); err != nil {
		t.Fatal("Failed to confirm second claim:", err)
	}
}

func TestListPendingPixPurchases(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, event := createTestEvent(t, db)
	first := createTestItem(t, db, event.ID, "Panela", 129.90)
	second := createTestItem(t, db, event.ID, "Vaso", 50.00)
	third := createTestItem(t, db, event.ID, "Toalha", 30.00)

	older, err := ClaimItem(db, first.ID, "Maria", nil, models.PaymentPix)
	if err != nil {
		t.Fatal("Failed to claim first item:", err)
	}
	newer, err := ClaimItem(db, second.ID, "João", nil, models.PaymentPix)
	if err != nil {
		t.Fatal("Failed to claim second item:", err)
	}
	// Link claims never show up in the pix queue
	if _, err := ClaimItem(db, third.ID, "Paula", nil, models.PaymentLink); err != nil {
		t.Fatal("Failed to claim third item:", err)
	}

	// Spread the rows apart; CURRENT_TIMESTAMP only has second precision
	if _, err := db.Exec(`UPDATE purchases SET created_at = datetime('now', '-1 hour') WHERE id = ?`, older.ID); err != nil {
		t.Fatal("Failed to backdate purchase:", err)
	}

	pending, err := ListPendingPixPurchases(db, []string{first.ID, second.ID, third.ID})
	if err != nil {
		t.Fatal("Failed to list pending purchases:", err)
	}

	if len(pending) != 2 {
		t.Fatalf("Expected 2 pending pix purchases, got %d", len(pending))
	}
	if pending[0].ID != newer.ID || pending[1].ID != older.ID {
		t.Error("Expected most recent purchase first")
	}
	if pending[0].ItemName != "Vaso" {
		t.Errorf("Expected joined item name 'Vaso', got %s", pending[0].ItemName)
	}

	// Confirmed purchases drop out of the queue
	if err := ConfirmPurchaseByOwner(db, newer.ID, event.ID); err != nil {
		t.Fatal("Failed to confirm purchase:", err)
	}
	pending, err = ListPendingPixPurchases(db, []string{first.ID, second.ID, third.ID})
	if err != nil {
		t.Fatal("Failed to list pending purchases:", err)
	}
	if len(pending) != 1 || pending[0].ID != older.ID {
		t.Error("Expected only the unconfirmed purchase to remain")
	}

	empty, err := ListPendingPixPurchases(db, nil)
	if err != nil {
		t.Fatal("Failed on empty item list:", err)
	}
	if len(empty) != 0 {
		t.Error("Expected no purchases for empty item list")
	}
}
