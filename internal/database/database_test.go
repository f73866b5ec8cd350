package database

import (
	"database/sql"
	"testing"
	"time"

	"giftlist/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatal("Failed to open test database:", err)
	}

	// A single connection keeps every query on the same in-memory
	// database, and lets the concurrency tests exercise real contention
	db.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		t.Fatal("Failed to run migrations:", err)
	}

	return db
}

func createTestEvent(t *testing.T, db *sql.DB) (*models.User, *models.Event) {
	user, err := CreateUser(db, "Ana Pedro", "ana@example.com", "password123")
	if err != nil {
		t.Fatal("Failed to create user:", err)
	}

	event, err := CreateEvent(db, user.ID, "Chá de Panela", "cha-de-panela", nil)
	if err != nil {
		t.Fatal("Failed to create event:", err)
	}

	return user, event
}

func createTestItem(t *testing.T, db *sql.DB, eventID, name string, price float64) *models.GiftItem {
	item, err := CreateGiftItem(db, eventID, models.GiftItem{
		Name:       name,
		ProductURL: "https://example.com/" + name,
		Price:      price,
		Category:   "Cozinha",
	})
	if err != nil {
		t.Fatal("Failed to create gift item:", err)
	}
	return item
}

func TestUserCreationAndAuthentication(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	user, err := CreateUser(db, "Ana Pedro", "ana@example.com", "password123")
	if err != nil {
		t.Fatal("Failed to create user:", err)
	}

	if user.Name != "Ana Pedro" {
		t.Errorf("Expected name 'Ana Pedro', got %s", user.Name)
	}

	authUser, err := AuthenticateUser(db, "ana@example.com", "password123")
	if err != nil {
		t.Fatal("Failed to authenticate user:", err)
	}

	if authUser.ID != user.ID {
		t.Errorf("Expected user ID %d, got %d", user.ID, authUser.ID)
	}

	_, err = AuthenticateUser(db, "ana@example.com", "wrongpassword")
	if err == nil {
		t.Error("Expected authentication to fail with wrong password")
	}
}

func TestSessionManagement(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	user, err := CreateUser(db, "Ana Pedro", "ana@example.com", "password123")
	if err != nil {
		t.Fatal("Failed to create user:", err)
	}

	session, err := CreateSession(db, user.ID, time.Hour)
	if err != nil {
		t.Fatal("Failed to create session:", err)
	}

	if len(session.ID) == 0 {
		t.Error("Session ID should not be empty")
	}

	validatedUser, err := ValidateSession(db, session.ID, time.Hour)
	if err != nil {
		t.Fatal("Failed to validate session:", err)
	}

	if validatedUser.ID != user.ID {
		t.Errorf("Expected user ID %d, got %d", user.ID, validatedUser.ID)
	}

	if err := DeleteSession(db, session.ID); err != nil {
		t.Fatal("Failed to delete session:", err)
	}

	_, err = ValidateSession(db, session.ID, time.Hour)
	if err == nil {
		t.Error("Expected validation to fail after session deletion")
	}
}

func TestEventOperations(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	user, event := createTestEvent(t, db)

	found, err := GetEventForUser(db, event.ID, user.ID)
	if err != nil {
		t.Fatal("Failed to get event:", err)
	}
	if found.Title != "Chá de Panela" {
		t.Errorf("Expected title 'Chá de Panela', got %s", found.Title)
	}

	_, err = GetEventForUser(db, event.ID, user.ID+1)
	if err != ErrNotAuthorized {
		t.Errorf("Expected ErrNotAuthorized for a different user, got %v", err)
	}

	_, err = GetEventForUser(db, "missing-id", user.ID)
	if err == nil {
		t.Error("Expected lookup to fail for an unknown event")
	}

	bySlug, err := GetEventBySlug(db, "cha-de-panela")
	if err != nil {
		t.Fatal("Failed to get event by slug:", err)
	}
	if bySlug.ID != event.ID {
		t.Errorf("Expected event ID %s, got %s", event.ID, bySlug.ID)
	}

	if err := UpdateEventPixKey(db, event.ID, user.ID, "11999999999", models.PixKeyPhone); err != nil {
		t.Fatal("Failed to update pix key:", err)
	}

	updated, err := GetEventForUser(db, event.ID, user.ID)
	if err != nil {
		t.Fatal("Failed to reload event:", err)
	}
	if updated.PixKey == nil || *updated.PixKey != "11999999999" {
		t.Error("Expected pix key to be stored")
	}
	if updated.PixKeyType == nil || *updated.PixKeyType != "phone" {
		t.Error("Expected pix key type to be stored")
	}
}

func TestEventCategoryOperations(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, event := createTestEvent(t, db)

	category, err := CreateEventCategory(db, event.ID, "Cozinha", 0)
	if err != nil {
		t.Fatal("Failed to create category:", err)
	}

	_, err = CreateEventCategory(db, event.ID, "Cozinha", 1)
	if err == nil {
		t.Error("Expected duplicate category name to fail")
	}

	if err := UpdateEventCategory(db, event.ID, category.ID, "Mesa Posta", 2); err != nil {
		t.Fatal("Failed to update category:", err)
	}

	categories, err := GetEventCategories(db, event.ID)
	if err != nil {
		t.Fatal("Failed to list categories:", err)
	}
	if len(categories) != 1 || categories[0].Name != "Mesa Posta" {
		t.Errorf("Expected one category named 'Mesa Posta', got %+v", categories)
	}

	if err := DeleteEventCategory(db, event.ID, category.ID); err != nil {
		t.Fatal("Failed to delete category:", err)
	}
}

func TestGiftItemOperations(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, event := createTestEvent(t, db)

	item := createTestItem(t, db, event.ID, "Panela", 129.90)

	if item.Status != models.GiftItemAvailable {
		t.Errorf("Expected new item to be available, got %s", item.Status)
	}

	loaded, err := GetGiftItem(db, item.ID)
	if err != nil {
		t.Fatal("Failed to get gift item:", err)
	}
	if loaded.Price != 129.90 {
		t.Errorf("Expected price 129.90, got %f", loaded.Price)
	}

	_, err = GetGiftItem(db, "missing-id")
	if err != ErrItemNotFound {
		t.Errorf("Expected ErrItemNotFound, got %v", err)
	}

	loaded.Name = "Panela de Pressão"
	loaded.Price = 199.90
	if err := UpdateGiftItem(db, item.ID, event.ID, *loaded); err != nil {
		t.Fatal("Failed to update gift item:", err)
	}

	second := createTestItem(t, db, event.ID, "Vaso", 50.00)

	if err := UpdateGiftItemOrder(db, event.ID, []string{second.ID, item.ID}); err != nil {
		t.Fatal("Failed to reorder items:", err)
	}

	items, err := GetGiftItems(db, event.ID)
	if err != nil {
		t.Fatal("Failed to list items:", err)
	}
	if len(items) != 2 || items[0].ID != second.ID {
		t.Error("Expected reordered items with 'Vaso' first")
	}

	if err := DeleteGiftItem(db, second.ID, event.ID); err != nil {
		t.Fatal("Failed to delete gift item:", err)
	}
}

func TestEventStats(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, event := createTestEvent(t, db)

	createTestItem(t, db, event.ID, "Panela", 100.00)
	item := createTestItem(t, db, event.ID, "Vaso", 50.00)

	purchase, err := ClaimItem(db, item.ID, "Maria", nil, models.PaymentLink)
	if err != nil {
		t.Fatal("Failed to claim item:", err)
	}
	if err := ConfirmPurchaseByToken(db, *purchase.ConfirmToken); err != nil {
		t.Fatal("Failed to confirm purchase:", err)
	}

	stats, err := GetEventStats(db, event.ID)
	if err != nil {
		t.Fatal("Failed to get stats:", err)
	}

	if stats.TotalItems != 2 {
		t.Errorf("Expected 2 items, got %d", stats.TotalItems)
	}
	if stats.TotalValue != 150.00 {
		t.Errorf("Expected total value 150.00, got %f", stats.TotalValue)
	}
	if stats.PurchasedCount != 1 || stats.PurchasedValue != 50.00 {
		t.Errorf("Expected one purchased item worth 50.00, got %d / %f", stats.PurchasedCount, stats.PurchasedValue)
	}
	if stats.AvailableCount != 1 {
		t.Errorf("Expected 1 available item, got %d", stats.AvailableCount)
	}
}
