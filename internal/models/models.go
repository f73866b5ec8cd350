package models

import (
	"time"
)

type GiftItemStatus string

const (
	GiftItemAvailable GiftItemStatus = "available"
	GiftItemReserved  GiftItemStatus = "reserved"
	GiftItemPurchased GiftItemStatus = "purchased"
)

type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "pending"
	PurchaseConfirmed PurchaseStatus = "confirmed"
)

type PaymentType string

const (
	// PaymentLink claims come with a single-use confirmation token the
	// guest uses after buying through the external product link.
	PaymentLink PaymentType = "link"
	// PaymentPix claims are confirmed manually by the event owner once
	// the transfer shows up.
	PaymentPix PaymentType = "pix"
)

type PixKeyType string

const (
	PixKeyCPF    PixKeyType = "cpf"
	PixKeyCNPJ   PixKeyType = "cnpj"
	PixKeyEmail  PixKeyType = "email"
	PixKeyPhone  PixKeyType = "phone"
	PixKeyRandom PixKeyType = "random"
)

type User struct {
	ID           int       `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

type Event struct {
	ID         string     `json:"id" db:"id"`
	UserID     int        `json:"user_id" db:"user_id"`
	Title      string     `json:"title" db:"title"`
	Slug       string     `json:"slug" db:"slug"`
	EventDate  *time.Time `json:"event_date,omitempty" db:"event_date"`
	PixKey     *string    `json:"pix_key,omitempty" db:"pix_key"`
	PixKeyType *string    `json:"pix_key_type,omitempty" db:"pix_key_type"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
	Items      []GiftItem `json:"items,omitempty"`
}

type EventStats struct {
	TotalItems     int     `json:"total_items"`
	TotalValue     float64 `json:"total_value"`
	PurchasedCount int     `json:"purchased_count"`
	PurchasedValue float64 `json:"purchased_value"`
	AvailableCount int     `json:"available_count"`
}

type EventCategory struct {
	ID        int       `json:"id" db:"id"`
	EventID   string    `json:"event_id" db:"event_id"`
	Name      string    `json:"name" db:"name"`
	SortOrder int       `json:"sort_order" db:"sort_order"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type GiftItem struct {
	ID         string         `json:"id" db:"id"`
	EventID    string         `json:"event_id" db:"event_id"`
	Name       string         `json:"name" db:"name"`
	ProductURL string         `json:"product_url" db:"product_url"`
	ImageURL   *string        `json:"image_url,omitempty" db:"image_url"`
	Price      float64        `json:"price" db:"price"`
	Category   string         `json:"category" db:"category"`
	Status     GiftItemStatus `json:"status" db:"status"`
	SortOrder  int            `json:"sort_order" db:"sort_order"`
	BuyerName  *string        `json:"buyer_name,omitempty" db:"buyer_name"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at" db:"updated_at"`
}

type Purchase struct {
	ID          string         `json:"id" db:"id"`
	GiftItemID  string         `json:"gift_item_id" db:"gift_item_id"`
	BuyerUserID *int           `json:"buyer_user_id,omitempty" db:"buyer_user_id"`
	BuyerName   string         `json:"buyer_name" db:"buyer_name"`
	PaymentType PaymentType    `json:"payment_type" db:"payment_type"`
	Status      PurchaseStatus `json:"status" db:"status"`
	// Amount is the item price snapshotted at claim time. The owner may
	// reprice the item later; the ledger row keeps what the guest saw.
	Amount       float64    `json:"amount" db:"amount"`
	ConfirmToken *string    `json:"-" db:"confirm_token"`
	ConfirmedAt  *time.Time `json:"confirmed_at,omitempty" db:"confirmed_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// PendingPixPurchase is the owner-dashboard projection of an unconfirmed
// pix claim, joined with the item it sits on.
type PendingPixPurchase struct {
	ID         string    `json:"id"`
	GiftItemID string    `json:"gift_item_id"`
	ItemName   string    `json:"item_name"`
	BuyerName  string    `json:"buyer_name"`
	Amount     float64   `json:"amount"`
	CreatedAt  time.Time `json:"created_at"`
}

type Session struct {
	ID        string    `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type CSRFToken struct {
	Token     string    `json:"token" db:"token"`
	UserID    int       `json:"user_id" db:"user_id"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
