package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"giftlist/internal/config"
	"giftlist/internal/database"
	emailService "giftlist/internal/email"
	"giftlist/internal/logger"
	"giftlist/internal/models"
	"giftlist/internal/pix"

	"github.com/gin-gonic/gin"
)

// handleClaimItem is the guest reservation action. Exactly one of any
// number of simultaneous claims wins; the rest see the same "already
// taken" message whether they lost the race or arrived late.
func handleClaimItem(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	cfg := c.MustGet("config").(*config.Config)

	item, ok := resolveListItem(c, db)
	if !ok {
		return
	}

	buyerName := strings.TrimSpace(c.PostForm("buyer_name"))
	paymentType := models.PaymentType(c.PostForm("payment_type"))

	if buyerName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please tell us your name"})
		return
	}
	if paymentType != models.PaymentLink && paymentType != models.PaymentPix {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment type"})
		return
	}

	var buyerUserID *int
	if userID, exists := c.Get("user_id"); exists {
		id := userID.(int)
		buyerUserID = &id
	}

	purchase, err := database.ClaimItem(db, item.ID, buyerName, buyerUserID, paymentType)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrAlreadyClaimed):
			c.JSON(http.StatusConflict, gin.H{"error": "This gift has already been reserved or purchased"})
		case errors.Is(err, database.ErrItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Gift item not found"})
		case errors.Is(err, database.ErrBuyerNameRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please tell us your name"})
		default:
			logger.Error("Failed to claim item", "item_id", item.ID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reserve the gift. Please try again."})
		}
		return
	}

	notifyOwnerOfClaim(c, db, item, purchase)

	response := gin.H{"purchase_id": purchase.ID}
	if purchase.ConfirmToken != nil {
		// The only moment the token leaves the system in plaintext
		response["confirm_token"] = *purchase.ConfirmToken
		response["confirm_url"] = fmt.Sprintf("%s/confirmar-compra/%s", cfg.BaseURL, *purchase.ConfirmToken)
	}

	logger.Info("Gift item claimed",
		"item_id", item.ID,
		"purchase_id", purchase.ID,
		"payment_type", paymentType)
	c.JSON(http.StatusCreated, response)
}

// handleConfirmationDetails backs the pre-confirmation page. It looks
// the purchase up without consuming the token.
func handleConfirmationDetails(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	confirmToken := c.Param("token")

	purchase, err := database.GetPurchaseByToken(db, confirmToken)
	if err != nil || purchase.Status != models.PurchasePending {
		c.JSON(http.StatusNotFound, gin.H{"error": "Confirmation link invalid or already confirmed"})
		return
	}

	item, err := database.GetGiftItem(db, purchase.GiftItemID)
	if err != nil {
		logger.Error("Failed to load item for confirmation", "purchase_id", purchase.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load purchase"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"item_name":  item.Name,
		"amount":     purchase.Amount,
		"buyer_name": purchase.BuyerName,
		"status":     purchase.Status,
	})
}

func handleConfirmByToken(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	confirmToken := c.Param("token")

	if err := database.ConfirmPurchaseByToken(db, confirmToken); err != nil {
		if errors.Is(err, database.ErrInvalidToken) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Confirmation link invalid or already confirmed"})
			return
		}
		logger.Error("Failed to confirm purchase", "token", confirmToken, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm purchase. Please try again."})
		return
	}

	logger.Info("Purchase confirmed by token", "token", confirmToken)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func handleListPendingPurchases(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	userID := c.MustGet("user_id").(int)
	eventID := c.Param("id")

	event, err := database.GetEventForUser(db, eventID, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	items, err := database.GetGiftItems(db, event.ID)
	if err != nil {
		logger.Error("Failed to load gift items", "event_id", event.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load purchases"})
		return
	}

	itemIDs := make([]string, len(items))
	for i, item := range items {
		itemIDs[i] = item.ID
	}

	pending, err := database.ListPendingPixPurchases(db, itemIDs)
	if err != nil {
		logger.Error("Failed to load pending purchases", "event_id", event.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load purchases"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"pending_pix_purchases": pending})
}

// handleConfirmByOwner marks a pending PIX claim as paid from the
// dashboard. Ownership of the event is checked here; the conditional
// update below guards against a token confirmation racing in between.
func handleConfirmByOwner(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	userID := c.MustGet("user_id").(int)
	eventID := c.Param("id")
	purchaseID := c.Param("purchase_id")

	if _, err := database.GetEventForUser(db, eventID, userID); err != nil {
		if errors.Is(err, database.ErrNotAuthorized) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	if err := database.ConfirmPurchaseByOwner(db, purchaseID, eventID); err != nil {
		if errors.Is(err, database.ErrPurchaseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pending purchase not found"})
			return
		}
		logger.Error("Failed to confirm purchase", "purchase_id", purchaseID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm purchase. Please try again."})
		return
	}

	logger.Info("Purchase confirmed by owner", "purchase_id", purchaseID, "event_id", eventID)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// handlePixPayload returns the copy-and-paste BR Code for one gift.
// The receiver is the event owner; the amount is the item's current
// price tag.
func handlePixPayload(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	item, ok := resolveListItem(c, db)
	if !ok {
		return
	}

	event, err := database.GetEventBySlug(db, c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "List not found"})
		return
	}

	if event.PixKey == nil || *event.PixKey == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "This list does not accept PIX payments"})
		return
	}

	owner, err := database.GetUserByID(db, event.UserID)
	if err != nil {
		logger.Error("Failed to load event owner", "event_id", event.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build payment code"})
		return
	}

	payload, err := pix.BuildPayload(*event.PixKey, owner.Name, item.Price, item.Name)
	if err != nil {
		switch {
		case errors.Is(err, pix.ErrMissingKey):
			c.JSON(http.StatusNotFound, gin.H{"error": "This list does not accept PIX payments"})
		case errors.Is(err, pix.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": "This gift has no valid price"})
		default:
			logger.Error("Failed to build pix payload", "item_id", item.ID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build payment code"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"payload": payload})
}

// resolveListItem loads the item addressed by /list/:slug/items/:item_id
// and checks it actually belongs to the list in the URL.
func resolveListItem(c *gin.Context, db *sql.DB) (*models.GiftItem, bool) {
	event, err := database.GetEventBySlug(db, c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "List not found"})
		return nil, false
	}

	item, err := database.GetGiftItem(db, c.Param("item_id"))
	if err != nil || item.EventID != event.ID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Gift item not found"})
		return nil, false
	}

	return item, true
}

func notifyOwnerOfClaim(c *gin.Context, db *sql.DB, item *models.GiftItem, purchase *models.Purchase) {
	svc, exists := c.Get("email")
	if !exists {
		return
	}
	mailer := svc.(*emailService.Service)
	if !mailer.IsEnabled() {
		return
	}

	event, err := database.GetEventBySlug(db, c.Param("slug"))
	if err != nil {
		return
	}
	owner, err := database.GetUserByID(db, event.UserID)
	if err != nil {
		return
	}

	if err := mailer.SendReservationEmail(owner, event, item, purchase); err != nil {
		logger.Warn("Failed to send reservation email",
			"event_id", event.ID,
			"item_id", item.ID,
			"error", err)
	}
}
