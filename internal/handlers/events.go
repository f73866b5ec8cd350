package handlers

import (
	"database/sql"
	"net/http"
	"regexp"
	"strings"
	"time"

	"giftlist/internal/database"
	"giftlist/internal/logger"
	"giftlist/internal/models"

	"github.com/gin-gonic/gin"
)

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

func handleListEvents(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	userID := c.MustGet("user_id").(int)

	events, err := database.GetEvents(db, userID)
	if err != nil {
		logger.Error("Failed to list events", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load events"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

func handleCreateEvent(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	userID := c.MustGet("user_id").(int)

	title := strings.TrimSpace(c.PostForm("title"))
	slug := strings.TrimSpace(c.PostForm("slug"))
	eventDate := parseEventDate(c.PostForm("event_date"))

	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}
	if !slugRegex.MatchString(slug) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Slug must be lowercase letters, numbers and hyphens"})
		return
	}

	event, err := database.CreateEvent(db, userID, title, slug, eventDate)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "That address is already taken"})
			return
		}
		logger.Error("Failed to create event", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"event": event})
}

func handleEventDetail(c *gin.Context) {
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
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load event"})
		return
	}
	event.Items = items

	stats, err := database.GetEventStats(db, event.ID)
	if err != nil {
		logger.Error("Failed to load event stats", "event_id", event.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load event"})
		return
	}

	categories, err := database.GetEventCategories(db, event.ID)
	if err != nil {
		logger.Error("Failed to load categories", "event_id", event.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load event"})
		return
	}

	itemIDs := make([]string, len(items))
	for i, item := range items {
		itemIDs[i] = item.ID
	}

	pendingPix, err := database.ListPendingPixPurchases(db, itemIDs)
	if err != nil {
		logger.Error("Failed to load pending purchases", "event_id", event.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"event":                 event,
		"stats":                 stats,
		"categories":            categories,
		"pending_pix_purchases": pendingPix,
	})
}

func handleUpdateEvent(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	userID := c.MustGet("user_id").(int)
	eventID := c.Param("id")

	title := strings.TrimSpace(c.PostForm("title"))
	slug := strings.TrimSpace(c.PostForm("slug"))
	eventDate := parseEventDate(c.PostForm("event_date"))

	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}
	if !slugRegex.MatchString(slug) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Slug must be lowercase letters, numbers and hyphens"})
		return
	}

	if err := database.UpdateEvent(db, eventID, userID, title, slug, eventDate); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "That address is already taken"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func handleDeleteEvent(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	userID := c.MustGet("user_id").(int)
	eventID := c.Param("id")

	if err := database.DeleteEvent(db, eventID, userID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	logger.Info("Event deleted", "event_id", eventID, "user_id", userID)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func handleUpdatePixKey(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	userID := c.MustGet("user_id").(int)
	eventID := c.Param("id")

	pixKey := strings.TrimSpace(c.PostForm("pix_key"))
	keyType := models.PixKeyType(c.PostForm("pix_key_type"))

	if pixKey != "" {
		switch keyType {
		case models.PixKeyCPF, models.PixKeyCNPJ, models.PixKeyEmail, models.PixKeyPhone, models.PixKeyRandom:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid PIX key type"})
			return
		}
	}

	if err := database.UpdateEventPixKey(db, eventID, userID, pixKey, keyType); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	logger.Info("PIX key updated", "event_id", eventID, "pix_key", pixKey)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func parseEventDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return &t
	}
	return nil
}
