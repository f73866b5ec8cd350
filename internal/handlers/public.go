package handlers

import (
	"database/sql"
	"net/http"

	"giftlist/internal/database"
	"giftlist/internal/logger"

	"github.com/gin-gonic/gin"
)

// handlePublicList serves the guest view of an event: the items with
// their statuses, plus whether the list takes PIX at all. PIX keys and
// buyer-side tokens never appear here.
func handlePublicList(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	slug := c.Param("slug")

	event, err := database.GetEventBySlug(db, slug)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "List not found"})
		return
	}

	items, err := database.GetGiftItems(db, event.ID)
	if err != nil {
		logger.Error("Failed to load gift items", "event_id", event.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load list"})
		return
	}

	categories, err := database.GetEventCategories(db, event.ID)
	if err != nil {
		logger.Error("Failed to load categories", "event_id", event.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load list"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"title":       event.Title,
		"slug":        event.Slug,
		"event_date":  event.EventDate,
		"accepts_pix": event.PixKey != nil && *event.PixKey != "",
		"items":       items,
		"categories":  categories,
	})
}
