package handlers

import (
	"database/sql"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"giftlist/internal/database"
	"giftlist/internal/logger"
	"giftlist/internal/models"

	"github.com/gin-gonic/gin"
)

func handleCreateGiftItem(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	userID := c.MustGet("user_id").(int)
	eventID := c.Param("id")

	if _, err := database.GetEventForUser(db, eventID, userID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	item, errMsg := giftItemFromForm(c)
	if errMsg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMsg})
		return
	}

	created, err := database.CreateGiftItem(db, eventID, *item)
	if err != nil {
		logger.Error("Failed to create gift item", "event_id", eventID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create gift item"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"item": created})
}

func handleUpdateGiftItem(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	userID := c.MustGet("user_id").(int)
	eventID := c.Param("id")
	itemID := c.Param("item_id")

	if _, err := database.GetEventForUser(db, eventID, userID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	item, errMsg := giftItemFromForm(c)
	if errMsg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMsg})
		return
	}

	if err := database.UpdateGiftItem(db, itemID, eventID, *item); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Gift item not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func handleDeleteGiftItem(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	userID := c.MustGet("user_id").(int)
	eventID := c.Param("id")
	itemID := c.Param("item_id")

	if _, err := database.GetEventForUser(db, eventID, userID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	if err := database.DeleteGiftItem(db, itemID, eventID); err != nil {
		if strings.Contains(err.Error(), "cannot be deleted") {
			c.JSON(http.StatusConflict, gin.H{"error": "This gift has purchase history and cannot be deleted"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Gift item not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// handleReleaseGiftItem puts a reserved gift back on the list. This is
// the owner's manual escape hatch for abandoned claims; there is no
// automatic expiry.
func handleReleaseGiftItem(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	userID := c.MustGet("user_id").(int)
	eventID := c.Param("id")
	itemID := c.Param("item_id")

	if _, err := database.GetEventForUser(db, eventID, userID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	if err := database.ReleaseGiftItem(db, itemID, eventID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Gift item is not reserved"})
		return
	}

	logger.Info("Gift item released", "event_id", eventID, "item_id", itemID)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func handleReorderGiftItems(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	userID := c.MustGet("user_id").(int)
	eventID := c.Param("id")

	if _, err := database.GetEventForUser(db, eventID, userID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	var req struct {
		ItemIDs []string `json:"item_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.ItemIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item_ids is required"})
		return
	}

	if err := database.UpdateGiftItemOrder(db, eventID, req.ItemIDs); err != nil {
		logger.Error("Failed to reorder items", "event_id", eventID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reorder items"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func giftItemFromForm(c *gin.Context) (*models.GiftItem, string) {
	name := strings.TrimSpace(c.PostForm("name"))
	productURL := strings.TrimSpace(c.PostForm("product_url"))
	imageURL := strings.TrimSpace(c.PostForm("image_url"))
	priceStr := strings.TrimSpace(c.PostForm("price"))
	category := strings.TrimSpace(c.PostForm("category"))
	sortOrder, _ := strconv.Atoi(c.PostForm("sort_order"))

	if name == "" || productURL == "" || priceStr == "" {
		return nil, "Name, product URL and price are required"
	}

	if _, err := url.ParseRequestURI(productURL); err != nil {
		return nil, "Invalid product URL"
	}

	// Accept both decimal comma and decimal point
	price, err := strconv.ParseFloat(strings.Replace(priceStr, ",", ".", 1), 64)
	if err != nil || price <= 0 {
		return nil, "Price must be a positive number"
	}

	item := &models.GiftItem{
		Name:       name,
		ProductURL: productURL,
		Price:      price,
		Category:   category,
		SortOrder:  sortOrder,
	}

	if imageURL != "" {
		if _, err := url.ParseRequestURI(imageURL); err != nil {
			return nil, "Invalid image URL"
		}
		item.ImageURL = &imageURL
	}

	return item, ""
}
