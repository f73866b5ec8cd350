package handlers

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"giftlist/internal/database"
	"giftlist/internal/logger"

	"github.com/gin-gonic/gin"
)

func handleListCategories(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	userID := c.MustGet("user_id").(int)
	eventID := c.Param("id")

	if _, err := database.GetEventForUser(db, eventID, userID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	categories, err := database.GetEventCategories(db, eventID)
	if err != nil {
		logger.Error("Failed to list categories", "event_id", eventID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load categories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func handleCreateCategory(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	userID := c.MustGet("user_id").(int)
	eventID := c.Param("id")

	if _, err := database.GetEventForUser(db, eventID, userID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}
	sortOrder, _ := strconv.Atoi(c.PostForm("sort_order"))

	category, err := database.CreateEventCategory(db, eventID, name, sortOrder)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A category with that name already exists"})
			return
		}
		logger.Error("Failed to create category", "event_id", eventID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"category": category})
}

func handleUpdateCategory(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	userID := c.MustGet("user_id").(int)
	eventID := c.Param("id")

	if _, err := database.GetEventForUser(db, eventID, userID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	categoryID, err := strconv.Atoi(c.Param("category_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}

	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}
	sortOrder, _ := strconv.Atoi(c.PostForm("sort_order"))

	if err := database.UpdateEventCategory(db, eventID, categoryID, name, sortOrder); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func handleDeleteCategory(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	userID := c.MustGet("user_id").(int)
	eventID := c.Param("id")

	if _, err := database.GetEventForUser(db, eventID, userID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	categoryID, err := strconv.Atoi(c.Param("category_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}

	if err := database.DeleteEventCategory(db, eventID, categoryID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
