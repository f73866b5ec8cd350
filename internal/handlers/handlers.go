package handlers

import (
	"database/sql"

	"giftlist/internal/config"
	"giftlist/internal/email"
	"giftlist/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, db *sql.DB, cfg *config.Config, emailService *email.Service) {
	r.Use(middleware.LogRequests())
	r.Use(middleware.SecurityHeaders(cfg))
	r.Use(middleware.AddDBContext(db))
	r.Use(addConfigContext(cfg))
	r.Use(addEmailServiceContext(emailService))
	r.Use(middleware.TrimSpaces())

	r.POST("/api/register", middleware.AuthRateLimit(cfg), handleRegister)
	r.POST("/api/login", middleware.AuthRateLimit(cfg), handleLogin)
	r.POST("/api/logout", middleware.AuthRequired(db, cfg), handleLogout)

	// Guest-facing surface: no account needed to browse a list, claim an
	// item, fetch a PIX payload or confirm a purchase by token
	public := r.Group("/api")
	public.Use(middleware.AuthOptional(db, cfg))
	{
		public.GET("/list/:slug", handlePublicList)
		public.POST("/list/:slug/items/:item_id/claim", middleware.ClaimRateLimit(cfg), handleClaimItem)
		public.GET("/list/:slug/items/:item_id/pix", handlePixPayload)
		public.GET("/confirm/:token", handleConfirmationDetails)
		public.POST("/confirm/:token", middleware.ClaimRateLimit(cfg), handleConfirmByToken)
	}

	protected := r.Group("/api")
	protected.Use(middleware.AuthRequired(db, cfg))
	protected.Use(middleware.CSRF(cfg))
	{
		protected.GET("/csrf-token", handleCSRFToken)

		protected.GET("/events", handleListEvents)
		protected.POST("/events", handleCreateEvent)
		protected.GET("/events/:id", handleEventDetail)
		protected.POST("/events/:id", handleUpdateEvent)
		protected.POST("/events/:id/delete", handleDeleteEvent)
		protected.POST("/events/:id/pix-key", handleUpdatePixKey)

		protected.GET("/events/:id/categories", handleListCategories)
		protected.POST("/events/:id/categories", handleCreateCategory)
		protected.POST("/events/:id/categories/:category_id", handleUpdateCategory)
		protected.POST("/events/:id/categories/:category_id/delete", handleDeleteCategory)

		protected.POST("/events/:id/items", handleCreateGiftItem)
		protected.POST("/events/:id/items/reorder", handleReorderGiftItems)
		protected.POST("/events/:id/items/:item_id", handleUpdateGiftItem)
		protected.POST("/events/:id/items/:item_id/delete", handleDeleteGiftItem)
		protected.POST("/events/:id/items/:item_id/release", handleReleaseGiftItem)

		protected.GET("/events/:id/purchases/pending", handleListPendingPurchases)
		protected.POST("/events/:id/purchases/:purchase_id/confirm", handleConfirmByOwner)
	}
}

func addConfigContext(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("config", cfg)
		c.Next()
	}
}

func addEmailServiceContext(emailService *email.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("email", emailService)
		c.Next()
	}
}
