package handlers

import (
	"database/sql"
	"net/http"
	"regexp"
	"strings"

	"giftlist/internal/config"
	"giftlist/internal/database"
	emailService "giftlist/internal/email"
	"giftlist/internal/logger"
	"giftlist/internal/models"

	"github.com/gin-gonic/gin"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func handleRegister(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	cfg := c.MustGet("config").(*config.Config)

	name := strings.TrimSpace(c.PostForm("name"))
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")

	errors := make(map[string]string)

	if len(name) < 2 || len(name) > 100 {
		errors["name"] = "Name must be between 2 and 100 characters"
	}

	if !emailRegex.MatchString(email) {
		errors["email"] = "Please enter a valid email address"
	}

	if len(password) < 8 {
		errors["password"] = "Password must be at least 8 characters"
	}

	if len(errors) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errors})
		return
	}

	user, err := database.CreateUser(db, name, email, password)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "An account with that email already exists"})
			return
		}
		logger.Error("Failed to create user", "email", email, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account. Please try again."})
		return
	}

	if svc, exists := c.Get("email"); exists {
		if mailer := svc.(*emailService.Service); mailer.IsEnabled() {
			if err := mailer.SendWelcomeEmail(user); err != nil {
				logger.Warn("Failed to send welcome email", "email", user.Email, "error", err)
			}
		}
	}

	session, err := database.CreateSession(db, user.ID, cfg.SessionDuration)
	if err != nil {
		logger.Error("Failed to create session", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Account created, please log in"})
		return
	}

	setSessionCookie(c, cfg, session)
	logger.Info("User registered", "user_id", user.ID, "email", user.Email)
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

func handleLogin(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	cfg := c.MustGet("config").(*config.Config)

	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")

	if email == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	user, err := database.AuthenticateUser(db, email, password)
	if err != nil {
		// Same message for unknown email and wrong password
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	session, err := database.CreateSession(db, user.ID, cfg.SessionDuration)
	if err != nil {
		logger.Error("Failed to create session", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in. Please try again."})
		return
	}

	setSessionCookie(c, cfg, session)
	logger.Info("User logged in", "user_id", user.ID)
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func handleLogout(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	if sessionID, err := c.Cookie("session_id"); err == nil {
		if err := database.DeleteSession(db, sessionID); err != nil {
			logger.Warn("Failed to delete session", "session_id", sessionID, "error", err)
		}
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie("session_id", "", -1, "/", "", true, true)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func handleCSRFToken(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	userID := c.MustGet("user_id").(int)

	token, err := database.CreateCSRFToken(db, userID)
	if err != nil {
		logger.Error("Failed to create CSRF token", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create CSRF token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"csrf_token": token.Token})
}

func setSessionCookie(c *gin.Context, cfg *config.Config, session *models.Session) {
	c.SetSameSite(http.SameSiteStrictMode)
	secure := !cfg.IsDevelopment()
	c.SetCookie("session_id", session.ID, int(cfg.SessionDuration.Seconds()), "/", "", secure, true)
}
