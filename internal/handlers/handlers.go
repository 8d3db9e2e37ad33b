package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/emilythestrangee/solarrank/backend/internal/config"
	"github.com/emilythestrangee/solarrank/backend/internal/services"
)

// Handler combines all handler types
type Handler struct {
	Auth    *AuthHandler
	Post    *PostHandler
	Comment *CommentHandler
	User    *UserHandler

	Sessions *services.SessionManager
	Tokens   *services.TokenStore
}

// NewHandler wires the services and creates a unified handler with all
// sub-handlers.
func NewHandler(db *gorm.DB, cfg *config.Config) *Handler {
	tokens := services.NewTokenStore(db)
	sessions := services.NewSessionManager(db, tokens, services.SessionConfig{
		AccessSecret:  cfg.AccessSecret,
		RefreshSecret: cfg.RefreshSecret,
		AccessTTL:     cfg.AccessTTL,
		RefreshTTL:    cfg.RefreshTTL,
	})
	accounts := services.NewAccountService(db, sessions, tokens, cfg.LeaderboardTTL)
	ledger := services.NewVoteLedger(db)

	return &Handler{
		Auth:    NewAuthHandler(accounts, sessions),
		Post:    NewPostHandler(db, ledger),
		Comment: NewCommentHandler(db, ledger),
		User:    NewUserHandler(accounts),

		Sessions: sessions,
		Tokens:   tokens,
	}
}

func extractUserID(c *gin.Context) (int, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	switch v := raw.(type) {
	case int:
		return v, true
	case uint:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// abortWithError translates domain errors to statuses. Unexpected
// errors are logged and hidden behind a generic message.
func abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPostNotFound),
		errors.Is(err, services.ErrCommentNotFound),
		errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrSelfVote):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotVoted),
		errors.Is(err, services.ErrInvalidVoteType),
		errors.Is(err, services.ErrTokenNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		log.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
