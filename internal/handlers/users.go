package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/solarrank/backend/internal/models"
	"github.com/emilythestrangee/solarrank/backend/internal/services"
)

type UserHandler struct {
	accounts *services.AccountService
}

func NewUserHandler(accounts *services.AccountService) *UserHandler {
	return &UserHandler{accounts: accounts}
}

// GetUsers returns the leaderboard: all users ordered by total energy
// descending. Served through the read cache, so it may lag writes by
// up to the cache TTL.
func (h *UserHandler) GetUsers(c *gin.Context) {
	users, err := h.accounts.Leaderboard()
	if err != nil {
		abortWithError(c, err)
		return
	}

	if users == nil {
		users = []models.User{}
	}

	c.JSON(http.StatusOK, users)
}

// GetUserProfile returns a user's profile
func (h *UserHandler) GetUserProfile(c *gin.Context) {
	user, err := h.accounts.Profile(c.Param("username"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userResponse(user)})
}

// UpdateUserProfile applies a partial update to the caller's own
// profile.
func (h *UserHandler) UpdateUserProfile(c *gin.Context) {
	authUserID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	target, err := h.accounts.Profile(c.Param("username"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	if target.ID != authUserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only update your own profile"})
		return
	}

	var patch models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.accounts.UpdateProfile(target.ID, patch)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userResponse(user)})
}
