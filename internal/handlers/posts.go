package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/emilythestrangee/solarrank/backend/internal/models"
	"github.com/emilythestrangee/solarrank/backend/internal/services"
)

type PostHandler struct {
	db     *gorm.DB
	ledger *services.VoteLedger
}

func NewPostHandler(db *gorm.DB, ledger *services.VoteLedger) *PostHandler {
	return &PostHandler{db: db, ledger: ledger}
}

// GetPosts returns the feed: every post with author, viewer vote and
// comment summary, newest first.
func (h *PostHandler) GetPosts(c *gin.Context) {
	viewerID, _ := extractUserID(c)

	items, err := h.ledger.ListPosts(viewerID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// GetPost returns a single post by ID
func (h *PostHandler) GetPost(c *gin.Context) {
	postID := c.Param("id")
	var post models.Post

	if err := h.db.Preload("User").First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	c.JSON(http.StatusOK, post)
}

// CreatePost creates a new post (PROTECTED - requires authentication)
func (h *PostHandler) CreatePost(c *gin.Context) {
	var input models.CreatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	authorID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	post := models.Post{
		UserID: authorID,
		Title:  input.Title,
		Body:   input.Body,
		Tags:   pq.StringArray(input.Tags),
	}

	if err := h.db.Create(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	// Reload with author information
	h.db.Preload("User").First(&post, post.ID)

	c.JSON(http.StatusCreated, post)
}

// VotePost records an up or down vote on a post.
func (h *PostHandler) VotePost(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}

	voterID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var input models.VoteRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Vote type must be positive or negative"})
		return
	}

	if err := h.ledger.VotePost(postID, input.VoteType, voterID); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Vote recorded successfully"})
}

// UnvotePost removes the caller's vote from a post.
func (h *PostHandler) UnvotePost(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}

	voterID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	if err := h.ledger.UnvotePost(postID, voterID); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Unvote recorded successfully"})
}
