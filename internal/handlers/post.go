package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"social-service/internal/models"
	"social-service/internal/repositories"
)

// PostHandler manages the post REST endpoints. Votes go through the vote
// websocket; this surface lists posts with their tallies and lets authors
// create, edit and delete their own.
type PostHandler struct {
	posts repositories.PostRepository
}

// NewPostHandler builds a PostHandler.
func NewPostHandler(posts repositories.PostRepository) *PostHandler {
	return &PostHandler{posts: posts}
}

// ListPosts returns all posts newest first with their vote tallies.
func (h *PostHandler) ListPosts(c *gin.Context) {
	posts, err := h.posts.ListPostsWithVotes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load posts"})
		return
	}

	type postResponse struct {
		models.Post
		Tally models.VoteTally `json:"tally"`
	}

	resp := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		resp = append(resp, postResponse{Post: p, Tally: p.Tally()})
	}

	c.JSON(http.StatusOK, gin.H{"posts": resp})
}

// CreatePost stores a post.
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req struct {
		Title   string `json:"title" binding:"required,min=1,max=40"`
		Content string `json:"content" binding:"required,min=1,max=500"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt("userID")
	post, err := h.posts.CreatePost(c.Request.Context(), userID, req.Title, req.Content)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store post"})
		return
	}

	c.JSON(http.StatusCreated, post)
}

// EditPost rewrites a post owned by the caller.
func (h *PostHandler) EditPost(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("post_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	var req struct {
		Title   string `json:"title" binding:"required,min=1,max=40"`
		Content string `json:"content" binding:"required,min=1,max=500"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if !h.requirePostOwner(c, postID) {
		return
	}

	if err := h.posts.UpdatePost(ctx, postID, req.Title, req.Content); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update post"})
		return
	}

	c.Status(http.StatusNoContent)
}

// DeletePost removes a post owned by the caller.
func (h *PostHandler) DeletePost(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("post_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	if !h.requirePostOwner(c, postID) {
		return
	}

	if err := h.posts.DeletePost(c.Request.Context(), postID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete post"})
		return
	}

	c.Status(http.StatusNoContent)
}

// requirePostOwner loads the post and aborts the request unless the caller
// authored it.
func (h *PostHandler) requirePostOwner(c *gin.Context, postID int) bool {
	post, err := h.posts.GetPostWithVotes(c.Request.Context(), postID)
	if errors.Is(err, repositories.ErrPostNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load post"})
		return false
	}
	if post.UserID != c.GetInt("userID") {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your post"})
		return false
	}
	return true
}
