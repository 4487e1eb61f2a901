package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/inkwell/internal/middleware"
	"github.com/inkwell/inkwell/internal/services"
)

type CommentHandler struct {
	commentService *services.CommentService
}

func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

func (h *CommentHandler) Create(c *gin.Context) {
	actorID := middleware.GetUserID(c)

	var req services.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.commentService.Create(c.Request.Context(), actorID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toCommentResponse(comment))
}

// GetByPost returns the post's comments as a flat list, oldest first.
func (h *CommentHandler) GetByPost(c *gin.Context) {
	comments, err := h.commentService.GetByPost(c.Request.Context(), c.Param("postId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCommentResponses(comments))
}

// GetThread returns the post's comments as the two-level display tree.
func (h *CommentHandler) GetThread(c *gin.Context) {
	threads, err := h.commentService.GetThread(c.Request.Context(), c.Param("postId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toThreadResponses(threads))
}

func (h *CommentHandler) Delete(c *gin.Context) {
	actorID := middleware.GetUserID(c)

	if err := h.commentService.Delete(c.Request.Context(), actorID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}

func (h *CommentHandler) ToggleLike(c *gin.Context) {
	actorID := middleware.GetUserID(c)

	comment, toggle, err := h.commentService.ToggleLike(c.Request.Context(), actorID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comment": toCommentResponse(comment),
		"likes":   toggle.Likes,
		"liked":   toggle.Liked,
	})
}
