package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/inkwell/internal/middleware"
	"github.com/inkwell/inkwell/internal/services"
)

type PostHandler struct {
	postService *services.PostService
}

func NewPostHandler(postService *services.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

func (h *PostHandler) Create(c *gin.Context) {
	actorID := middleware.GetUserID(c)

	var req services.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.postService.Create(c.Request.Context(), actorID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toPostResponse(post))
}

func (h *PostHandler) List(c *gin.Context) {
	offset, limit := pagination(c)

	posts, err := h.postService.List(c.Request.Context(), offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toPostResponses(posts))
}

func (h *PostHandler) GetByID(c *gin.Context) {
	post, err := h.postService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	likes, err := h.postService.PostLikerIDs(c.Request.Context(), post.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, PostDetailResponse{PostResponse: toPostResponse(post), Likes: likes})
}

func (h *PostHandler) GetBySlug(c *gin.Context) {
	post, err := h.postService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	likes, err := h.postService.PostLikerIDs(c.Request.Context(), post.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, PostDetailResponse{PostResponse: toPostResponse(post), Likes: likes})
}

func (h *PostHandler) GetByUser(c *gin.Context) {
	posts, err := h.postService.GetByAuthor(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toPostResponses(posts))
}

func (h *PostHandler) GetByUsername(c *gin.Context) {
	posts, err := h.postService.GetByAuthorUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toPostResponses(posts))
}

func (h *PostHandler) Search(c *gin.Context) {
	offset, limit := pagination(c)

	posts, err := h.postService.Search(c.Request.Context(), c.Query("query"), offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toPostResponses(posts))
}

func (h *PostHandler) Update(c *gin.Context) {
	actorID := middleware.GetUserID(c)

	var req services.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.postService.Update(c.Request.Context(), actorID, c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toPostResponse(post))
}

func (h *PostHandler) Delete(c *gin.Context) {
	actorID := middleware.GetUserID(c)

	if err := h.postService.Delete(c.Request.Context(), actorID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post removed"})
}

func (h *PostHandler) ToggleLike(c *gin.Context) {
	actorID := middleware.GetUserID(c)

	result, err := h.postService.ToggleLike(c.Request.Context(), actorID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
