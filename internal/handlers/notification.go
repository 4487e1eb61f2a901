package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/inkwell/internal/middleware"
	"github.com/inkwell/inkwell/internal/services"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) List(c *gin.Context) {
	actorID := middleware.GetUserID(c)

	notifications, err := h.notificationService.List(c.Request.Context(), actorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toNotificationResponses(notifications))
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	actorID := middleware.GetUserID(c)

	notification, err := h.notificationService.MarkRead(c.Request.Context(), actorID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toNotificationResponse(notification))
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	actorID := middleware.GetUserID(c)

	if err := h.notificationService.MarkAllRead(c.Request.Context(), actorID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	actorID := middleware.GetUserID(c)

	count, err := h.notificationService.UnreadCount(c.Request.Context(), actorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}
