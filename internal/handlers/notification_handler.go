package handlers

import (
	"net/http"

	"taskassistant/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// NotificationHandler представляет обработчик уведомлений
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler создает новый обработчик уведомлений
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// GetNotifications возвращает уведомления текущего пользователя
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	notifications, err := h.notificationService.List(principal)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// MarkNotificationRead помечает уведомление прочитанным
func (h *NotificationHandler) MarkNotificationRead(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	if err := h.notificationService.MarkRead(id, principal); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
