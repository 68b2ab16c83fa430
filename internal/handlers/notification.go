package handlers

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/mvasic/cofound-api/internal/middleware"
	"github.com/mvasic/cofound-api/internal/services"
	"github.com/mvasic/cofound-api/pkg/dto"
)

type NotificationHandler struct {
	notificationService NotificationServiceInterface
}

func NewNotificationHandler(notificationService NotificationServiceInterface) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) List(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	notifications, err := h.notificationService.ListNotifications(context.Background(), userID)
	if err != nil {
		c.InternalServerError("failed to get notifications")
		return
	}

	response := make([]dto.NotificationResponse, len(notifications))
	for i, n := range notifications {
		response[i] = dto.NotificationResponse{
			ID:        n.ID,
			Type:      n.Type,
			Payload:   n.Payload,
			ReadAt:    n.ReadAt,
			CreatedAt: n.CreatedAt,
		}
	}

	_ = c.JSON(200, response)
}

func (h *NotificationHandler) MarkRead(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid notification id")
		return
	}

	if err := h.notificationService.MarkRead(context.Background(), notificationID, userID); err != nil {
		if errors.Is(err, services.ErrNotificationNotFound) {
			c.NotFound("notification not found")
		} else {
			c.InternalServerError("failed to mark notification read")
		}
		return
	}

	_ = c.JSON(200, map[string]string{"message": "notification marked read"})
}
