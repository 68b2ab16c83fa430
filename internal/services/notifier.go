package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mvasic/cofound-api/internal/database"
	"github.com/mvasic/cofound-api/internal/models"
	"github.com/mvasic/cofound-api/internal/sse"
	"go.uber.org/zap"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationEvent is what the negotiation engine hands the dispatcher on
// every successful transition.
type NotificationEvent struct {
	Type        string
	RecipientID uuid.UUID
	Payload     map[string]any
}

// UserEmailLookup resolves a recipient to an address for the mail channel.
type UserEmailLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// NotificationService fans a negotiation event out to the notification table,
// the live event stream and (when configured) email. It is fire-and-forget:
// every failure is logged and swallowed so a notification problem can never
// undo a committed negotiation transition.
type NotificationService struct {
	db      *database.DB
	hub     *sse.Hub
	email   *EmailService
	users   UserEmailLookup
	baseURL string
	log     *zap.Logger
}

func NewNotificationService(db *database.DB, hub *sse.Hub, email *EmailService, users UserEmailLookup, baseURL string, log *zap.Logger) *NotificationService {
	return &NotificationService{
		db:      db,
		hub:     hub,
		email:   email,
		users:   users,
		baseURL: baseURL,
		log:     log,
	}
}

func (s *NotificationService) Dispatch(ctx context.Context, event NotificationEvent) {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		s.log.Warn("failed to marshal notification payload",
			zap.String("type", event.Type), zap.Error(err))
		payload = []byte("{}")
	}

	if _, err := s.db.Pool.Exec(ctx, `
		INSERT INTO notifications (user_id, type, payload)
		VALUES ($1, $2, $3)
	`, event.RecipientID, event.Type, payload); err != nil {
		s.log.Warn("failed to store notification",
			zap.String("type", event.Type),
			zap.String("recipient_id", event.RecipientID.String()),
			zap.Error(err))
	}

	if s.hub != nil {
		s.hub.SendToUser(event.RecipientID, sse.Event{Type: event.Type, Data: event.Payload})
	}

	s.sendEmail(ctx, event)
}

func (s *NotificationService) sendEmail(ctx context.Context, event NotificationEvent) {
	if s.email == nil || !s.email.IsConfigured() {
		return
	}

	user, err := s.users.GetByID(ctx, event.RecipientID)
	if err != nil {
		s.log.Warn("failed to resolve notification recipient",
			zap.String("recipient_id", event.RecipientID.String()), zap.Error(err))
		return
	}

	ventureName, _ := event.Payload["venture_name"].(string)
	offerURL := fmt.Sprintf("%s/offers/%v", s.baseURL, event.Payload["offer_id"])

	switch event.Type {
	case models.NotificationNegotiationAccepted:
		err = s.email.SendNegotiationAccepted(user.Email, ventureName, offerURL)
	default:
		err = s.email.SendNegotiationUpdate(user.Email, ventureName, offerURL)
	}
	if err != nil {
		s.log.Warn("failed to send notification email",
			zap.String("type", event.Type),
			zap.String("recipient_id", event.RecipientID.String()),
			zap.Error(err))
	}
}

// ListNotifications returns a user's notifications, newest first.
func (s *NotificationService) ListNotifications(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, user_id, type, payload, read_at, created_at
		FROM notifications WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Payload, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, nil
}

// MarkRead is idempotent from the caller's side only for unread rows; marking
// a notification that is not yours (or does not exist) is a not-found.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, `
		UPDATE notifications SET read_at = NOW()
		WHERE id = $1 AND user_id = $2 AND read_at IS NULL
	`, notificationID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
