package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Notification types emitted by the negotiation engine.
const (
	NotificationNegotiationUpdate   = "negotiation_update"
	NotificationNegotiationAccepted = "negotiation_accepted"
)

type Notification struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	ReadAt    *time.Time      `json:"read_at,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
