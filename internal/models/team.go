package models

import (
	"time"

	"github.com/google/uuid"
)

// TeamMember is the venture/co-builder relationship an Offer negotiates over.
// DefaultRoleTag is what the roster shows until an offer is accepted.
type TeamMember struct {
	ID             uuid.UUID `json:"id"`
	VentureID      uuid.UUID `json:"venture_id"`
	UserID         uuid.UUID `json:"user_id"`
	DefaultRoleTag string    `json:"default_role_tag"`
	CreatedAt      time.Time `json:"created_at"`
	User           *User     `json:"user,omitempty"`
}
