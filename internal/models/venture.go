package models

import (
	"time"

	"github.com/google/uuid"
)

// Venture stages shown on the venture board.
const (
	StageIdea     = "idea"
	StageBuilding = "building"
	StageScaling  = "scaling"
)

type Venture struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Pitch       string    `json:"pitch"`
	Stage       string    `json:"stage"`
	InitiatorID uuid.UUID `json:"initiator_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
