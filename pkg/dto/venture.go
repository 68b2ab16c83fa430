package dto

import "github.com/google/uuid"

type CreateVentureRequest struct {
	Name  string `json:"name"`
	Pitch string `json:"pitch"`
}

type UpdateVentureRequest struct {
	Name  string `json:"name"`
	Pitch string `json:"pitch"`
	Stage string `json:"stage"`
}

type VentureResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Pitch       string    `json:"pitch"`
	Stage       string    `json:"stage"`
	InitiatorID uuid.UUID `json:"initiator_id"`
}

type AddTeamMemberRequest struct {
	Email          string `json:"email"`
	DefaultRoleTag string `json:"default_role_tag"`
}

type TeamMemberResponse struct {
	ID          uuid.UUID     `json:"id"`
	VentureID   uuid.UUID     `json:"venture_id"`
	UserID      uuid.UUID     `json:"user_id"`
	DisplayRole string        `json:"display_role"`
	User        *UserResponse `json:"user,omitempty"`
}

type RosterResponse struct {
	Members               []TeamMemberResponse `json:"members"`
	AcceptedEquityPercent float64              `json:"accepted_equity_percent"`
}
