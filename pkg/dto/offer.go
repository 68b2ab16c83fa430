package dto

import (
	"time"

	"github.com/google/uuid"
)

// SubmitProposalRequest opens or counters a negotiation. ExpectedVersion is
// the offer version the client last read; omit (0) when opening.
type SubmitProposalRequest struct {
	MonthlySalaryCents       *int64  `json:"monthly_salary_cents,omitempty"`
	SalaryCurrency           *string `json:"salary_currency,omitempty"`
	TimeEquityPercent        float64 `json:"time_equity_percent"`
	CliffYears               int     `json:"cliff_years"`
	VestingYears             int     `json:"vesting_years"`
	PerformanceEquityPercent float64 `json:"performance_equity_percent"`
	PerformanceMilestone     string  `json:"performance_milestone"`
	ExpectedVersion          int     `json:"expected_version"`
}

type AcceptOfferRequest struct {
	ExpectedVersion int `json:"expected_version"`
}

type OfferResponse struct {
	ID                       uuid.UUID `json:"id"`
	TeamMemberID             uuid.UUID `json:"team_member_id"`
	VentureID                uuid.UUID `json:"venture_id"`
	MemberUserID             uuid.UUID `json:"member_user_id"`
	InitiatorUserID          uuid.UUID `json:"initiator_user_id"`
	MonthlySalaryCents       *int64    `json:"monthly_salary_cents,omitempty"`
	SalaryCurrency           *string   `json:"salary_currency,omitempty"`
	TimeEquityPercent        float64   `json:"time_equity_percent"`
	CliffYears               int       `json:"cliff_years"`
	VestingYears             int       `json:"vesting_years"`
	PerformanceEquityPercent float64   `json:"performance_equity_percent"`
	PerformanceMilestone     string    `json:"performance_milestone"`
	Status                   string    `json:"status"`
	CurrentProposerID        uuid.UUID `json:"current_proposer_id"`
	Version                  int       `json:"version"`
}

type OfferHistoryEntryResponse struct {
	ID                       uuid.UUID `json:"id"`
	ProposerID               uuid.UUID `json:"proposer_id"`
	Action                   string    `json:"action"`
	Version                  int       `json:"version"`
	MonthlySalaryCents       *int64    `json:"monthly_salary_cents,omitempty"`
	SalaryCurrency           *string   `json:"salary_currency,omitempty"`
	TimeEquityPercent        float64   `json:"time_equity_percent"`
	CliffYears               int       `json:"cliff_years"`
	VestingYears             int       `json:"vesting_years"`
	PerformanceEquityPercent float64   `json:"performance_equity_percent"`
	PerformanceMilestone     string    `json:"performance_milestone"`
	CreatedAt                time.Time `json:"created_at"`
}

type CanActResponse struct {
	CanAct bool `json:"can_act"`
}
