package models

import (
	"time"

	"github.com/google/uuid"
)

// Offer statuses. There is no rejected state: a negotiation either keeps
// alternating or terminates by acceptance.
const (
	OfferStatusProposed = "proposed"
	OfferStatusAccepted = "accepted"
)

// History actions recorded on each transition.
const (
	HistoryActionProposed        = "proposed"
	HistoryActionCounterProposed = "counter_proposed"
	HistoryActionAccepted        = "accepted"
)

// OfferTerms is one full compensation package. Salary is optional and held
// as integer cents with an ISO currency code.
type OfferTerms struct {
	MonthlySalaryCents       *int64  `json:"monthly_salary_cents,omitempty"`
	SalaryCurrency           *string `json:"salary_currency,omitempty"`
	TimeEquityPercent        float64 `json:"time_equity_percent"`
	CliffYears               int     `json:"cliff_years"`
	VestingYears             int     `json:"vesting_years"`
	PerformanceEquityPercent float64 `json:"performance_equity_percent"`
	PerformanceMilestone     string  `json:"performance_milestone"`
}

// TotalEquityPercent is time plus performance equity, the number tier
// derivation and the venture ceiling work from.
func (t OfferTerms) TotalEquityPercent() float64 {
	return t.TimeEquityPercent + t.PerformanceEquityPercent
}

// Offer is the mutable negotiation record for one team membership. The party
// named by CurrentProposerID submitted the standing terms; only the other
// party may counter or accept. Version goes up by exactly one on every
// successful transition.
type Offer struct {
	ID                uuid.UUID  `json:"id"`
	TeamMemberID      uuid.UUID  `json:"team_member_id"`
	VentureID         uuid.UUID  `json:"venture_id"`
	MemberUserID      uuid.UUID  `json:"member_user_id"`
	InitiatorUserID   uuid.UUID  `json:"initiator_user_id"`
	Terms             OfferTerms `json:"terms"`
	Status            string     `json:"status"`
	CurrentProposerID uuid.UUID  `json:"current_proposer_id"`
	Version           int        `json:"version"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// OtherParty returns the counter-party of the given user on this offer.
func (o *Offer) OtherParty(userID uuid.UUID) uuid.UUID {
	if userID == o.MemberUserID {
		return o.InitiatorUserID
	}
	return o.MemberUserID
}

// IsParty reports whether userID is one of the two negotiating sides.
func (o *Offer) IsParty(userID uuid.UUID) bool {
	return userID == o.MemberUserID || userID == o.InitiatorUserID
}

// OfferHistoryEntry is an immutable audit snapshot appended on every offer
// transition, in the same transaction as the offer write.
type OfferHistoryEntry struct {
	ID         uuid.UUID  `json:"id"`
	OfferID    uuid.UUID  `json:"offer_id"`
	ProposerID uuid.UUID  `json:"proposer_id"`
	Action     string     `json:"action"`
	Version    int        `json:"version"`
	Terms      OfferTerms `json:"terms"`
	CreatedAt  time.Time  `json:"created_at"`
}
