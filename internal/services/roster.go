package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/mvasic/cofound-api/internal/models"
)

// Tier is the display classification derived from accepted total equity.
type Tier string

const (
	TierHigh Tier = "high"
	TierMid  Tier = "mid"
	TierLow  Tier = "low"
)

// Tier thresholds on total (time + performance) equity percent.
const (
	tierHighThreshold = 11.0
	tierMidThreshold  = 6.0
)

// EffectiveTier classifies an offer's total equity. Callers decide whether
// the offer is accepted; see DisplayRole for the roster rule.
func EffectiveTier(terms models.OfferTerms) Tier {
	total := terms.TotalEquityPercent()
	switch {
	case total >= tierHighThreshold:
		return TierHigh
	case total >= tierMidThreshold:
		return TierMid
	default:
		return TierLow
	}
}

// DisplayRole is what the roster shows for a member: the default role tag
// until an offer is accepted, the equity tier afterwards. Unaccepted offers
// never affect the displayed role.
func DisplayRole(member *models.TeamMember, offer *models.Offer) string {
	if offer == nil || offer.Status != models.OfferStatusAccepted {
		return member.DefaultRoleTag
	}
	return string(EffectiveTier(offer.Terms))
}

// EquityAggregator is the read side the projector needs from the offer store.
type EquityAggregator interface {
	AggregateAcceptedEquity(ctx context.Context, ventureID uuid.UUID) (float64, error)
}

// RosterService projects roster-facing views out of accepted offers and
// tracks the per-venture equity pool.
type RosterService struct {
	offers         EquityAggregator
	ceilingPercent float64
}

func NewRosterService(offers EquityAggregator, ceilingPercent float64) *RosterService {
	return &RosterService{offers: offers, ceilingPercent: ceilingPercent}
}

// AggregateAcceptedEquity sums accepted equity across a venture's team.
func (s *RosterService) AggregateAcceptedEquity(ctx context.Context, ventureID uuid.UUID) (float64, error) {
	return s.offers.AggregateAcceptedEquity(ctx, ventureID)
}

// WouldExceedCeiling reports whether accepting the candidate terms would push
// the venture's accepted equity past the configured pool.
func (s *RosterService) WouldExceedCeiling(ctx context.Context, ventureID uuid.UUID, candidate models.OfferTerms) (bool, error) {
	total, err := s.offers.AggregateAcceptedEquity(ctx, ventureID)
	if err != nil {
		return false, err
	}
	return total+candidate.TotalEquityPercent() > s.ceilingPercent, nil
}
