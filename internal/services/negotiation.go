package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mvasic/cofound-api/internal/models"
	"go.uber.org/zap"
)

var (
	ErrInvalidTerms   = errors.New("invalid terms")
	ErrNotYourTurn    = errors.New("waiting for the other party")
	ErrOfferAccepted  = errors.New("offer already accepted")
	ErrNotInitiator   = errors.New("only the venture initiator can open a negotiation")
	ErrNotParticipant = errors.New("not a party to this negotiation")
	ErrEquityCeiling  = errors.New("venture equity pool exceeded")
)

// Term bounds. Equity is a percentage per component; cliff and vesting are in
// years.
const (
	MaxEquityPercent = 85.0
	MaxCliffYears    = 4
	MinVestingYears  = 1
	MaxVestingYears  = 6
)

// OfferStore persists offers plus their append-only history. Both write
// operations must commit the offer row and the history snapshot atomically.
type OfferStore interface {
	GetByTeamMember(ctx context.Context, teamMemberID uuid.UUID) (*models.Offer, error)
	GetByID(ctx context.Context, offerID uuid.UUID) (*models.Offer, error)
	CreateWithHistory(ctx context.Context, offer *models.Offer) (*models.Offer, error)
	UpdateWithVersionCheck(ctx context.Context, offerID uuid.UUID, expectedVersion int, patch OfferPatch) (*models.Offer, error)
}

// TeamReader resolves the relationship a new negotiation is opened over.
type TeamReader interface {
	GetTeamMember(ctx context.Context, teamMemberID uuid.UUID) (*models.TeamMember, error)
	GetVenture(ctx context.Context, ventureID uuid.UUID) (*models.Venture, error)
}

// EquityChecker guards the per-venture accepted-equity pool.
type EquityChecker interface {
	WouldExceedCeiling(ctx context.Context, ventureID uuid.UUID, candidate models.OfferTerms) (bool, error)
}

// Notifier is a fire-and-forget sink; dispatch failures never roll back a
// negotiation transition.
type Notifier interface {
	Dispatch(ctx context.Context, event NotificationEvent)
}

// NegotiationService is the turn-based offer/counter-offer/accept state
// machine. Turn ownership and versions are always re-derived from the
// persisted offer, never trusted from the caller.
type NegotiationService struct {
	offers          OfferStore
	teams           TeamReader
	equity          EquityChecker
	notifier        Notifier
	log             *zap.Logger
	ceilingEnforced bool
}

func NewNegotiationService(offers OfferStore, teams TeamReader, equity EquityChecker, notifier Notifier, log *zap.Logger, ceilingEnforced bool) *NegotiationService {
	return &NegotiationService{
		offers:          offers,
		teams:           teams,
		equity:          equity,
		notifier:        notifier,
		log:             log,
		ceilingEnforced: ceilingEnforced,
	}
}

// SubmitProposal opens a negotiation (no offer exists yet for the team
// membership) or counter-proposes on the standing offer. expectedVersion is
// the version the caller last read, 0 when opening.
func (s *NegotiationService) SubmitProposal(ctx context.Context, teamMemberID, actingUserID uuid.UUID, terms models.OfferTerms, expectedVersion int) (*models.Offer, error) {
	if err := validateTerms(terms); err != nil {
		return nil, err
	}

	offer, err := s.offers.GetByTeamMember(ctx, teamMemberID)
	if err != nil {
		return nil, err
	}

	if offer == nil {
		return s.openNegotiation(ctx, teamMemberID, actingUserID, terms, expectedVersion)
	}

	if offer.Status == models.OfferStatusAccepted {
		return nil, ErrOfferAccepted
	}
	if !offer.IsParty(actingUserID) {
		return nil, ErrNotParticipant
	}
	if actingUserID == offer.CurrentProposerID {
		return nil, ErrNotYourTurn
	}
	if expectedVersion != offer.Version {
		return nil, ErrVersionConflict
	}

	updated, err := s.offers.UpdateWithVersionCheck(ctx, offer.ID, expectedVersion, OfferPatch{
		Terms:             &terms,
		CurrentProposerID: &actingUserID,
		ActorID:           actingUserID,
		HistoryAction:     models.HistoryActionCounterProposed,
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Dispatch(ctx, NotificationEvent{
		Type:        models.NotificationNegotiationUpdate,
		RecipientID: updated.OtherParty(actingUserID),
		Payload:     negotiationPayload(updated),
	})

	return updated, nil
}

func (s *NegotiationService) openNegotiation(ctx context.Context, teamMemberID, actingUserID uuid.UUID, terms models.OfferTerms, expectedVersion int) (*models.Offer, error) {
	if expectedVersion != 0 {
		return nil, ErrVersionConflict
	}

	member, err := s.teams.GetTeamMember(ctx, teamMemberID)
	if err != nil {
		return nil, err
	}
	venture, err := s.teams.GetVenture(ctx, member.VentureID)
	if err != nil {
		return nil, err
	}
	if actingUserID != venture.InitiatorID {
		return nil, ErrNotInitiator
	}

	created, err := s.offers.CreateWithHistory(ctx, &models.Offer{
		TeamMemberID:      teamMemberID,
		VentureID:         member.VentureID,
		MemberUserID:      member.UserID,
		InitiatorUserID:   venture.InitiatorID,
		Terms:             terms,
		Status:            models.OfferStatusProposed,
		CurrentProposerID: actingUserID,
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Dispatch(ctx, NotificationEvent{
		Type:        models.NotificationNegotiationUpdate,
		RecipientID: created.OtherParty(actingUserID),
		Payload:     negotiationPayload(created),
	})

	return created, nil
}

// AcceptOffer terminates the negotiation: the standing terms freeze, status
// flips to accepted and no further transition is possible. Only the party who
// did not submit the standing terms may accept.
func (s *NegotiationService) AcceptOffer(ctx context.Context, offerID, actingUserID uuid.UUID, expectedVersion int) (*models.Offer, error) {
	offer, err := s.offers.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}

	if offer.Status == models.OfferStatusAccepted {
		return nil, ErrOfferAccepted
	}
	if !offer.IsParty(actingUserID) {
		return nil, ErrNotParticipant
	}
	if actingUserID == offer.CurrentProposerID {
		return nil, ErrNotYourTurn
	}
	if expectedVersion != offer.Version {
		return nil, ErrVersionConflict
	}

	exceeds, err := s.equity.WouldExceedCeiling(ctx, offer.VentureID, offer.Terms)
	if err != nil {
		return nil, err
	}
	if exceeds {
		if s.ceilingEnforced {
			return nil, ErrEquityCeiling
		}
		s.log.Warn("accepted equity exceeds venture pool",
			zap.String("venture_id", offer.VentureID.String()),
			zap.String("offer_id", offer.ID.String()),
			zap.Float64("candidate_percent", offer.Terms.TotalEquityPercent()))
	}

	updated, err := s.offers.UpdateWithVersionCheck(ctx, offer.ID, expectedVersion, OfferPatch{
		Status:        models.OfferStatusAccepted,
		ActorID:       actingUserID,
		HistoryAction: models.HistoryActionAccepted,
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Dispatch(ctx, NotificationEvent{
		Type:        models.NotificationNegotiationAccepted,
		RecipientID: updated.OtherParty(actingUserID),
		Payload:     negotiationPayload(updated),
	})

	return updated, nil
}

// CanActNow reports whether userID may submit or accept next. A nil offer
// means the negotiation is open to its initiator. Pure; presentation layers
// may use it as a hint but every mutating call re-derives it.
func CanActNow(offer *models.Offer, userID uuid.UUID) bool {
	if offer == nil {
		return true
	}
	if offer.Status == models.OfferStatusAccepted {
		return false
	}
	return offer.IsParty(userID) && offer.CurrentProposerID != userID
}

// validateTerms fails fast, first violation wins.
func validateTerms(terms models.OfferTerms) error {
	if terms.TotalEquityPercent() <= 0 {
		return fmt.Errorf("%w: equity required", ErrInvalidTerms)
	}
	if terms.PerformanceEquityPercent > 0 && strings.TrimSpace(terms.PerformanceMilestone) == "" {
		return fmt.Errorf("%w: milestone required", ErrInvalidTerms)
	}
	if terms.TimeEquityPercent < 0 || terms.TimeEquityPercent > MaxEquityPercent {
		return fmt.Errorf("%w: time equity out of range", ErrInvalidTerms)
	}
	if terms.PerformanceEquityPercent < 0 || terms.PerformanceEquityPercent > MaxEquityPercent {
		return fmt.Errorf("%w: performance equity out of range", ErrInvalidTerms)
	}
	if terms.CliffYears < 0 || terms.CliffYears > MaxCliffYears {
		return fmt.Errorf("%w: cliff out of range", ErrInvalidTerms)
	}
	if terms.VestingYears < MinVestingYears || terms.VestingYears > MaxVestingYears {
		return fmt.Errorf("%w: vesting out of range", ErrInvalidTerms)
	}
	if terms.MonthlySalaryCents != nil {
		if *terms.MonthlySalaryCents < 0 {
			return fmt.Errorf("%w: salary must be non-negative", ErrInvalidTerms)
		}
		if terms.SalaryCurrency == nil || len(*terms.SalaryCurrency) != 3 {
			return fmt.Errorf("%w: salary currency required", ErrInvalidTerms)
		}
	}
	return nil
}

func negotiationPayload(offer *models.Offer) map[string]any {
	return map[string]any{
		"offer_id":       offer.ID,
		"team_member_id": offer.TeamMemberID,
		"venture_id":     offer.VentureID,
		"version":        offer.Version,
		"status":         offer.Status,
	}
}
