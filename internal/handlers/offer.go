package handlers

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/mvasic/cofound-api/internal/middleware"
	"github.com/mvasic/cofound-api/internal/models"
	"github.com/mvasic/cofound-api/internal/services"
	"github.com/mvasic/cofound-api/pkg/dto"
)

type OfferHandler struct {
	negotiationService NegotiationServiceInterface
	offerReader        OfferReaderInterface
}

func NewOfferHandler(negotiationService NegotiationServiceInterface, offerReader OfferReaderInterface) *OfferHandler {
	return &OfferHandler{
		negotiationService: negotiationService,
		offerReader:        offerReader,
	}
}

func offerResponse(o *models.Offer) dto.OfferResponse {
	return dto.OfferResponse{
		ID:                       o.ID,
		TeamMemberID:             o.TeamMemberID,
		VentureID:                o.VentureID,
		MemberUserID:             o.MemberUserID,
		InitiatorUserID:          o.InitiatorUserID,
		MonthlySalaryCents:       o.Terms.MonthlySalaryCents,
		SalaryCurrency:           o.Terms.SalaryCurrency,
		TimeEquityPercent:        o.Terms.TimeEquityPercent,
		CliffYears:               o.Terms.CliffYears,
		VestingYears:             o.Terms.VestingYears,
		PerformanceEquityPercent: o.Terms.PerformanceEquityPercent,
		PerformanceMilestone:     o.Terms.PerformanceMilestone,
		Status:                   o.Status,
		CurrentProposerID:        o.CurrentProposerID,
		Version:                  o.Version,
	}
}

// negotiationError maps engine errors onto HTTP statuses. Conflict-class
// failures (turn, version, terminal state) all land on 409 so clients re-read
// before retrying.
func negotiationError(c *drift.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidTerms):
		c.BadRequest(err.Error())
	case errors.Is(err, services.ErrNotInitiator), errors.Is(err, services.ErrNotParticipant):
		c.Forbidden(err.Error())
	case errors.Is(err, services.ErrNotYourTurn),
		errors.Is(err, services.ErrOfferAccepted),
		errors.Is(err, services.ErrVersionConflict),
		errors.Is(err, services.ErrEquityCeiling):
		c.JSON(409, map[string]string{"error": err.Error()})
	case errors.Is(err, services.ErrOfferNotFound), errors.Is(err, services.ErrMemberNotFound):
		c.NotFound(err.Error())
	default:
		c.InternalServerError("negotiation failed")
	}
}

// SubmitProposal opens the negotiation for a team membership or counters the
// standing offer, depending on whether an offer exists yet.
func (h *OfferHandler) SubmitProposal(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	teamMemberID, err := uuid.Parse(c.Param("memberId"))
	if err != nil {
		c.BadRequest("invalid team member id")
		return
	}

	var req dto.SubmitProposalRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	terms := models.OfferTerms{
		MonthlySalaryCents:       req.MonthlySalaryCents,
		SalaryCurrency:           req.SalaryCurrency,
		TimeEquityPercent:        req.TimeEquityPercent,
		CliffYears:               req.CliffYears,
		VestingYears:             req.VestingYears,
		PerformanceEquityPercent: req.PerformanceEquityPercent,
		PerformanceMilestone:     req.PerformanceMilestone,
	}

	offer, err := h.negotiationService.SubmitProposal(context.Background(), teamMemberID, userID, terms, req.ExpectedVersion)
	if err != nil {
		negotiationError(c, err)
		return
	}

	status := 200
	if offer.Version == 1 {
		status = 201
	}
	_ = c.JSON(status, offerResponse(offer))
}

func (h *OfferHandler) Accept(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	offerID, err := uuid.Parse(c.Param("offerId"))
	if err != nil {
		c.BadRequest("invalid offer id")
		return
	}

	var req dto.AcceptOfferRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	offer, err := h.negotiationService.AcceptOffer(context.Background(), offerID, userID, req.ExpectedVersion)
	if err != nil {
		negotiationError(c, err)
		return
	}

	_ = c.JSON(200, offerResponse(offer))
}

// Get returns the standing offer for a team membership, 404 when the
// negotiation has not been opened.
func (h *OfferHandler) Get(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	teamMemberID, err := uuid.Parse(c.Param("memberId"))
	if err != nil {
		c.BadRequest("invalid team member id")
		return
	}

	offer, err := h.offerReader.GetByTeamMember(context.Background(), teamMemberID)
	if err != nil {
		c.InternalServerError("failed to get offer")
		return
	}
	if offer == nil {
		c.NotFound("no offer yet")
		return
	}
	if !offer.IsParty(userID) {
		c.Forbidden("not a party to this negotiation")
		return
	}

	_ = c.JSON(200, offerResponse(offer))
}

// CanAct is a UI hint only; the engine re-derives turn ownership on every
// mutating call.
func (h *OfferHandler) CanAct(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	teamMemberID, err := uuid.Parse(c.Param("memberId"))
	if err != nil {
		c.BadRequest("invalid team member id")
		return
	}

	offer, err := h.offerReader.GetByTeamMember(context.Background(), teamMemberID)
	if err != nil {
		c.InternalServerError("failed to get offer")
		return
	}

	_ = c.JSON(200, dto.CanActResponse{CanAct: services.CanActNow(offer, userID)})
}

func (h *OfferHandler) History(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	offerID, err := uuid.Parse(c.Param("offerId"))
	if err != nil {
		c.BadRequest("invalid offer id")
		return
	}

	offer, err := h.offerReader.GetByID(context.Background(), offerID)
	if err != nil {
		if errors.Is(err, services.ErrOfferNotFound) {
			c.NotFound("offer not found")
		} else {
			c.InternalServerError("failed to get offer")
		}
		return
	}
	if !offer.IsParty(userID) {
		c.Forbidden("not a party to this negotiation")
		return
	}

	entries, err := h.offerReader.History(context.Background(), offerID)
	if err != nil {
		c.InternalServerError("failed to get offer history")
		return
	}

	response := make([]dto.OfferHistoryEntryResponse, len(entries))
	for i, e := range entries {
		response[i] = dto.OfferHistoryEntryResponse{
			ID:                       e.ID,
			ProposerID:               e.ProposerID,
			Action:                   e.Action,
			Version:                  e.Version,
			MonthlySalaryCents:       e.Terms.MonthlySalaryCents,
			SalaryCurrency:           e.Terms.SalaryCurrency,
			TimeEquityPercent:        e.Terms.TimeEquityPercent,
			CliffYears:               e.Terms.CliffYears,
			VestingYears:             e.Terms.VestingYears,
			PerformanceEquityPercent: e.Terms.PerformanceEquityPercent,
			PerformanceMilestone:     e.Terms.PerformanceMilestone,
			CreatedAt:                e.CreatedAt,
		}
	}

	_ = c.JSON(200, response)
}
