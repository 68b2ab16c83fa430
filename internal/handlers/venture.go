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

type VentureHandler struct {
	ventureService VentureServiceInterface
	userService    UserServiceInterface
	offerReader    OfferReaderInterface
	rosterService  RosterServiceInterface
}

func NewVentureHandler(ventureService VentureServiceInterface, userService UserServiceInterface, offerReader OfferReaderInterface, rosterService RosterServiceInterface) *VentureHandler {
	return &VentureHandler{
		ventureService: ventureService,
		userService:    userService,
		offerReader:    offerReader,
		rosterService:  rosterService,
	}
}

func ventureResponse(v *models.Venture) dto.VentureResponse {
	return dto.VentureResponse{
		ID:          v.ID,
		Name:        v.Name,
		Pitch:       v.Pitch,
		Stage:       v.Stage,
		InitiatorID: v.InitiatorID,
	}
}

func (h *VentureHandler) Create(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateVentureRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Name == "" {
		c.BadRequest("name is required")
		return
	}

	venture, err := h.ventureService.Create(context.Background(), req.Name, req.Pitch, userID)
	if err != nil {
		c.InternalServerError("failed to create venture")
		return
	}

	_ = c.JSON(201, ventureResponse(venture))
}

func (h *VentureHandler) List(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	ventures, err := h.ventureService.GetUserVentures(context.Background(), userID)
	if err != nil {
		c.InternalServerError("failed to get ventures")
		return
	}

	response := make([]dto.VentureResponse, len(ventures))
	for i, v := range ventures {
		response[i] = ventureResponse(&v)
	}

	_ = c.JSON(200, response)
}

func (h *VentureHandler) Get(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	ventureID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid venture id")
		return
	}

	onTeam, err := h.ventureService.IsOnTeam(context.Background(), ventureID, userID)
	if err != nil || !onTeam {
		c.NotFound("venture not found")
		return
	}

	venture, err := h.ventureService.GetVenture(context.Background(), ventureID)
	if err != nil {
		c.NotFound("venture not found")
		return
	}

	_ = c.JSON(200, ventureResponse(venture))
}

func (h *VentureHandler) Update(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	ventureID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid venture id")
		return
	}

	initiator, err := h.ventureService.IsInitiator(context.Background(), ventureID, userID)
	if err != nil || !initiator {
		c.Forbidden("only the initiator can update the venture")
		return
	}

	var req dto.UpdateVentureRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Name == "" {
		c.BadRequest("name is required")
		return
	}
	if req.Stage == "" {
		req.Stage = models.StageIdea
	}

	venture, err := h.ventureService.Update(context.Background(), ventureID, req.Name, req.Pitch, req.Stage)
	if err != nil {
		c.InternalServerError("failed to update venture")
		return
	}

	_ = c.JSON(200, ventureResponse(venture))
}

func (h *VentureHandler) Delete(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	ventureID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid venture id")
		return
	}

	initiator, err := h.ventureService.IsInitiator(context.Background(), ventureID, userID)
	if err != nil || !initiator {
		c.Forbidden("only the initiator can delete the venture")
		return
	}

	if err := h.ventureService.Delete(context.Background(), ventureID); err != nil {
		c.InternalServerError("failed to delete venture")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "venture deleted"})
}

// GetRoster returns the team with each member's display role: the default
// role tag until an offer is accepted, the equity tier afterwards.
func (h *VentureHandler) GetRoster(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	ventureID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid venture id")
		return
	}

	ctx := context.Background()

	onTeam, err := h.ventureService.IsOnTeam(ctx, ventureID, userID)
	if err != nil || !onTeam {
		c.NotFound("venture not found")
		return
	}

	members, err := h.ventureService.GetTeamMembers(ctx, ventureID)
	if err != nil {
		c.InternalServerError("failed to get team")
		return
	}

	response := dto.RosterResponse{Members: make([]dto.TeamMemberResponse, len(members))}
	for i, member := range members {
		offer, err := h.offerReader.GetByTeamMember(ctx, member.ID)
		if err != nil {
			c.InternalServerError("failed to get team")
			return
		}

		resp := dto.TeamMemberResponse{
			ID:          member.ID,
			VentureID:   member.VentureID,
			UserID:      member.UserID,
			DisplayRole: services.DisplayRole(&member, offer),
		}
		if member.User != nil {
			resp.User = &dto.UserResponse{
				ID:         member.User.ID,
				Email:      member.User.Email,
				Name:       member.User.Name,
				AvatarURL:  member.User.AvatarURL,
				Provider:   member.User.Provider,
				GlobalRole: member.User.GlobalRole,
			}
		}
		response.Members[i] = resp
	}

	total, err := h.rosterService.AggregateAcceptedEquity(ctx, ventureID)
	if err != nil {
		c.InternalServerError("failed to get team")
		return
	}
	response.AcceptedEquityPercent = total

	_ = c.JSON(200, response)
}

func (h *VentureHandler) AddMember(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	ventureID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid venture id")
		return
	}

	initiator, err := h.ventureService.IsInitiator(context.Background(), ventureID, userID)
	if err != nil || !initiator {
		c.Forbidden("only the initiator can add co-builders")
		return
	}

	var req dto.AddTeamMemberRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Email == "" {
		c.BadRequest("email is required")
		return
	}
	if req.DefaultRoleTag == "" {
		req.DefaultRoleTag = "co-builder"
	}

	user, err := h.userService.GetByEmail(context.Background(), req.Email)
	if err != nil {
		c.NotFound("user not found")
		return
	}

	member, err := h.ventureService.AddMember(context.Background(), ventureID, user.ID, req.DefaultRoleTag)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAlreadyOnTeam):
			c.JSON(409, map[string]string{"error": "user is already on the team"})
		case errors.Is(err, services.ErrInitiatorOnRoster):
			c.BadRequest("the initiator cannot be added as a co-builder")
		default:
			c.InternalServerError("failed to add co-builder")
		}
		return
	}

	_ = c.JSON(201, dto.TeamMemberResponse{
		ID:          member.ID,
		VentureID:   member.VentureID,
		UserID:      member.UserID,
		DisplayRole: member.DefaultRoleTag,
	})
}

func (h *VentureHandler) RemoveMember(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	ventureID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid venture id")
		return
	}

	memberID, err := uuid.Parse(c.Param("memberId"))
	if err != nil {
		c.BadRequest("invalid member id")
		return
	}

	initiator, err := h.ventureService.IsInitiator(context.Background(), ventureID, userID)
	if err != nil || !initiator {
		c.Forbidden("only the initiator can remove co-builders")
		return
	}

	if err := h.ventureService.RemoveMember(context.Background(), ventureID, memberID); err != nil {
		switch {
		case errors.Is(err, services.ErrMemberNotFound):
			c.NotFound("team member not found")
		case errors.Is(err, services.ErrMemberHasAgreement):
			c.JSON(409, map[string]string{"error": "member has an accepted agreement"})
		default:
			c.InternalServerError("failed to remove co-builder")
		}
		return
	}

	_ = c.JSON(200, map[string]string{"message": "co-builder removed"})
}
