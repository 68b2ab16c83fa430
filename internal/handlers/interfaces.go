package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mvasic/cofound-api/internal/models"
	"github.com/mvasic/cofound-api/internal/oauth"
	"github.com/mvasic/cofound-api/internal/services"
)

// UserServiceInterface defines the methods used by handlers from UserService
type UserServiceInterface interface {
	FindOrCreateFromOAuth(ctx context.Context, info *oauth.UserInfo) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, name string) (*models.User, error)
}

// VentureServiceInterface defines the methods used by handlers from VentureService
type VentureServiceInterface interface {
	Create(ctx context.Context, name, pitch string, initiatorID uuid.UUID) (*models.Venture, error)
	GetVenture(ctx context.Context, ventureID uuid.UUID) (*models.Venture, error)
	GetUserVentures(ctx context.Context, userID uuid.UUID) ([]models.Venture, error)
	Update(ctx context.Context, ventureID uuid.UUID, name, pitch, stage string) (*models.Venture, error)
	Delete(ctx context.Context, ventureID uuid.UUID) error
	IsInitiator(ctx context.Context, ventureID, userID uuid.UUID) (bool, error)
	IsOnTeam(ctx context.Context, ventureID, userID uuid.UUID) (bool, error)
	AddMember(ctx context.Context, ventureID, userID uuid.UUID, defaultRoleTag string) (*models.TeamMember, error)
	GetTeamMember(ctx context.Context, teamMemberID uuid.UUID) (*models.TeamMember, error)
	GetTeamMembers(ctx context.Context, ventureID uuid.UUID) ([]models.TeamMember, error)
	RemoveMember(ctx context.Context, ventureID, teamMemberID uuid.UUID) error
}

// NegotiationServiceInterface defines the methods used by handlers from NegotiationService
type NegotiationServiceInterface interface {
	SubmitProposal(ctx context.Context, teamMemberID, actingUserID uuid.UUID, terms models.OfferTerms, expectedVersion int) (*models.Offer, error)
	AcceptOffer(ctx context.Context, offerID, actingUserID uuid.UUID, expectedVersion int) (*models.Offer, error)
}

// OfferReaderInterface defines the read-side methods used by handlers from OfferService
type OfferReaderInterface interface {
	GetByTeamMember(ctx context.Context, teamMemberID uuid.UUID) (*models.Offer, error)
	GetByID(ctx context.Context, offerID uuid.UUID) (*models.Offer, error)
	History(ctx context.Context, offerID uuid.UUID) ([]models.OfferHistoryEntry, error)
}

// RosterServiceInterface defines the methods used by handlers from RosterService
type RosterServiceInterface interface {
	AggregateAcceptedEquity(ctx context.Context, ventureID uuid.UUID) (float64, error)
}

// NotificationServiceInterface defines the methods used by handlers from NotificationService
type NotificationServiceInterface interface {
	ListNotifications(ctx context.Context, userID uuid.UUID) ([]models.Notification, error)
	MarkRead(ctx context.Context, notificationID, userID uuid.UUID) error
}

// TokenServiceInterface defines the methods used by handlers from TokenService
type TokenServiceInterface interface {
	StoreRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	ValidateRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error
}

// JWTServiceInterface defines the methods used by handlers from JWTService
type JWTServiceInterface interface {
	GenerateTokenPair(userID uuid.UUID, email string) (*services.TokenPair, error)
	ValidateRefreshToken(token string) (uuid.UUID, error)
	RefreshExpiry() time.Duration
}
