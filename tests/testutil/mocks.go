package testutil

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mvasic/cofound-api/internal/models"
	"github.com/mvasic/cofound-api/internal/oauth"
	"github.com/mvasic/cofound-api/internal/services"
	"github.com/stretchr/testify/mock"
)

// MockUserService mocks the UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) FindOrCreateFromOAuth(ctx context.Context, info *oauth.UserInfo) (*models.User, error) {
	args := m.Called(ctx, info)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockUserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, id uuid.UUID, name string) (*models.User, error) {
	args := m.Called(ctx, id, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockVentureService mocks the VentureService
type MockVentureService struct {
	mock.Mock
}

func (m *MockVentureService) Create(ctx context.Context, name, pitch string, initiatorID uuid.UUID) (*models.Venture, error) {
	args := m.Called(ctx, name, pitch, initiatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Venture), args.Error(1)
}

func (m *MockVentureService) GetVenture(ctx context.Context, ventureID uuid.UUID) (*models.Venture, error) {
	args := m.Called(ctx, ventureID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Venture), args.Error(1)
}

func (m *MockVentureService) GetUserVentures(ctx context.Context, userID uuid.UUID) ([]models.Venture, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Venture), args.Error(1)
}

func (m *MockVentureService) Update(ctx context.Context, ventureID uuid.UUID, name, pitch, stage string) (*models.Venture, error) {
	args := m.Called(ctx, ventureID, name, pitch, stage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Venture), args.Error(1)
}

func (m *MockVentureService) Delete(ctx context.Context, ventureID uuid.UUID) error {
	args := m.Called(ctx, ventureID)
	return args.Error(0)
}

func (m *MockVentureService) IsInitiator(ctx context.Context, ventureID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, ventureID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockVentureService) IsOnTeam(ctx context.Context, ventureID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, ventureID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockVentureService) AddMember(ctx context.Context, ventureID, userID uuid.UUID, defaultRoleTag string) (*models.TeamMember, error) {
	args := m.Called(ctx, ventureID, userID, defaultRoleTag)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TeamMember), args.Error(1)
}

func (m *MockVentureService) GetTeamMember(ctx context.Context, teamMemberID uuid.UUID) (*models.TeamMember, error) {
	args := m.Called(ctx, teamMemberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TeamMember), args.Error(1)
}

func (m *MockVentureService) GetTeamMembers(ctx context.Context, ventureID uuid.UUID) ([]models.TeamMember, error) {
	args := m.Called(ctx, ventureID)
	return args.Get(0).([]models.TeamMember), args.Error(1)
}

func (m *MockVentureService) RemoveMember(ctx context.Context, ventureID, teamMemberID uuid.UUID) error {
	args := m.Called(ctx, ventureID, teamMemberID)
	return args.Error(0)
}

// MockNegotiationService mocks the NegotiationService
type MockNegotiationService struct {
	mock.Mock
}

func (m *MockNegotiationService) SubmitProposal(ctx context.Context, teamMemberID, actingUserID uuid.UUID, terms models.OfferTerms, expectedVersion int) (*models.Offer, error) {
	args := m.Called(ctx, teamMemberID, actingUserID, terms, expectedVersion)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Offer), args.Error(1)
}

func (m *MockNegotiationService) AcceptOffer(ctx context.Context, offerID, actingUserID uuid.UUID, expectedVersion int) (*models.Offer, error) {
	args := m.Called(ctx, offerID, actingUserID, expectedVersion)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Offer), args.Error(1)
}

// MockOfferReader mocks the read side of the OfferService
type MockOfferReader struct {
	mock.Mock
}

func (m *MockOfferReader) GetByTeamMember(ctx context.Context, teamMemberID uuid.UUID) (*models.Offer, error) {
	args := m.Called(ctx, teamMemberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Offer), args.Error(1)
}

func (m *MockOfferReader) GetByID(ctx context.Context, offerID uuid.UUID) (*models.Offer, error) {
	args := m.Called(ctx, offerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Offer), args.Error(1)
}

func (m *MockOfferReader) History(ctx context.Context, offerID uuid.UUID) ([]models.OfferHistoryEntry, error) {
	args := m.Called(ctx, offerID)
	return args.Get(0).([]models.OfferHistoryEntry), args.Error(1)
}

// MockRosterService mocks the RosterService
type MockRosterService struct {
	mock.Mock
}

func (m *MockRosterService) AggregateAcceptedEquity(ctx context.Context, ventureID uuid.UUID) (float64, error) {
	args := m.Called(ctx, ventureID)
	return args.Get(0).(float64), args.Error(1)
}

// MockNotificationService mocks the NotificationService
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) ListNotifications(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	args := m.Called(ctx, notificationID, userID)
	return args.Error(0)
}

// MockTokenService mocks the TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) StoreRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, tokenHash, expiresAt)
	return args.Error(0)
}

func (m *MockTokenService) ValidateRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	args := m.Called(ctx, tokenHash)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockTokenService) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}

func (m *MockTokenService) RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockJWTService mocks the JWTService used by handlers
type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) GenerateTokenPair(userID uuid.UUID, email string) (*services.TokenPair, error) {
	args := m.Called(userID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TokenPair), args.Error(1)
}

func (m *MockJWTService) ValidateRefreshToken(token string) (uuid.UUID, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockJWTService) RefreshExpiry() time.Duration {
	args := m.Called()
	return args.Get(0).(time.Duration)
}
