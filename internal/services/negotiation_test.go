package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mvasic/cofound-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockOfferStore struct {
	mock.Mock
}

func (m *mockOfferStore) GetByTeamMember(ctx context.Context, teamMemberID uuid.UUID) (*models.Offer, error) {
	args := m.Called(ctx, teamMemberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Offer), args.Error(1)
}

func (m *mockOfferStore) GetByID(ctx context.Context, offerID uuid.UUID) (*models.Offer, error) {
	args := m.Called(ctx, offerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Offer), args.Error(1)
}

func (m *mockOfferStore) CreateWithHistory(ctx context.Context, offer *models.Offer) (*models.Offer, error) {
	args := m.Called(ctx, offer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Offer), args.Error(1)
}

func (m *mockOfferStore) UpdateWithVersionCheck(ctx context.Context, offerID uuid.UUID, expectedVersion int, patch OfferPatch) (*models.Offer, error) {
	args := m.Called(ctx, offerID, expectedVersion, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Offer), args.Error(1)
}

type mockTeamReader struct {
	mock.Mock
}

func (m *mockTeamReader) GetTeamMember(ctx context.Context, teamMemberID uuid.UUID) (*models.TeamMember, error) {
	args := m.Called(ctx, teamMemberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TeamMember), args.Error(1)
}

func (m *mockTeamReader) GetVenture(ctx context.Context, ventureID uuid.UUID) (*models.Venture, error) {
	args := m.Called(ctx, ventureID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Venture), args.Error(1)
}

type mockEquityChecker struct {
	mock.Mock
}

func (m *mockEquityChecker) WouldExceedCeiling(ctx context.Context, ventureID uuid.UUID, candidate models.OfferTerms) (bool, error) {
	args := m.Called(ctx, ventureID, candidate)
	return args.Bool(0), args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Dispatch(ctx context.Context, event NotificationEvent) {
	m.Called(ctx, event)
}

type negotiationFixture struct {
	svc      *NegotiationService
	offers   *mockOfferStore
	teams    *mockTeamReader
	equity   *mockEquityChecker
	notifier *mockNotifier

	teamMemberID uuid.UUID
	ventureID    uuid.UUID
	memberID     uuid.UUID
	initiatorID  uuid.UUID
}

func setupNegotiation(t *testing.T, ceilingEnforced bool) *negotiationFixture {
	t.Helper()
	f := &negotiationFixture{
		offers:       new(mockOfferStore),
		teams:        new(mockTeamReader),
		equity:       new(mockEquityChecker),
		notifier:     new(mockNotifier),
		teamMemberID: uuid.New(),
		ventureID:    uuid.New(),
		memberID:     uuid.New(),
		initiatorID:  uuid.New(),
	}
	f.svc = NewNegotiationService(f.offers, f.teams, f.equity, f.notifier, zap.NewNop(), ceilingEnforced)
	return f
}

func (f *negotiationFixture) standingOffer(proposerID uuid.UUID, version int, status string) *models.Offer {
	return &models.Offer{
		ID:                uuid.New(),
		TeamMemberID:      f.teamMemberID,
		VentureID:         f.ventureID,
		MemberUserID:      f.memberID,
		InitiatorUserID:   f.initiatorID,
		Terms:             validOfferTerms(),
		Status:            status,
		CurrentProposerID: proposerID,
		Version:           version,
	}
}

func validOfferTerms() models.OfferTerms {
	return models.OfferTerms{
		TimeEquityPercent: 5.0,
		CliffYears:        1,
		VestingYears:      4,
	}
}

func TestSubmitProposal_OpensNegotiation(t *testing.T) {
	f := setupNegotiation(t, false)
	ctx := context.Background()
	terms := validOfferTerms()

	f.offers.On("GetByTeamMember", ctx, f.teamMemberID).Return(nil, nil)
	f.teams.On("GetTeamMember", ctx, f.teamMemberID).Return(&models.TeamMember{
		ID:        f.teamMemberID,
		VentureID: f.ventureID,
		UserID:    f.memberID,
	}, nil)
	f.teams.On("GetVenture", ctx, f.ventureID).Return(&models.Venture{
		ID:          f.ventureID,
		InitiatorID: f.initiatorID,
	}, nil)

	created := f.standingOffer(f.initiatorID, 1, models.OfferStatusProposed)
	f.offers.On("CreateWithHistory", ctx, mock.MatchedBy(func(o *models.Offer) bool {
		return o.TeamMemberID == f.teamMemberID &&
			o.CurrentProposerID == f.initiatorID &&
			o.Status == models.OfferStatusProposed
	})).Return(created, nil)
	f.notifier.On("Dispatch", ctx, mock.MatchedBy(func(e NotificationEvent) bool {
		return e.Type == models.NotificationNegotiationUpdate && e.RecipientID == f.memberID
	})).Once()

	offer, err := f.svc.SubmitProposal(ctx, f.teamMemberID, f.initiatorID, terms, 0)

	require.NoError(t, err)
	assert.Equal(t, 1, offer.Version)
	f.offers.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestSubmitProposal_OnlyInitiatorOpens(t *testing.T) {
	f := setupNegotiation(t, false)
	ctx := context.Background()

	f.offers.On("GetByTeamMember", ctx, f.teamMemberID).Return(nil, nil)
	f.teams.On("GetTeamMember", ctx, f.teamMemberID).Return(&models.TeamMember{
		ID:        f.teamMemberID,
		VentureID: f.ventureID,
		UserID:    f.memberID,
	}, nil)
	f.teams.On("GetVenture", ctx, f.ventureID).Return(&models.Venture{
		ID:          f.ventureID,
		InitiatorID: f.initiatorID,
	}, nil)

	_, err := f.svc.SubmitProposal(ctx, f.teamMemberID, f.memberID, validOfferTerms(), 0)

	assert.ErrorIs(t, err, ErrNotInitiator)
	f.offers.AssertNotCalled(t, "CreateWithHistory", mock.Anything, mock.Anything)
}

func TestSubmitProposal_OpenRequiresVersionZero(t *testing.T) {
	f := setupNegotiation(t, false)
	ctx := context.Background()

	f.offers.On("GetByTeamMember", ctx, f.teamMemberID).Return(nil, nil)

	_, err := f.svc.SubmitProposal(ctx, f.teamMemberID, f.initiatorID, validOfferTerms(), 1)

	assert.ErrorIs(t, err, ErrVersionConflict)
}

func TestSubmitProposal_CounterAlternatesTurn(t *testing.T) {
	f := setupNegotiation(t, false)
	ctx := context.Background()
	standing := f.standingOffer(f.initiatorID, 1, models.OfferStatusProposed)
	counter := models.OfferTerms{TimeEquityPercent: 8.0, CliffYears: 1, VestingYears: 4}

	f.offers.On("GetByTeamMember", ctx, f.teamMemberID).Return(standing, nil)

	updated := f.standingOffer(f.memberID, 2, models.OfferStatusProposed)
	updated.Terms = counter
	f.offers.On("UpdateWithVersionCheck", ctx, standing.ID, 1, mock.MatchedBy(func(p OfferPatch) bool {
		return p.Terms != nil && p.Terms.TimeEquityPercent == 8.0 &&
			p.CurrentProposerID != nil && *p.CurrentProposerID == f.memberID &&
			p.HistoryAction == models.HistoryActionCounterProposed
	})).Return(updated, nil)
	f.notifier.On("Dispatch", ctx, mock.MatchedBy(func(e NotificationEvent) bool {
		return e.Type == models.NotificationNegotiationUpdate && e.RecipientID == f.initiatorID
	})).Once()

	offer, err := f.svc.SubmitProposal(ctx, f.teamMemberID, f.memberID, counter, 1)

	require.NoError(t, err)
	assert.Equal(t, 2, offer.Version)
	assert.Equal(t, f.memberID, offer.CurrentProposerID)
	f.notifier.AssertExpectations(t)
}

func TestSubmitProposal_NotYourTurn(t *testing.T) {
	f := setupNegotiation(t, false)
	ctx := context.Background()
	standing := f.standingOffer(f.initiatorID, 1, models.OfferStatusProposed)

	f.offers.On("GetByTeamMember", ctx, f.teamMemberID).Return(standing, nil)

	// The initiator holds the standing proposal; countering themselves is not a move.
	_, err := f.svc.SubmitProposal(ctx, f.teamMemberID, f.initiatorID, validOfferTerms(), 1)

	assert.ErrorIs(t, err, ErrNotYourTurn)
	f.offers.AssertNotCalled(t, "UpdateWithVersionCheck", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitProposal_Outsider(t *testing.T) {
	f := setupNegotiation(t, false)
	ctx := context.Background()
	standing := f.standingOffer(f.initiatorID, 1, models.OfferStatusProposed)

	f.offers.On("GetByTeamMember", ctx, f.teamMemberID).Return(standing, nil)

	_, err := f.svc.SubmitProposal(ctx, f.teamMemberID, uuid.New(), validOfferTerms(), 1)

	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestSubmitProposal_StaleVersion(t *testing.T) {
	f := setupNegotiation(t, false)
	ctx := context.Background()
	standing := f.standingOffer(f.initiatorID, 2, models.OfferStatusProposed)

	f.offers.On("GetByTeamMember", ctx, f.teamMemberID).Return(standing, nil)

	_, err := f.svc.SubmitProposal(ctx, f.teamMemberID, f.memberID, validOfferTerms(), 1)

	assert.ErrorIs(t, err, ErrVersionConflict)
}

func TestSubmitProposal_AcceptedIsImmutable(t *testing.T) {
	f := setupNegotiation(t, false)
	ctx := context.Background()
	standing := f.standingOffer(f.initiatorID, 3, models.OfferStatusAccepted)

	f.offers.On("GetByTeamMember", ctx, f.teamMemberID).Return(standing, nil)

	_, err := f.svc.SubmitProposal(ctx, f.teamMemberID, f.memberID, validOfferTerms(), 3)

	assert.ErrorIs(t, err, ErrOfferAccepted)
	f.offers.AssertNotCalled(t, "UpdateWithVersionCheck", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAcceptOffer(t *testing.T) {
	f := setupNegotiation(t, false)
	ctx := context.Background()
	standing := f.standingOffer(f.initiatorID, 2, models.OfferStatusProposed)

	f.offers.On("GetByID", ctx, standing.ID).Return(standing, nil)
	f.equity.On("WouldExceedCeiling", ctx, f.ventureID, standing.Terms).Return(false, nil)

	accepted := f.standingOffer(f.initiatorID, 3, models.OfferStatusAccepted)
	accepted.ID = standing.ID
	f.offers.On("UpdateWithVersionCheck", ctx, standing.ID, 2, mock.MatchedBy(func(p OfferPatch) bool {
		return p.Status == models.OfferStatusAccepted &&
			p.ActorID == f.memberID &&
			p.HistoryAction == models.HistoryActionAccepted
	})).Return(accepted, nil)
	f.notifier.On("Dispatch", ctx, mock.MatchedBy(func(e NotificationEvent) bool {
		return e.Type == models.NotificationNegotiationAccepted && e.RecipientID == f.initiatorID
	})).Once()

	offer, err := f.svc.AcceptOffer(ctx, standing.ID, f.memberID, 2)

	require.NoError(t, err)
	assert.Equal(t, models.OfferStatusAccepted, offer.Status)
	assert.Equal(t, 3, offer.Version)
	f.notifier.AssertExpectations(t)
}

func TestAcceptOffer_CannotAcceptOwnProposal(t *testing.T) {
	f := setupNegotiation(t, false)
	ctx := context.Background()
	standing := f.standingOffer(f.initiatorID, 1, models.OfferStatusProposed)

	f.offers.On("GetByID", ctx, standing.ID).Return(standing, nil)

	_, err := f.svc.AcceptOffer(ctx, standing.ID, f.initiatorID, 1)

	assert.ErrorIs(t, err, ErrNotYourTurn)
}

func TestAcceptOffer_AlreadyAccepted(t *testing.T) {
	f := setupNegotiation(t, false)
	ctx := context.Background()
	standing := f.standingOffer(f.initiatorID, 3, models.OfferStatusAccepted)

	f.offers.On("GetByID", ctx, standing.ID).Return(standing, nil)

	_, err := f.svc.AcceptOffer(ctx, standing.ID, f.memberID, 3)

	assert.ErrorIs(t, err, ErrOfferAccepted)
}

func TestAcceptOffer_StaleVersion(t *testing.T) {
	f := setupNegotiation(t, false)
	ctx := context.Background()
	standing := f.standingOffer(f.initiatorID, 2, models.OfferStatusProposed)

	f.offers.On("GetByID", ctx, standing.ID).Return(standing, nil)

	_, err := f.svc.AcceptOffer(ctx, standing.ID, f.memberID, 1)

	assert.ErrorIs(t, err, ErrVersionConflict)
}

func TestAcceptOffer_CeilingEnforced(t *testing.T) {
	f := setupNegotiation(t, true)
	ctx := context.Background()
	standing := f.standingOffer(f.initiatorID, 1, models.OfferStatusProposed)

	f.offers.On("GetByID", ctx, standing.ID).Return(standing, nil)
	f.equity.On("WouldExceedCeiling", ctx, f.ventureID, standing.Terms).Return(true, nil)

	_, err := f.svc.AcceptOffer(ctx, standing.ID, f.memberID, 1)

	assert.ErrorIs(t, err, ErrEquityCeiling)
	f.offers.AssertNotCalled(t, "UpdateWithVersionCheck", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAcceptOffer_CeilingBreachLoggedWhenNotEnforced(t *testing.T) {
	f := setupNegotiation(t, false)
	ctx := context.Background()
	standing := f.standingOffer(f.initiatorID, 1, models.OfferStatusProposed)

	f.offers.On("GetByID", ctx, standing.ID).Return(standing, nil)
	f.equity.On("WouldExceedCeiling", ctx, f.ventureID, standing.Terms).Return(true, nil)

	accepted := f.standingOffer(f.initiatorID, 2, models.OfferStatusAccepted)
	accepted.ID = standing.ID
	f.offers.On("UpdateWithVersionCheck", ctx, standing.ID, 1, mock.Anything).Return(accepted, nil)
	f.notifier.On("Dispatch", ctx, mock.Anything).Once()

	offer, err := f.svc.AcceptOffer(ctx, standing.ID, f.memberID, 1)

	require.NoError(t, err)
	assert.Equal(t, models.OfferStatusAccepted, offer.Status)
}

func TestValidateTerms(t *testing.T) {
	salary := int64(500000)
	currency := "EUR"
	badCurrency := "EURO"

	tests := []struct {
		name    string
		terms   models.OfferTerms
		wantErr bool
	}{
		{"valid equity only", validOfferTerms(), false},
		{"valid with salary", models.OfferTerms{
			MonthlySalaryCents: &salary, SalaryCurrency: &currency,
			TimeEquityPercent: 5, CliffYears: 1, VestingYears: 4,
		}, false},
		{"zero total equity", models.OfferTerms{CliffYears: 1, VestingYears: 4}, true},
		{"performance equity without milestone", models.OfferTerms{
			TimeEquityPercent: 1, PerformanceEquityPercent: 2, CliffYears: 1, VestingYears: 4,
		}, true},
		{"performance equity with milestone", models.OfferTerms{
			TimeEquityPercent: 1, PerformanceEquityPercent: 2,
			PerformanceMilestone: "first paying customer", CliffYears: 1, VestingYears: 4,
		}, false},
		{"time equity above cap", models.OfferTerms{TimeEquityPercent: 86, CliffYears: 1, VestingYears: 4}, true},
		{"negative time equity", models.OfferTerms{TimeEquityPercent: -1, PerformanceEquityPercent: 5, PerformanceMilestone: "x", CliffYears: 1, VestingYears: 4}, true},
		{"cliff too long", models.OfferTerms{TimeEquityPercent: 5, CliffYears: 5, VestingYears: 4}, true},
		{"vesting too short", models.OfferTerms{TimeEquityPercent: 5, CliffYears: 1, VestingYears: 0}, true},
		{"vesting too long", models.OfferTerms{TimeEquityPercent: 5, CliffYears: 1, VestingYears: 7}, true},
		{"negative salary", models.OfferTerms{
			MonthlySalaryCents: func() *int64 { v := int64(-1); return &v }(), SalaryCurrency: &currency,
			TimeEquityPercent: 5, CliffYears: 1, VestingYears: 4,
		}, true},
		{"salary without currency", models.OfferTerms{
			MonthlySalaryCents: &salary,
			TimeEquityPercent:  5, CliffYears: 1, VestingYears: 4,
		}, true},
		{"salary with bad currency", models.OfferTerms{
			MonthlySalaryCents: &salary, SalaryCurrency: &badCurrency,
			TimeEquityPercent: 5, CliffYears: 1, VestingYears: 4,
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTerms(tt.terms)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTerms)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSubmitProposal_RejectsInvalidTermsBeforeStore(t *testing.T) {
	f := setupNegotiation(t, false)

	_, err := f.svc.SubmitProposal(context.Background(), f.teamMemberID, f.initiatorID, models.OfferTerms{VestingYears: 4}, 0)

	assert.ErrorIs(t, err, ErrInvalidTerms)
	f.offers.AssertNotCalled(t, "GetByTeamMember", mock.Anything, mock.Anything)
}

func TestCanActNow(t *testing.T) {
	memberID := uuid.New()
	initiatorID := uuid.New()
	outsider := uuid.New()

	open := &models.Offer{
		MemberUserID:      memberID,
		InitiatorUserID:   initiatorID,
		Status:            models.OfferStatusProposed,
		CurrentProposerID: initiatorID,
	}
	accepted := &models.Offer{
		MemberUserID:      memberID,
		InitiatorUserID:   initiatorID,
		Status:            models.OfferStatusAccepted,
		CurrentProposerID: initiatorID,
	}

	assert.True(t, CanActNow(nil, initiatorID))
	assert.True(t, CanActNow(open, memberID))
	assert.False(t, CanActNow(open, initiatorID))
	assert.False(t, CanActNow(open, outsider))
	assert.False(t, CanActNow(accepted, memberID))
	assert.False(t, CanActNow(accepted, initiatorID))
}
