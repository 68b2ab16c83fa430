package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mvasic/cofound-api/internal/database"
	"github.com/mvasic/cofound-api/internal/models"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupVentureService(t *testing.T) (*VentureService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	db := &database.DB{Pool: mock}
	return NewVentureService(db), mock
}

func ventureRows(ventureID, initiatorID uuid.UUID, name string) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{
		"id", "name", "pitch", "stage", "initiator_id", "created_at", "updated_at",
	}).AddRow(ventureID, name, "a pitch", models.StageIdea, initiatorID, now, now)
}

func TestVentureService_Create(t *testing.T) {
	svc, mock := setupVentureService(t)
	ctx := context.Background()
	ventureID := uuid.New()
	initiatorID := uuid.New()

	mock.ExpectQuery(`INSERT INTO ventures`).
		WithArgs("Acme", "a pitch", initiatorID).
		WillReturnRows(ventureRows(ventureID, initiatorID, "Acme"))

	venture, err := svc.Create(ctx, "Acme", "a pitch", initiatorID)

	require.NoError(t, err)
	assert.Equal(t, ventureID, venture.ID)
	assert.Equal(t, models.StageIdea, venture.Stage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVentureService_GetVenture_NotFound(t *testing.T) {
	svc, mock := setupVentureService(t)
	ctx := context.Background()
	ventureID := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM ventures WHERE id`).
		WithArgs(ventureID).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.GetVenture(ctx, ventureID)

	assert.ErrorIs(t, err, ErrVentureNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVentureService_GetUserVentures(t *testing.T) {
	svc, mock := setupVentureService(t)
	ctx := context.Background()
	userID := uuid.New()
	now := time.Now()

	rows := pgxmock.NewRows([]string{
		"id", "name", "pitch", "stage", "initiator_id", "created_at", "updated_at",
	}).
		AddRow(uuid.New(), "Mine", "", models.StageIdea, userID, now, now).
		AddRow(uuid.New(), "Joined", "", models.StageBuilding, uuid.New(), now, now)

	mock.ExpectQuery(`SELECT DISTINCT .+ FROM ventures`).
		WithArgs(userID).
		WillReturnRows(rows)

	ventures, err := svc.GetUserVentures(ctx, userID)

	require.NoError(t, err)
	assert.Len(t, ventures, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVentureService_IsInitiator(t *testing.T) {
	svc, mock := setupVentureService(t)
	ctx := context.Background()
	ventureID := uuid.New()
	initiatorID := uuid.New()

	rows := pgxmock.NewRows([]string{"initiator_id"}).AddRow(initiatorID)
	mock.ExpectQuery(`SELECT initiator_id FROM ventures WHERE id`).
		WithArgs(ventureID).
		WillReturnRows(rows)

	isInitiator, err := svc.IsInitiator(ctx, ventureID, initiatorID)

	require.NoError(t, err)
	assert.True(t, isInitiator)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVentureService_AddMember(t *testing.T) {
	svc, mock := setupVentureService(t)
	ctx := context.Background()
	ventureID := uuid.New()
	userID := uuid.New()
	memberID := uuid.New()
	now := time.Now()

	initiatorRows := pgxmock.NewRows([]string{"initiator_id"}).AddRow(uuid.New())
	mock.ExpectQuery(`SELECT initiator_id FROM ventures WHERE id`).
		WithArgs(ventureID).
		WillReturnRows(initiatorRows)

	memberRows := pgxmock.NewRows([]string{
		"id", "venture_id", "user_id", "default_role_tag", "created_at",
	}).AddRow(memberID, ventureID, userID, "backend dev", now)
	mock.ExpectQuery(`INSERT INTO team_members`).
		WithArgs(ventureID, userID, "backend dev").
		WillReturnRows(memberRows)

	member, err := svc.AddMember(ctx, ventureID, userID, "backend dev")

	require.NoError(t, err)
	assert.Equal(t, memberID, member.ID)
	assert.Equal(t, "backend dev", member.DefaultRoleTag)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVentureService_AddMember_Initiator(t *testing.T) {
	svc, mock := setupVentureService(t)
	ctx := context.Background()
	ventureID := uuid.New()
	initiatorID := uuid.New()

	initiatorRows := pgxmock.NewRows([]string{"initiator_id"}).AddRow(initiatorID)
	mock.ExpectQuery(`SELECT initiator_id FROM ventures WHERE id`).
		WithArgs(ventureID).
		WillReturnRows(initiatorRows)

	_, err := svc.AddMember(ctx, ventureID, initiatorID, "backend dev")

	assert.ErrorIs(t, err, ErrInitiatorOnRoster)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVentureService_AddMember_Duplicate(t *testing.T) {
	svc, mock := setupVentureService(t)
	ctx := context.Background()
	ventureID := uuid.New()
	userID := uuid.New()

	initiatorRows := pgxmock.NewRows([]string{"initiator_id"}).AddRow(uuid.New())
	mock.ExpectQuery(`SELECT initiator_id FROM ventures WHERE id`).
		WithArgs(ventureID).
		WillReturnRows(initiatorRows)

	// ON CONFLICT DO NOTHING yields no row for an existing membership
	mock.ExpectQuery(`INSERT INTO team_members`).
		WithArgs(ventureID, userID, "backend dev").
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.AddMember(ctx, ventureID, userID, "backend dev")

	assert.ErrorIs(t, err, ErrAlreadyOnTeam)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVentureService_GetTeamMember_NotFound(t *testing.T) {
	svc, mock := setupVentureService(t)
	ctx := context.Background()
	teamMemberID := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM team_members WHERE id`).
		WithArgs(teamMemberID).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.GetTeamMember(ctx, teamMemberID)

	assert.ErrorIs(t, err, ErrMemberNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVentureService_RemoveMember(t *testing.T) {
	svc, mock := setupVentureService(t)
	ctx := context.Background()
	ventureID := uuid.New()
	teamMemberID := uuid.New()

	acceptedRows := pgxmock.NewRows([]string{"exists"}).AddRow(false)
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(teamMemberID, models.OfferStatusAccepted).
		WillReturnRows(acceptedRows)

	mock.ExpectExec(`DELETE FROM team_members WHERE id`).
		WithArgs(teamMemberID, ventureID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := svc.RemoveMember(ctx, ventureID, teamMemberID)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVentureService_RemoveMember_HasAgreement(t *testing.T) {
	svc, mock := setupVentureService(t)
	ctx := context.Background()
	ventureID := uuid.New()
	teamMemberID := uuid.New()

	acceptedRows := pgxmock.NewRows([]string{"exists"}).AddRow(true)
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(teamMemberID, models.OfferStatusAccepted).
		WillReturnRows(acceptedRows)

	err := svc.RemoveMember(ctx, ventureID, teamMemberID)

	assert.ErrorIs(t, err, ErrMemberHasAgreement)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVentureService_RemoveMember_NotFound(t *testing.T) {
	svc, mock := setupVentureService(t)
	ctx := context.Background()
	ventureID := uuid.New()
	teamMemberID := uuid.New()

	acceptedRows := pgxmock.NewRows([]string{"exists"}).AddRow(false)
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(teamMemberID, models.OfferStatusAccepted).
		WillReturnRows(acceptedRows)

	mock.ExpectExec(`DELETE FROM team_members WHERE id`).
		WithArgs(teamMemberID, ventureID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := svc.RemoveMember(ctx, ventureID, teamMemberID)

	assert.ErrorIs(t, err, ErrMemberNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
