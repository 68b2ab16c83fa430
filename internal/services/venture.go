package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mvasic/cofound-api/internal/database"
	"github.com/mvasic/cofound-api/internal/models"
)

var (
	ErrVentureNotFound    = errors.New("venture not found")
	ErrMemberNotFound     = errors.New("team member not found")
	ErrAlreadyOnTeam      = errors.New("user is already on the venture team")
	ErrInitiatorOnRoster  = errors.New("the initiator cannot be added as a co-builder")
	ErrMemberHasAgreement = errors.New("member with an accepted offer cannot be removed")
)

type VentureService struct {
	db *database.DB
}

func NewVentureService(db *database.DB) *VentureService {
	return &VentureService{db: db}
}

func (s *VentureService) Create(ctx context.Context, name, pitch string, initiatorID uuid.UUID) (*models.Venture, error) {
	var v models.Venture
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO ventures (name, pitch, initiator_id)
		VALUES ($1, $2, $3)
		RETURNING id, name, pitch, stage, initiator_id, created_at, updated_at
	`, name, pitch, initiatorID).Scan(&v.ID, &v.Name, &v.Pitch, &v.Stage, &v.InitiatorID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create venture: %w", err)
	}
	return &v, nil
}

func (s *VentureService) GetVenture(ctx context.Context, ventureID uuid.UUID) (*models.Venture, error) {
	var v models.Venture
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, name, pitch, stage, initiator_id, created_at, updated_at
		FROM ventures WHERE id = $1
	`, ventureID).Scan(&v.ID, &v.Name, &v.Pitch, &v.Stage, &v.InitiatorID, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrVentureNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// GetUserVentures lists ventures the user initiated or joined, newest first.
func (s *VentureService) GetUserVentures(ctx context.Context, userID uuid.UUID) ([]models.Venture, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT DISTINCT v.id, v.name, v.pitch, v.stage, v.initiator_id, v.created_at, v.updated_at
		FROM ventures v
		LEFT JOIN team_members tm ON v.id = tm.venture_id
		WHERE v.initiator_id = $1 OR tm.user_id = $1
		ORDER BY v.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ventures []models.Venture
	for rows.Next() {
		var v models.Venture
		if err := rows.Scan(&v.ID, &v.Name, &v.Pitch, &v.Stage, &v.InitiatorID, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		ventures = append(ventures, v)
	}
	return ventures, nil
}

func (s *VentureService) Update(ctx context.Context, ventureID uuid.UUID, name, pitch, stage string) (*models.Venture, error) {
	var v models.Venture
	err := s.db.Pool.QueryRow(ctx, `
		UPDATE ventures SET name = $1, pitch = $2, stage = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING id, name, pitch, stage, initiator_id, created_at, updated_at
	`, name, pitch, stage, ventureID).Scan(&v.ID, &v.Name, &v.Pitch, &v.Stage, &v.InitiatorID, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrVentureNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *VentureService) Delete(ctx context.Context, ventureID uuid.UUID) error {
	_, err := s.db.Pool.Exec(ctx, `DELETE FROM ventures WHERE id = $1`, ventureID)
	return err
}

func (s *VentureService) IsInitiator(ctx context.Context, ventureID, userID uuid.UUID) (bool, error) {
	var initiatorID uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `SELECT initiator_id FROM ventures WHERE id = $1`, ventureID).Scan(&initiatorID)
	if err != nil {
		return false, err
	}
	return initiatorID == userID, nil
}

func (s *VentureService) IsOnTeam(ctx context.Context, ventureID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM team_members WHERE venture_id = $1 AND user_id = $2
			UNION
			SELECT 1 FROM ventures WHERE id = $1 AND initiator_id = $2
		)
	`, ventureID, userID).Scan(&exists)
	return exists, err
}

func (s *VentureService) AddMember(ctx context.Context, ventureID, userID uuid.UUID, defaultRoleTag string) (*models.TeamMember, error) {
	initiator, err := s.IsInitiator(ctx, ventureID, userID)
	if err != nil {
		return nil, err
	}
	if initiator {
		return nil, ErrInitiatorOnRoster
	}

	var m models.TeamMember
	err = s.db.Pool.QueryRow(ctx, `
		INSERT INTO team_members (venture_id, user_id, default_role_tag)
		VALUES ($1, $2, $3)
		ON CONFLICT (venture_id, user_id) DO NOTHING
		RETURNING id, venture_id, user_id, default_role_tag, created_at
	`, ventureID, userID, defaultRoleTag).Scan(&m.ID, &m.VentureID, &m.UserID, &m.DefaultRoleTag, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAlreadyOnTeam
	}
	if err != nil {
		return nil, fmt.Errorf("failed to add team member: %w", err)
	}
	return &m, nil
}

func (s *VentureService) GetTeamMember(ctx context.Context, teamMemberID uuid.UUID) (*models.TeamMember, error) {
	var m models.TeamMember
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, venture_id, user_id, default_role_tag, created_at
		FROM team_members WHERE id = $1
	`, teamMemberID).Scan(&m.ID, &m.VentureID, &m.UserID, &m.DefaultRoleTag, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *VentureService) GetTeamMembers(ctx context.Context, ventureID uuid.UUID) ([]models.TeamMember, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT tm.id, tm.venture_id, tm.user_id, tm.default_role_tag, tm.created_at,
		       u.id, u.email, u.name, u.avatar_url, u.provider, u.global_role, u.created_at, u.updated_at
		FROM team_members tm
		JOIN users u ON tm.user_id = u.id
		WHERE tm.venture_id = $1
		ORDER BY tm.created_at
	`, ventureID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.TeamMember
	for rows.Next() {
		var member models.TeamMember
		var user models.User
		if err := rows.Scan(
			&member.ID, &member.VentureID, &member.UserID, &member.DefaultRoleTag, &member.CreatedAt,
			&user.ID, &user.Email, &user.Name, &user.AvatarURL, &user.Provider, &user.GlobalRole,
			&user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		member.User = &user
		members = append(members, member)
	}
	return members, nil
}

// RemoveMember drops a co-builder from the roster unless their offer has been
// accepted; an accepted agreement outlives roster edits.
func (s *VentureService) RemoveMember(ctx context.Context, ventureID, teamMemberID uuid.UUID) error {
	var accepted bool
	err := s.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM offers WHERE team_member_id = $1 AND status = $2
		)
	`, teamMemberID, models.OfferStatusAccepted).Scan(&accepted)
	if err != nil {
		return err
	}
	if accepted {
		return ErrMemberHasAgreement
	}

	tag, err := s.db.Pool.Exec(ctx, `
		DELETE FROM team_members WHERE id = $1 AND venture_id = $2
	`, teamMemberID, ventureID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrMemberNotFound
	}
	return nil
}
