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
	ErrVersionConflict = errors.New("version conflict: offer has been modified")
	ErrOfferNotFound   = errors.New("offer not found")
)

// OfferPatch describes one offer mutation. Terms and CurrentProposerID are
// applied when non-nil; Status when non-empty. ActorID and HistoryAction feed
// the audit snapshot written in the same transaction.
type OfferPatch struct {
	Terms             *models.OfferTerms
	Status            string
	CurrentProposerID *uuid.UUID
	ActorID           uuid.UUID
	HistoryAction     string
}

// OfferService is the offer record store: the offer row plus its append-only
// history, written atomically.
type OfferService struct {
	db *database.DB
}

func NewOfferService(db *database.DB) *OfferService {
	return &OfferService{db: db}
}

const offerColumns = `id, team_member_id, venture_id, member_user_id, initiator_user_id,
		monthly_salary_cents, salary_currency, time_equity_percent, cliff_years, vesting_years,
		performance_equity_percent, performance_milestone, status, current_proposer_id, version,
		created_at, updated_at`

func scanOffer(row pgx.Row) (*models.Offer, error) {
	var o models.Offer
	err := row.Scan(
		&o.ID, &o.TeamMemberID, &o.VentureID, &o.MemberUserID, &o.InitiatorUserID,
		&o.Terms.MonthlySalaryCents, &o.Terms.SalaryCurrency, &o.Terms.TimeEquityPercent,
		&o.Terms.CliffYears, &o.Terms.VestingYears, &o.Terms.PerformanceEquityPercent,
		&o.Terms.PerformanceMilestone, &o.Status, &o.CurrentProposerID, &o.Version,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// GetByTeamMember returns the offer negotiated for a team membership, or
// (nil, nil) when the negotiation has not been opened yet.
func (s *OfferService) GetByTeamMember(ctx context.Context, teamMemberID uuid.UUID) (*models.Offer, error) {
	offer, err := scanOffer(s.db.Pool.QueryRow(ctx, `
		SELECT `+offerColumns+`
		FROM offers WHERE team_member_id = $1
	`, teamMemberID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return offer, nil
}

func (s *OfferService) GetByID(ctx context.Context, offerID uuid.UUID) (*models.Offer, error) {
	offer, err := scanOffer(s.db.Pool.QueryRow(ctx, `
		SELECT `+offerColumns+`
		FROM offers WHERE id = $1
	`, offerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOfferNotFound
	}
	if err != nil {
		return nil, err
	}
	return offer, nil
}

// CreateWithHistory inserts the first version of an offer and its opening
// history snapshot in one transaction.
func (s *OfferService) CreateWithHistory(ctx context.Context, offer *models.Offer) (*models.Offer, error) {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	created, err := scanOffer(tx.QueryRow(ctx, `
		INSERT INTO offers (team_member_id, venture_id, member_user_id, initiator_user_id,
			monthly_salary_cents, salary_currency, time_equity_percent, cliff_years, vesting_years,
			performance_equity_percent, performance_milestone, status, current_proposer_id, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, 1)
		RETURNING `+offerColumns+`
	`, offer.TeamMemberID, offer.VentureID, offer.MemberUserID, offer.InitiatorUserID,
		offer.Terms.MonthlySalaryCents, offer.Terms.SalaryCurrency, offer.Terms.TimeEquityPercent,
		offer.Terms.CliffYears, offer.Terms.VestingYears, offer.Terms.PerformanceEquityPercent,
		offer.Terms.PerformanceMilestone, models.OfferStatusProposed, offer.CurrentProposerID))
	if err != nil {
		return nil, fmt.Errorf("failed to create offer: %w", err)
	}

	if err := appendHistory(ctx, tx, created, offer.CurrentProposerID, models.HistoryActionProposed); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return created, nil
}

// UpdateWithVersionCheck applies a patch only if the persisted version still
// matches expectedVersion, bumps the version by one and appends the history
// snapshot, all in one transaction. A concurrent writer surfaces as
// ErrVersionConflict.
func (s *OfferService) UpdateWithVersionCheck(ctx context.Context, offerID uuid.UUID, expectedVersion int, patch OfferPatch) (*models.Offer, error) {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var updated *models.Offer
	if patch.Terms != nil && patch.CurrentProposerID != nil {
		updated, err = scanOffer(tx.QueryRow(ctx, `
			UPDATE offers
			SET monthly_salary_cents = $1, salary_currency = $2, time_equity_percent = $3,
				cliff_years = $4, vesting_years = $5, performance_equity_percent = $6,
				performance_milestone = $7, current_proposer_id = $8,
				version = version + 1, updated_at = NOW()
			WHERE id = $9 AND version = $10
			RETURNING `+offerColumns+`
		`, patch.Terms.MonthlySalaryCents, patch.Terms.SalaryCurrency, patch.Terms.TimeEquityPercent,
			patch.Terms.CliffYears, patch.Terms.VestingYears, patch.Terms.PerformanceEquityPercent,
			patch.Terms.PerformanceMilestone, *patch.CurrentProposerID, offerID, expectedVersion))
	} else if patch.Status != "" {
		updated, err = scanOffer(tx.QueryRow(ctx, `
			UPDATE offers
			SET status = $1, version = version + 1, updated_at = NOW()
			WHERE id = $2 AND version = $3
			RETURNING `+offerColumns+`
		`, patch.Status, offerID, expectedVersion))
	} else {
		return nil, fmt.Errorf("empty offer patch")
	}
	if err != nil {
		return nil, s.checkVersionConflict(ctx, offerID, expectedVersion, err)
	}

	if err := appendHistory(ctx, tx, updated, patch.ActorID, patch.HistoryAction); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return updated, nil
}

func appendHistory(ctx context.Context, tx pgx.Tx, offer *models.Offer, proposerID uuid.UUID, action string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO offer_history (offer_id, proposer_id, action, version,
			monthly_salary_cents, salary_currency, time_equity_percent, cliff_years, vesting_years,
			performance_equity_percent, performance_milestone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, offer.ID, proposerID, action, offer.Version,
		offer.Terms.MonthlySalaryCents, offer.Terms.SalaryCurrency, offer.Terms.TimeEquityPercent,
		offer.Terms.CliffYears, offer.Terms.VestingYears, offer.Terms.PerformanceEquityPercent,
		offer.Terms.PerformanceMilestone)
	if err != nil {
		return fmt.Errorf("failed to append offer history: %w", err)
	}
	return nil
}

// checkVersionConflict distinguishes a lost compare-and-swap from a missing
// row or a plain storage failure.
func (s *OfferService) checkVersionConflict(ctx context.Context, offerID uuid.UUID, expectedVersion int, originalErr error) error {
	if !errors.Is(originalErr, pgx.ErrNoRows) {
		return originalErr
	}
	var currentVersion int
	err := s.db.Pool.QueryRow(ctx, `SELECT version FROM offers WHERE id = $1`, offerID).Scan(&currentVersion)
	if err != nil {
		return ErrOfferNotFound
	}
	if currentVersion != expectedVersion {
		return ErrVersionConflict
	}
	return originalErr
}

func (s *OfferService) History(ctx context.Context, offerID uuid.UUID) ([]models.OfferHistoryEntry, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, offer_id, proposer_id, action, version,
			monthly_salary_cents, salary_currency, time_equity_percent, cliff_years, vesting_years,
			performance_equity_percent, performance_milestone, created_at
		FROM offer_history WHERE offer_id = $1
		ORDER BY version
	`, offerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.OfferHistoryEntry
	for rows.Next() {
		var e models.OfferHistoryEntry
		if err := rows.Scan(
			&e.ID, &e.OfferID, &e.ProposerID, &e.Action, &e.Version,
			&e.Terms.MonthlySalaryCents, &e.Terms.SalaryCurrency, &e.Terms.TimeEquityPercent,
			&e.Terms.CliffYears, &e.Terms.VestingYears, &e.Terms.PerformanceEquityPercent,
			&e.Terms.PerformanceMilestone, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// AggregateAcceptedEquity sums time plus performance equity over a venture's
// accepted offers. Unaccepted offers do not count.
func (s *OfferService) AggregateAcceptedEquity(ctx context.Context, ventureID uuid.UUID) (float64, error) {
	var total float64
	err := s.db.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(time_equity_percent + performance_equity_percent), 0)
		FROM offers WHERE venture_id = $1 AND status = $2
	`, ventureID, models.OfferStatusAccepted).Scan(&total)
	return total, err
}
