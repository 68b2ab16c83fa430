package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mvasic/cofound-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveTier(t *testing.T) {
	tests := []struct {
		name  string
		terms models.OfferTerms
		want  Tier
	}{
		{"high at threshold", models.OfferTerms{TimeEquityPercent: 11}, TierHigh},
		{"high above threshold", models.OfferTerms{TimeEquityPercent: 20}, TierHigh},
		{"mid just below high", models.OfferTerms{TimeEquityPercent: 10.9}, TierMid},
		{"mid at threshold", models.OfferTerms{TimeEquityPercent: 6}, TierMid},
		{"low just below mid", models.OfferTerms{TimeEquityPercent: 5.9}, TierLow},
		{"low at zero", models.OfferTerms{}, TierLow},
		{"performance equity counts", models.OfferTerms{TimeEquityPercent: 5, PerformanceEquityPercent: 6}, TierHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EffectiveTier(tt.terms))
		})
	}
}

func TestDisplayRole(t *testing.T) {
	member := &models.TeamMember{DefaultRoleTag: "backend dev"}

	t.Run("no offer yet", func(t *testing.T) {
		assert.Equal(t, "backend dev", DisplayRole(member, nil))
	})

	t.Run("pending offer keeps default tag", func(t *testing.T) {
		offer := &models.Offer{
			Status: models.OfferStatusProposed,
			Terms:  models.OfferTerms{TimeEquityPercent: 20},
		}
		assert.Equal(t, "backend dev", DisplayRole(member, offer))
	})

	t.Run("accepted offer shows tier", func(t *testing.T) {
		offer := &models.Offer{
			Status: models.OfferStatusAccepted,
			Terms:  models.OfferTerms{TimeEquityPercent: 7},
		}
		assert.Equal(t, "mid", DisplayRole(member, offer))
	})
}

type stubAggregator struct {
	total float64
	err   error
}

func (s *stubAggregator) AggregateAcceptedEquity(ctx context.Context, ventureID uuid.UUID) (float64, error) {
	return s.total, s.err
}

func TestRosterService_WouldExceedCeiling(t *testing.T) {
	ctx := context.Background()
	ventureID := uuid.New()

	t.Run("within pool", func(t *testing.T) {
		svc := NewRosterService(&stubAggregator{total: 40}, 100)
		exceeds, err := svc.WouldExceedCeiling(ctx, ventureID, models.OfferTerms{TimeEquityPercent: 60})
		require.NoError(t, err)
		assert.False(t, exceeds)
	})

	t.Run("past pool", func(t *testing.T) {
		svc := NewRosterService(&stubAggregator{total: 95}, 100)
		exceeds, err := svc.WouldExceedCeiling(ctx, ventureID, models.OfferTerms{TimeEquityPercent: 5, PerformanceEquityPercent: 1})
		require.NoError(t, err)
		assert.True(t, exceeds)
	})
}
