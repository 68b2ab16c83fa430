package integration

import (
	"context"
	"testing"
	"time"

	"github.com/mvasic/cofound-api/internal/services"
	"github.com/mvasic/cofound-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_Integration_StoreAndValidate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewTokenService(tdb.DB)
	ctx := context.Background()

	user := fixtures.CreateUser(t)
	hash := services.HashToken("some-refresh-token")

	err := svc.StoreRefreshToken(ctx, user.ID, hash, time.Now().Add(24*time.Hour))
	require.NoError(t, err)

	userID, err := svc.ValidateRefreshToken(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestTokenService_Integration_ValidateExpired(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewTokenService(tdb.DB)
	ctx := context.Background()

	user := fixtures.CreateUser(t)
	hash := services.HashToken("expired-token")
	fixtures.CreateRefreshToken(t, user.ID, hash, time.Now().Add(-time.Hour))

	_, err := svc.ValidateRefreshToken(ctx, hash)
	assert.Error(t, err)
}

func TestTokenService_Integration_Revoke(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewTokenService(tdb.DB)
	ctx := context.Background()

	user := fixtures.CreateUser(t)
	hash := services.HashToken("revoke-me")
	fixtures.CreateRefreshToken(t, user.ID, hash, time.Now().Add(24*time.Hour))

	err := svc.RevokeRefreshToken(ctx, hash)
	require.NoError(t, err)

	_, err = svc.ValidateRefreshToken(ctx, hash)
	assert.Error(t, err)
}

func TestTokenService_Integration_RevokeAllUserTokens(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewTokenService(tdb.DB)
	ctx := context.Background()

	user := fixtures.CreateUser(t)
	other := fixtures.CreateUser(t)
	hash1 := services.HashToken("token-1")
	hash2 := services.HashToken("token-2")
	otherHash := services.HashToken("token-3")
	fixtures.CreateRefreshToken(t, user.ID, hash1, time.Now().Add(24*time.Hour))
	fixtures.CreateRefreshToken(t, user.ID, hash2, time.Now().Add(24*time.Hour))
	fixtures.CreateRefreshToken(t, other.ID, otherHash, time.Now().Add(24*time.Hour))

	err := svc.RevokeAllUserTokens(ctx, user.ID)
	require.NoError(t, err)

	_, err = svc.ValidateRefreshToken(ctx, hash1)
	assert.Error(t, err)
	_, err = svc.ValidateRefreshToken(ctx, hash2)
	assert.Error(t, err)

	// Other users keep their sessions
	otherID, err := svc.ValidateRefreshToken(ctx, otherHash)
	require.NoError(t, err)
	assert.Equal(t, other.ID, otherID)
}

func TestTokenService_Integration_CleanupExpired(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewTokenService(tdb.DB)
	ctx := context.Background()

	user := fixtures.CreateUser(t)
	liveHash := services.HashToken("live")
	deadHash := services.HashToken("dead")
	fixtures.CreateRefreshToken(t, user.ID, liveHash, time.Now().Add(24*time.Hour))
	fixtures.CreateRefreshToken(t, user.ID, deadHash, time.Now().Add(-time.Hour))

	err := svc.CleanupExpired(ctx)
	require.NoError(t, err)

	var count int
	err = tdb.DB.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM refresh_tokens WHERE user_id = $1`, user.ID).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
