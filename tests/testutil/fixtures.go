package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mvasic/cofound-api/internal/database"
	"github.com/mvasic/cofound-api/internal/models"
	"github.com/mvasic/cofound-api/internal/oauth"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateUser creates a test user with default values
func (f *Fixtures) CreateUser(t *testing.T, opts ...UserOption) *models.User {
	t.Helper()
	f.counter++

	user := &models.User{
		Email:      fmt.Sprintf("user%d@example.com", f.counter),
		Name:       fmt.Sprintf("Test User %d", f.counter),
		Provider:   "github",
		ProviderID: fmt.Sprintf("provider-%d", f.counter),
	}

	for _, opt := range opts {
		opt(user)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, name, avatar_url, provider, provider_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, email, name, avatar_url, provider, provider_id, global_role, created_at, updated_at
	`, user.Email, user.Name, user.AvatarURL, user.Provider, user.ProviderID).Scan(
		&user.ID, &user.Email, &user.Name, &user.AvatarURL,
		&user.Provider, &user.ProviderID, &user.GlobalRole, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user
}

// UserOption configures a test user
type UserOption func(*models.User)

// WithEmail sets the user's email
func WithEmail(email string) UserOption {
	return func(u *models.User) {
		u.Email = email
	}
}

// WithName sets the user's name
func WithName(name string) UserOption {
	return func(u *models.User) {
		u.Name = name
	}
}

// WithProvider sets the user's OAuth provider
func WithProvider(provider, providerID string) UserOption {
	return func(u *models.User) {
		u.Provider = provider
		u.ProviderID = providerID
	}
}

// CreateVenture creates a test venture with the given initiator
func (f *Fixtures) CreateVenture(t *testing.T, initiator *models.User, opts ...VentureOption) *models.Venture {
	t.Helper()
	f.counter++

	venture := &models.Venture{
		Name:        fmt.Sprintf("Test Venture %d", f.counter),
		Pitch:       "a test pitch",
		InitiatorID: initiator.ID,
	}

	for _, opt := range opts {
		opt(venture)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO ventures (name, pitch, initiator_id)
		VALUES ($1, $2, $3)
		RETURNING id, name, pitch, stage, initiator_id, created_at, updated_at
	`, venture.Name, venture.Pitch, venture.InitiatorID).Scan(
		&venture.ID, &venture.Name, &venture.Pitch, &venture.Stage,
		&venture.InitiatorID, &venture.CreatedAt, &venture.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create venture: %v", err)
	}

	return venture
}

// VentureOption configures a test venture
type VentureOption func(*models.Venture)

// WithVentureName sets the venture's name
func WithVentureName(name string) VentureOption {
	return func(v *models.Venture) {
		v.Name = name
	}
}

// AddTeamMember adds a co-builder to a venture's roster
func (f *Fixtures) AddTeamMember(t *testing.T, venture *models.Venture, user *models.User, defaultRoleTag string) *models.TeamMember {
	t.Helper()
	ctx := context.Background()

	member := &models.TeamMember{}
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO team_members (venture_id, user_id, default_role_tag)
		VALUES ($1, $2, $3)
		RETURNING id, venture_id, user_id, default_role_tag, created_at
	`, venture.ID, user.ID, defaultRoleTag).Scan(
		&member.ID, &member.VentureID, &member.UserID, &member.DefaultRoleTag, &member.CreatedAt,
	)
	if err != nil {
		t.Fatalf("failed to add team member: %v", err)
	}

	return member
}

// CreateRefreshToken creates a test refresh token
func (f *Fixtures) CreateRefreshToken(t *testing.T, userID uuid.UUID, tokenHash string, expiresAt time.Time) {
	t.Helper()
	ctx := context.Background()

	_, err := f.db.Pool.Exec(ctx, `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
	`, userID, tokenHash, expiresAt)
	if err != nil {
		t.Fatalf("failed to create refresh token: %v", err)
	}
}

// OAuthUserInfo creates test OAuth user info
func OAuthUserInfo(email, name, provider, id string) *oauth.UserInfo {
	return &oauth.UserInfo{
		Email:     email,
		Name:      name,
		AvatarURL: "https://example.com/avatar.png",
		ID:        id,
		Provider:  provider,
	}
}
