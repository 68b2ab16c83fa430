package database

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		email VARCHAR(255) UNIQUE NOT NULL,
		name VARCHAR(255) NOT NULL,
		avatar_url VARCHAR(500),
		provider VARCHAR(50) NOT NULL,
		provider_id VARCHAR(255) NOT NULL,
		global_role VARCHAR(50) NOT NULL DEFAULT 'user',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(provider, provider_id)
	)`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		token_hash VARCHAR(255) NOT NULL UNIQUE,
		expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS ventures (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		pitch TEXT NOT NULL DEFAULT '',
		stage VARCHAR(50) NOT NULL DEFAULT 'idea',
		initiator_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS team_members (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		venture_id UUID NOT NULL REFERENCES ventures(id) ON DELETE CASCADE,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		default_role_tag VARCHAR(100) NOT NULL DEFAULT 'co-builder',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(venture_id, user_id)
	)`,

	// One negotiation per venture/member relationship. Offers are never
	// deleted; an accepted offer just stops transitioning.
	`CREATE TABLE IF NOT EXISTS offers (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		team_member_id UUID NOT NULL UNIQUE REFERENCES team_members(id) ON DELETE CASCADE,
		venture_id UUID NOT NULL REFERENCES ventures(id) ON DELETE CASCADE,
		member_user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		initiator_user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		monthly_salary_cents BIGINT,
		salary_currency VARCHAR(3),
		time_equity_percent DOUBLE PRECISION NOT NULL DEFAULT 0,
		cliff_years INTEGER NOT NULL DEFAULT 0,
		vesting_years INTEGER NOT NULL DEFAULT 4,
		performance_equity_percent DOUBLE PRECISION NOT NULL DEFAULT 0,
		performance_milestone TEXT NOT NULL DEFAULT '',
		status VARCHAR(20) NOT NULL DEFAULT 'proposed',
		current_proposer_id UUID NOT NULL REFERENCES users(id),
		version INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	// Append-only audit trail. Each entry carries a full term snapshot so it
	// stays readable on its own, without replaying the offer.
	`CREATE TABLE IF NOT EXISTS offer_history (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		offer_id UUID NOT NULL REFERENCES offers(id) ON DELETE CASCADE,
		proposer_id UUID NOT NULL REFERENCES users(id),
		action VARCHAR(30) NOT NULL,
		version INTEGER NOT NULL,
		monthly_salary_cents BIGINT,
		salary_currency VARCHAR(3),
		time_equity_percent DOUBLE PRECISION NOT NULL DEFAULT 0,
		cliff_years INTEGER NOT NULL DEFAULT 0,
		vesting_years INTEGER NOT NULL DEFAULT 4,
		performance_equity_percent DOUBLE PRECISION NOT NULL DEFAULT 0,
		performance_milestone TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(offer_id, version)
	)`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		type VARCHAR(50) NOT NULL,
		payload JSONB NOT NULL DEFAULT '{}',
		read_at TIMESTAMP WITH TIME ZONE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_ventures_initiator_id ON ventures(initiator_id)`,
	`CREATE INDEX IF NOT EXISTS idx_team_members_venture_id ON team_members(venture_id)`,
	`CREATE INDEX IF NOT EXISTS idx_team_members_user_id ON team_members(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_offers_venture_id ON offers(venture_id)`,
	`CREATE INDEX IF NOT EXISTS idx_offers_member_user_id ON offers(member_user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_offer_history_offer_id ON offer_history(offer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_user_id ON notifications(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_refresh_tokens_user_id ON refresh_tokens(user_id)`,
}

func (db *DB) Migrate(ctx context.Context) error {
	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
