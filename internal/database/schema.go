package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		email VARCHAR(255) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		is_admin BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id VARCHAR(50) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		price DECIMAL(10, 2) NOT NULL CHECK (price >= 0),
		category VARCHAR(100) NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS cart (
		user_email VARCHAR(255) NOT NULL,
		product_id VARCHAR(50) NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
		PRIMARY KEY (user_email, product_id)
	)`,
	`CREATE TABLE IF NOT EXISTS receipts (
		id UUID PRIMARY KEY,
		user_email VARCHAR(255) NOT NULL,
		username VARCHAR(255) NOT NULL,
		items JSONB NOT NULL,
		total_amount DECIMAL(10, 2) NOT NULL,
		timestamp TIMESTAMP WITH TIME ZONE NOT NULL,
		receipt_filename VARCHAR(255) NOT NULL DEFAULT '',
		email_status VARCHAR(20) NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_receipts_user_email ON receipts (user_email)`,
	`CREATE INDEX IF NOT EXISTS idx_receipts_timestamp ON receipts (timestamp DESC)`,
}

// Migrate creates the schema if it does not exist yet. Statements are
// idempotent so running at every startup is safe.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}

	logger.Info().Msg("database schema is up to date")
	return nil
}
