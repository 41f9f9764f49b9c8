package repository

import (
	"context"
	"errors"
	"fmt"

	"kloudcart/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cartRepository implements the CartRepository interface using PostgreSQL.
// Mutations are atomic per line: increments are a single upsert statement
// and decrements hold a row lock, so concurrent updates cannot interleave.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// AddOne creates the line with quantity 1 or increments an existing one.
func (r *cartRepository) AddOne(ctx context.Context, userEmail, productID string) error {
	query := `
		INSERT INTO cart (user_email, product_id, quantity, updated_at)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (user_email, product_id)
		DO UPDATE SET quantity = cart.quantity + 1, updated_at = NOW()
	`

	_, err := r.pool.Exec(ctx, query, userEmail, productID)
	if err != nil {
		r.logger.Error().Err(err).
			Str("user_email", userEmail).
			Str("product_id", productID).
			Msg("failed to add cart line")
		return fmt.Errorf("failed to add cart line: %w", err)
	}

	return nil
}

// RemoveOne decrements the line by 1, deleting it when the quantity would
// reach zero. A quantity of zero is never persisted. The row is locked for
// the duration so concurrent decrements serialise instead of each seeing
// the original quantity.
func (r *cartRepository) RemoveOne(ctx context.Context, userEmail, productID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var quantity int
	err = tx.QueryRow(ctx, `
		SELECT quantity FROM cart
		WHERE user_email = $1 AND product_id = $2
		FOR UPDATE
	`, userEmail, productID).Scan(&quantity)
	if errors.Is(err, pgx.ErrNoRows) {
		// Missing line: decrementing is a no-op.
		return nil
	}
	if err != nil {
		r.logger.Error().Err(err).
			Str("user_email", userEmail).
			Str("product_id", productID).
			Msg("failed to lock cart line")
		return fmt.Errorf("failed to lock cart line: %w", err)
	}

	if quantity <= 1 {
		_, err = tx.Exec(ctx, `
			DELETE FROM cart
			WHERE user_email = $1 AND product_id = $2
		`, userEmail, productID)
	} else {
		_, err = tx.Exec(ctx, `
			UPDATE cart
			SET quantity = quantity - 1, updated_at = NOW()
			WHERE user_email = $1 AND product_id = $2
		`, userEmail, productID)
	}
	if err != nil {
		r.logger.Error().Err(err).
			Str("user_email", userEmail).
			Str("product_id", productID).
			Msg("failed to decrement cart line")
		return fmt.Errorf("failed to decrement cart line: %w", err)
	}

	return tx.Commit(ctx)
}

// Remove deletes the line regardless of quantity.
func (r *cartRepository) Remove(ctx context.Context, userEmail, productID string) error {
	query := `DELETE FROM cart WHERE user_email = $1 AND product_id = $2`

	_, err := r.pool.Exec(ctx, query, userEmail, productID)
	if err != nil {
		r.logger.Error().Err(err).
			Str("user_email", userEmail).
			Str("product_id", productID).
			Msg("failed to remove cart line")
		return fmt.Errorf("failed to remove cart line: %w", err)
	}

	return nil
}

// GetLines retrieves all cart lines for a user, oldest first.
func (r *cartRepository) GetLines(ctx context.Context, userEmail string) ([]model.CartLine, error) {
	query := `
		SELECT user_email, product_id, quantity, updated_at
		FROM cart
		WHERE user_email = $1
		ORDER BY updated_at, product_id
	`

	rows, err := r.pool.Query(ctx, query, userEmail)
	if err != nil {
		r.logger.Error().Err(err).Str("user_email", userEmail).Msg("failed to query cart lines")
		return nil, fmt.Errorf("failed to query cart lines: %w", err)
	}
	defer rows.Close()

	var lines []model.CartLine
	for rows.Next() {
		var line model.CartLine
		err := rows.Scan(&line.UserEmail, &line.ProductID, &line.Quantity, &line.UpdatedAt)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart line row")
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart line rows")
		return nil, fmt.Errorf("error iterating cart lines: %w", err)
	}

	return lines, nil
}

// Clear deletes every cart line for a user.
func (r *cartRepository) Clear(ctx context.Context, userEmail string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cart WHERE user_email = $1`, userEmail)
	if err != nil {
		r.logger.Error().Err(err).Str("user_email", userEmail).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	r.logger.Debug().
		Str("user_email", userEmail).
		Int64("lines_removed", tag.RowsAffected()).
		Msg("cart cleared")

	return nil
}
