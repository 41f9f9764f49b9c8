package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"kloudcart/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// receiptRepository implements the ReceiptRepository interface using
// PostgreSQL. Line items are denormalised into a jsonb column so entries
// survive later catalogue edits.
type receiptRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewReceiptRepository creates a new PostgreSQL-backed receipt repository.
func NewReceiptRepository(pool *pgxpool.Pool, logger zerolog.Logger) ReceiptRepository {
	return &receiptRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "receipt").Logger(),
	}
}

// Insert appends one completed-order record.
func (r *receiptRepository) Insert(ctx context.Context, entry *model.ReceiptLogEntry) error {
	items, err := json.Marshal(entry.Items)
	if err != nil {
		r.logger.Error().Err(err).Str("receipt_id", entry.ID.String()).Msg("failed to marshal receipt items")
		return fmt.Errorf("failed to marshal receipt items: %w", err)
	}

	query := `
		INSERT INTO receipts (id, user_email, username, items, total_amount, timestamp, receipt_filename, email_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = r.pool.Exec(ctx, query,
		entry.ID, entry.UserEmail, entry.Username, items,
		entry.TotalAmount, entry.Timestamp, entry.ReceiptFilename, entry.EmailStatus)
	if err != nil {
		r.logger.Error().Err(err).
			Str("receipt_id", entry.ID.String()).
			Str("user_email", entry.UserEmail).
			Msg("failed to insert receipt log entry")
		return fmt.Errorf("failed to insert receipt log entry: %w", err)
	}

	r.logger.Debug().
		Str("receipt_id", entry.ID.String()).
		Str("email_status", entry.EmailStatus).
		Msg("receipt log entry inserted")

	return nil
}

// List retrieves receipt log entries, newest first.
func (r *receiptRepository) List(ctx context.Context, limit, offset int) ([]model.ReceiptLogEntry, error) {
	query := `
		SELECT id, user_email, username, items, total_amount, timestamp, receipt_filename, email_status
		FROM receipts
		ORDER BY timestamp DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query receipt log")
		return nil, fmt.Errorf("failed to query receipt log: %w", err)
	}
	defer rows.Close()

	var entries []model.ReceiptLogEntry
	for rows.Next() {
		var entry model.ReceiptLogEntry
		var items []byte
		err := rows.Scan(
			&entry.ID, &entry.UserEmail, &entry.Username, &items,
			&entry.TotalAmount, &entry.Timestamp, &entry.ReceiptFilename, &entry.EmailStatus)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan receipt log row")
			return nil, fmt.Errorf("failed to scan receipt log entry: %w", err)
		}

		if err := json.Unmarshal(items, &entry.Items); err != nil {
			r.logger.Error().Err(err).Str("receipt_id", entry.ID.String()).Msg("failed to unmarshal receipt items")
			return nil, fmt.Errorf("failed to unmarshal receipt items: %w", err)
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating receipt log rows")
		return nil, fmt.Errorf("error iterating receipt log: %w", err)
	}

	return entries, nil
}

// GetByFilename retrieves the entry for a receipt document. Returns
// (nil, nil) when no entry references the filename.
func (r *receiptRepository) GetByFilename(ctx context.Context, filename string) (*model.ReceiptLogEntry, error) {
	query := `
		SELECT id, user_email, username, items, total_amount, timestamp, receipt_filename, email_status
		FROM receipts
		WHERE receipt_filename = $1
	`

	var entry model.ReceiptLogEntry
	var items []byte
	err := r.pool.QueryRow(ctx, query, filename).Scan(
		&entry.ID, &entry.UserEmail, &entry.Username, &items,
		&entry.TotalAmount, &entry.Timestamp, &entry.ReceiptFilename, &entry.EmailStatus)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error().Err(err).Str("receipt_filename", filename).Msg("failed to query receipt log entry")
		return nil, fmt.Errorf("failed to query receipt log entry: %w", err)
	}

	if err := json.Unmarshal(items, &entry.Items); err != nil {
		r.logger.Error().Err(err).Str("receipt_id", entry.ID.String()).Msg("failed to unmarshal receipt items")
		return nil, fmt.Errorf("failed to unmarshal receipt items: %w", err)
	}

	return &entry, nil
}
