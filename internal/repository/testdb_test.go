package repository

import (
	"context"
	"testing"
	"time"

	"kloudcart/internal/database"
	"kloudcart/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL testcontainer, applies the schema and
// returns a connection pool.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	if testing.Short() {
		t.Skip("skipping repository test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	require.NoError(t, database.Migrate(ctx, pool, zerolog.Nop()))

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// seedProducts inserts test products into the database.
func seedProducts(t *testing.T, pool *pgxpool.Pool, products []model.Product) {
	ctx := context.Background()

	query := `
		INSERT INTO products (id, name, price, category, description, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for _, p := range products {
		_, err := pool.Exec(ctx, query,
			p.ID, p.Name, p.Price, p.Category, p.Description, p.ImageURL, p.CreatedAt)
		require.NoError(t, err)
	}
}

// cartQuantity reads the persisted quantity for one cart line, or 0 when
// the line does not exist.
func cartQuantity(t *testing.T, pool *pgxpool.Pool, userEmail, productID string) int {
	ctx := context.Background()

	var quantity int
	err := pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM cart WHERE user_email = $1 AND product_id = $2`,
		userEmail, productID).Scan(&quantity)
	require.NoError(t, err)

	return quantity
}
