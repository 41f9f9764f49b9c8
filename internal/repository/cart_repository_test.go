package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartRepository_AddOne(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewCartRepository(pool, zerolog.Nop())

	// First add creates the line with quantity 1
	require.NoError(t, repo.AddOne(ctx, "alice@example.com", "P001"))
	assert.Equal(t, 1, cartQuantity(t, pool, "alice@example.com", "P001"))

	// Repeated adds increment the same line
	require.NoError(t, repo.AddOne(ctx, "alice@example.com", "P001"))
	require.NoError(t, repo.AddOne(ctx, "alice@example.com", "P001"))
	assert.Equal(t, 3, cartQuantity(t, pool, "alice@example.com", "P001"))

	// Lines are scoped per user
	require.NoError(t, repo.AddOne(ctx, "bob@example.com", "P001"))
	assert.Equal(t, 1, cartQuantity(t, pool, "bob@example.com", "P001"))
	assert.Equal(t, 3, cartQuantity(t, pool, "alice@example.com", "P001"))
}

func TestCartRepository_RemoveOne(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewCartRepository(pool, zerolog.Nop())

	require.NoError(t, repo.AddOne(ctx, "alice@example.com", "P001"))
	require.NoError(t, repo.AddOne(ctx, "alice@example.com", "P001"))

	// Decrement leaves quantity 1
	require.NoError(t, repo.RemoveOne(ctx, "alice@example.com", "P001"))
	assert.Equal(t, 1, cartQuantity(t, pool, "alice@example.com", "P001"))

	// Decrement at quantity 1 deletes the line instead of persisting zero
	require.NoError(t, repo.RemoveOne(ctx, "alice@example.com", "P001"))
	assert.Equal(t, 0, cartQuantity(t, pool, "alice@example.com", "P001"))

	lines, err := repo.GetLines(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Empty(t, lines)

	// Decrement on an absent line is a no-op, not an error
	require.NoError(t, repo.RemoveOne(ctx, "alice@example.com", "P001"))
	require.NoError(t, repo.RemoveOne(ctx, "alice@example.com", "P999"))
}

func TestCartRepository_RemoveOne_ConcurrentDecrements(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewCartRepository(pool, zerolog.Nop())

	require.NoError(t, repo.AddOne(ctx, "alice@example.com", "P001"))
	require.NoError(t, repo.AddOne(ctx, "alice@example.com", "P001"))

	// Two simultaneous decrements from quantity 2 must remove the line;
	// the row lock stops both from observing the original quantity.
	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.RemoveOne(ctx, "alice@example.com", "P001")
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, 0, cartQuantity(t, pool, "alice@example.com", "P001"))
}

func TestCartRepository_Remove(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewCartRepository(pool, zerolog.Nop())

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.AddOne(ctx, "alice@example.com", "P001"))
	}

	// Remove deletes the line regardless of quantity
	require.NoError(t, repo.Remove(ctx, "alice@example.com", "P001"))
	assert.Equal(t, 0, cartQuantity(t, pool, "alice@example.com", "P001"))

	// Removing an absent line is a no-op
	require.NoError(t, repo.Remove(ctx, "alice@example.com", "P001"))
}

func TestCartRepository_GetLines(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewCartRepository(pool, zerolog.Nop())

	require.NoError(t, repo.AddOne(ctx, "alice@example.com", "P001"))
	require.NoError(t, repo.AddOne(ctx, "alice@example.com", "P002"))
	require.NoError(t, repo.AddOne(ctx, "alice@example.com", "P002"))
	require.NoError(t, repo.AddOne(ctx, "bob@example.com", "P003"))

	lines, err := repo.GetLines(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Len(t, lines, 2)

	byProduct := map[string]int{}
	for _, line := range lines {
		assert.Equal(t, "alice@example.com", line.UserEmail)
		byProduct[line.ProductID] = line.Quantity
	}
	assert.Equal(t, map[string]int{"P001": 1, "P002": 2}, byProduct)

	// Unknown user has an empty cart
	lines, err = repo.GetLines(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestCartRepository_Clear(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewCartRepository(pool, zerolog.Nop())

	require.NoError(t, repo.AddOne(ctx, "alice@example.com", "P001"))
	require.NoError(t, repo.AddOne(ctx, "alice@example.com", "P002"))
	require.NoError(t, repo.AddOne(ctx, "bob@example.com", "P001"))

	require.NoError(t, repo.Clear(ctx, "alice@example.com"))

	lines, err := repo.GetLines(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Empty(t, lines)

	// Other users' carts are untouched
	lines, err = repo.GetLines(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Len(t, lines, 1)

	// Clearing an already-empty cart succeeds
	require.NoError(t, repo.Clear(ctx, "alice@example.com"))
}
