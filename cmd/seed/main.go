// Command seed loads a starter catalogue and an admin account into the
// database. It is idempotent: existing rows are updated, not duplicated.
package main

import (
	"context"
	"fmt"
	"os"

	"kloudcart/internal/config"
	"kloudcart/internal/database"
	"kloudcart/internal/model"

	"golang.org/x/crypto/bcrypt"
)

var sampleProducts = []model.Product{
	{ID: "P001", Name: "Tomatoes", Price: 30.00, Category: "Vegetables", Description: "Fresh farm tomatoes, sold per kg"},
	{ID: "P002", Name: "Potatoes", Price: 20.00, Category: "Vegetables", Description: "Washed potatoes, sold per kg"},
	{ID: "P003", Name: "Onions", Price: 25.00, Category: "Vegetables", Description: "Red onions, sold per kg"},
	{ID: "P004", Name: "Milk", Price: 55.00, Category: "Dairy", Description: "Full cream milk, 1 litre"},
	{ID: "P005", Name: "Bread", Price: 40.00, Category: "Bakery", Description: "Whole wheat loaf"},
	{ID: "P006", Name: "Eggs", Price: 72.00, Category: "Dairy", Description: "Free range eggs, dozen"},
	{ID: "P007", Name: "Rice", Price: 95.00, Category: "Grains", Description: "Basmati rice, 1 kg"},
	{ID: "P008", Name: "Apples", Price: 120.00, Category: "Fruits", Description: "Shimla apples, sold per kg"},
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to migrate database schema: %w", err)
	}

	for _, p := range sampleProducts {
		_, err := pool.Exec(ctx, `
			INSERT INTO products (id, name, price, category, description, image_url)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name,
			    price = EXCLUDED.price,
			    category = EXCLUDED.category,
			    description = EXCLUDED.description,
			    image_url = EXCLUDED.image_url`,
			p.ID, p.Name, p.Price, p.Category, p.Description, p.ImageURL)
		if err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.ID, err)
		}
	}
	logger.Info().Int("count", len(sampleProducts)).Msg("products seeded")

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		logger.Info().Msg("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin account")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO users (email, name, password_hash, is_admin)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (email) DO UPDATE
		SET password_hash = EXCLUDED.password_hash,
		    is_admin = TRUE`,
		adminEmail, "Admin", string(hash))
	if err != nil {
		return fmt.Errorf("failed to seed admin account: %w", err)
	}

	logger.Info().Str("email", adminEmail).Msg("admin account seeded")
	return nil
}
