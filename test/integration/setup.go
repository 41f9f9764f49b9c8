package integration

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"kloudcart/internal/database"
	"kloudcart/internal/handler"
	"kloudcart/internal/model"
	"kloudcart/internal/receipt"
	"kloudcart/internal/repository"
	"kloudcart/internal/router"
	"kloudcart/internal/service"
	"kloudcart/internal/session"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, applies the schema and
// returns a connection pool. Skipped under -short.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	if err := database.Migrate(ctx, pool, zerolog.Nop()); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// SeedProducts inserts the catalogue used by the integration tests.
func SeedProducts(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	products := []struct {
		id       string
		name     string
		price    float64
		category string
	}{
		{"P001", "Tomatoes", 30.00, "Vegetables"},
		{"P002", "Potatoes", 20.00, "Vegetables"},
		{"P003", "Milk", 55.00, "Dairy"},
	}

	for _, p := range products {
		_, err := pool.Exec(ctx,
			"INSERT INTO products (id, name, price, category) VALUES ($1, $2, $3, $4)",
			p.id, p.name, p.price, p.category,
		)
		if err != nil {
			t.Fatalf("failed to seed product %s: %v", p.id, err)
		}
	}
}

// CleanupDB removes all data from the test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"receipts", "cart", "users", "products"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}

// memorySessions is an in-memory session.Store so the HTTP tests do not
// need a redis container.
type memorySessions struct {
	mu     sync.Mutex
	tokens map[string]string
}

func newMemorySessions() *memorySessions {
	return &memorySessions{tokens: make(map[string]string)}
}

func (s *memorySessions) Create(_ context.Context, userEmail string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := uuid.NewString()
	s.tokens[token] = userEmail
	return token, nil
}

func (s *memorySessions) Resolve(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.tokens[token], nil
}

func (s *memorySessions) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tokens, token)
	return nil
}

// stubSender is a mail.Sender that records deliveries instead of talking
// to an SMTP server.
type stubSender struct {
	mu      sync.Mutex
	result  bool
	sent    []string
	attach  []string
}

func newStubSender(result bool) *stubSender {
	return &stubSender{result: result}
}

func (s *stubSender) Send(_ context.Context, to string, _ model.OrderSnapshot, attachmentPath string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sent = append(s.sent, to)
	s.attach = append(s.attach, attachmentPath)
	return s.result
}

func (s *stubSender) Deliveries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.sent...)
}

// TestApp wires the full HTTP stack against a real database with an
// in-memory session store and a stub mail sender.
type TestApp struct {
	Handler  http.Handler
	Sessions session.Store
	Sender   *stubSender
	Receipts receipt.Store
}

// NewTestApp assembles the application the way cmd/api does, minus redis
// and SMTP.
func NewTestApp(t *testing.T, pool *pgxpool.Pool) *TestApp {
	t.Helper()

	logger := zerolog.Nop()

	productRepo := repository.NewProductRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	receiptRepo := repository.NewReceiptRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)

	receiptStore, err := receipt.NewFileStore(t.TempDir(), nil, logger)
	if err != nil {
		t.Fatalf("failed to create receipt store: %v", err)
	}

	sessions := newMemorySessions()
	sender := newStubSender(true)
	generator := receipt.NewPDFGenerator(logger)

	productService := service.NewProductService(productRepo, logger)
	cartService := service.NewCartService(cartRepo, productRepo, logger)
	checkoutService := service.NewCheckoutService(cartRepo, productRepo, receiptRepo, userRepo, generator, receiptStore, sender, logger)
	receiptLogService := service.NewReceiptLogService(receiptRepo, logger)
	authService := service.NewAuthService(userRepo, sessions, logger)

	authHandler := handler.NewAuthHandler(authService, time.Hour, logger)
	productHandler := handler.NewProductHandler(productService, logger)
	cartHandler := handler.NewCartHandler(cartService, logger)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, receiptLogService, receiptStore, logger)
	adminHandler := handler.NewAdminHandler(receiptLogService, logger)

	mux := router.New(authHandler, productHandler, cartHandler, checkoutHandler, adminHandler, sessions, userRepo, logger)

	return &TestApp{
		Handler:  mux,
		Sessions: sessions,
		Sender:   sender,
		Receipts: receiptStore,
	}
}
