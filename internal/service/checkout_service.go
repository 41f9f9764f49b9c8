package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"kloudcart/internal/mail"
	"kloudcart/internal/model"
	"kloudcart/internal/receipt"
	"kloudcart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// userLocks serialises checkouts per user so two concurrent confirmations
// cannot both snapshot and clear the same cart. Entries are never removed;
// the map grows with the number of distinct users seen by this process.
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *userLocks) get(key string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[key] = lock
	}
	return lock
}

// checkoutService implements CheckoutService.
type checkoutService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	receiptRepo repository.ReceiptRepository
	userRepo    repository.UserRepository
	generator   receipt.Generator
	store       receipt.Store
	sender      mail.Sender
	locks       *userLocks
	logger      zerolog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	receiptRepo repository.ReceiptRepository,
	userRepo repository.UserRepository,
	generator receipt.Generator,
	store receipt.Store,
	sender mail.Sender,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		receiptRepo: receiptRepo,
		userRepo:    userRepo,
		generator:   generator,
		store:       store,
		sender:      sender,
		locks:       newUserLocks(),
		logger:      logger.With().Str("service", "checkout").Logger(),
	}
}

// ConfirmOrder runs the checkout pipeline:
//
//	snapshot cart -> compute total -> clear cart -> generate receipt
//	-> email receipt -> append receipt log
//
// The first three steps abort on failure and leave the cart untouched
// (except for a failed clear, which aborts after nothing else has
// happened). Once the cart is cleared the order is placed: receipt
// generation, email delivery and the log write are each attempted
// independently, and their failures only degrade the confirmation.
func (s *checkoutService) ConfirmOrder(ctx context.Context, userEmail string) (*model.OrderConfirmation, error) {
	if userEmail == "" {
		return nil, fmt.Errorf("user identity is required")
	}

	lock := s.locks.get(userEmail)
	lock.Lock()
	defer lock.Unlock()

	// Step 1: snapshot the cart at live catalogue prices.
	items, err := s.snapshotItems(ctx, userEmail)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		s.logger.Debug().Str("user_email", userEmail).Msg("checkout attempted with empty cart")
		return nil, model.ErrEmptyCart
	}

	// Step 2: compute the order snapshot.
	var total float64
	for _, item := range items {
		total += item.Subtotal
	}

	snapshot := model.OrderSnapshot{
		OrderID:   uuid.New(),
		UserEmail: userEmail,
		Items:     items,
		Total:     total,
		CreatedAt: time.Now(),
	}

	// Step 3: clear the cart. The order is placed from here on; receipt
	// and email problems must not undo it.
	if err := s.cartRepo.Clear(ctx, userEmail); err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	logger := s.logger.With().
		Str("user_email", userEmail).
		Str("order_id", snapshot.OrderID.String()).
		Logger()

	logger.Info().
		Float64("total", snapshot.Total).
		Int("items", len(snapshot.Items)).
		Msg("order placed")

	// Step 4: generate the receipt document. Best-effort.
	filename, path := s.generateReceipt(ctx, snapshot, logger)

	// Step 5: email the receipt. Best-effort; attempted even when the
	// document could not be generated.
	emailSent := s.sender.Send(ctx, userEmail, snapshot, path)
	if !emailSent {
		logger.Warn().Msg("receipt email could not be delivered")
	}

	// Step 6: append the receipt log. Best-effort: the user already has
	// their confirmation.
	s.appendReceiptLog(ctx, snapshot, filename, emailSent, logger)

	return &model.OrderConfirmation{
		Snapshot:        snapshot,
		ReceiptFilename: filename,
		EmailSent:       emailSent,
	}, nil
}

// snapshotItems joins the user's cart lines against the live catalogue.
// Lines whose product no longer exists are dropped.
func (s *checkoutService) snapshotItems(ctx context.Context, userEmail string) ([]model.OrderItem, error) {
	lines, err := s.cartRepo.GetLines(ctx, userEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, nil
	}

	productIDs := make([]string, len(lines))
	for i, line := range lines {
		productIDs[i] = line.ProductID
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cart products: %w", err)
	}

	byID := make(map[string]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var items []model.OrderItem
	for _, line := range lines {
		product, ok := byID[line.ProductID]
		if !ok {
			s.logger.Warn().
				Str("user_email", userEmail).
				Str("product_id", line.ProductID).
				Msg("cart line skipped at checkout: product no longer exists")
			continue
		}

		items = append(items, model.OrderItem{
			Name:     product.Name,
			Category: product.Category,
			Quantity: line.Quantity,
			Price:    product.Price,
			Subtotal: float64(line.Quantity) * product.Price,
		})
	}

	return items, nil
}

// generateReceipt renders and stores the PDF. On failure it returns empty
// values and the pipeline carries on.
func (s *checkoutService) generateReceipt(ctx context.Context, snapshot model.OrderSnapshot, logger zerolog.Logger) (filename, path string) {
	data, err := s.generator.Generate(snapshot)
	if err != nil {
		logger.Error().Err(err).Msg("receipt generation failed")
		return "", ""
	}

	filename = receipt.Filename(snapshot.UserEmail, snapshot.CreatedAt)
	path, err = s.store.Save(ctx, filename, data)
	if err != nil {
		logger.Error().Err(err).Str("filename", filename).Msg("failed to store receipt document")
		return "", ""
	}

	return filename, path
}

// appendReceiptLog writes the durable order record. Failures are logged
// only.
func (s *checkoutService) appendReceiptLog(ctx context.Context, snapshot model.OrderSnapshot, filename string, emailSent bool, logger zerolog.Logger) {
	username := snapshot.UserEmail
	user, err := s.userRepo.GetByEmail(ctx, snapshot.UserEmail)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to look up user for receipt log")
	} else if user != nil {
		username = user.Name
	}

	status := model.EmailStatusFailed
	if emailSent {
		status = model.EmailStatusSent
	}

	entry := &model.ReceiptLogEntry{
		ID:              snapshot.OrderID,
		UserEmail:       snapshot.UserEmail,
		Username:        username,
		Items:           snapshot.Items,
		TotalAmount:     snapshot.Total,
		Timestamp:       snapshot.CreatedAt,
		ReceiptFilename: filename,
		EmailStatus:     status,
	}

	if err := s.receiptRepo.Insert(ctx, entry); err != nil {
		logger.Error().Err(err).Msg("failed to append receipt log entry")
	}
}

// receiptLogService implements ReceiptLogService.
type receiptLogService struct {
	receiptRepo repository.ReceiptRepository
	logger      zerolog.Logger
}

// NewReceiptLogService creates a new receipt log service.
func NewReceiptLogService(receiptRepo repository.ReceiptRepository, logger zerolog.Logger) ReceiptLogService {
	return &receiptLogService{
		receiptRepo: receiptRepo,
		logger:      logger.With().Str("service", "receipt-log").Logger(),
	}
}

// List retrieves receipt log entries, newest first.
func (s *receiptLogService) List(ctx context.Context, limit, offset int) ([]model.ReceiptLogEntry, error) {
	entries, err := s.receiptRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list receipt log: %w", err)
	}
	return entries, nil
}

// FindByFilename retrieves the entry that references a receipt document,
// or (nil, nil) when none does.
func (s *receiptLogService) FindByFilename(ctx context.Context, filename string) (*model.ReceiptLogEntry, error) {
	entry, err := s.receiptRepo.GetByFilename(ctx, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to look up receipt log entry: %w", err)
	}
	return entry, nil
}
