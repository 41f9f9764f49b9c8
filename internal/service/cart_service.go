package service

import (
	"context"
	"fmt"

	"kloudcart/internal/model"
	"kloudcart/internal/repository"

	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// AddItem adds one unit of the product to the user's cart.
func (s *cartService) AddItem(ctx context.Context, userEmail, productID string) error {
	if userEmail == "" {
		return fmt.Errorf("user identity is required")
	}
	if productID == "" {
		return fmt.Errorf("product ID is required")
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("failed to resolve product: %w", err)
	}
	if product == nil {
		s.logger.Warn().
			Str("user_email", userEmail).
			Str("product_id", productID).
			Msg("attempt to add unknown product to cart")
		return model.ErrProductNotFound
	}

	if err := s.cartRepo.AddOne(ctx, userEmail, productID); err != nil {
		return err
	}

	s.logger.Debug().
		Str("user_email", userEmail).
		Str("product_id", productID).
		Msg("cart line incremented")

	return nil
}

// IncreaseItem adds one unit, same semantics as AddItem.
func (s *cartService) IncreaseItem(ctx context.Context, userEmail, productID string) error {
	return s.AddItem(ctx, userEmail, productID)
}

// DecreaseItem removes one unit from the line. The line is deleted when
// its quantity reaches zero; an absent line is a no-op.
func (s *cartService) DecreaseItem(ctx context.Context, userEmail, productID string) error {
	if userEmail == "" {
		return fmt.Errorf("user identity is required")
	}
	if productID == "" {
		return fmt.Errorf("product ID is required")
	}

	return s.cartRepo.RemoveOne(ctx, userEmail, productID)
}

// RemoveItem deletes the whole line.
func (s *cartService) RemoveItem(ctx context.Context, userEmail, productID string) error {
	if userEmail == "" {
		return fmt.Errorf("user identity is required")
	}
	if productID == "" {
		return fmt.Errorf("product ID is required")
	}

	return s.cartRepo.Remove(ctx, userEmail, productID)
}

// ViewCart renders the cart against the live catalogue.
func (s *cartService) ViewCart(ctx context.Context, userEmail string) (*model.CartView, error) {
	if userEmail == "" {
		return nil, fmt.Errorf("user identity is required")
	}

	lines, err := s.cartRepo.GetLines(ctx, userEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	view := &model.CartView{Items: []model.CartViewItem{}}
	if len(lines) == 0 {
		return view, nil
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

	for _, line := range lines {
		product, ok := byID[line.ProductID]
		if !ok {
			// Product deleted after being added; hidden from the view.
			s.logger.Debug().
				Str("user_email", userEmail).
				Str("product_id", line.ProductID).
				Msg("cart line references missing product")
			continue
		}

		subtotal := float64(line.Quantity) * product.Price
		view.Items = append(view.Items, model.CartViewItem{
			Product:  product,
			Quantity: line.Quantity,
			Subtotal: subtotal,
		})
		view.Total += subtotal
	}

	return view, nil
}
