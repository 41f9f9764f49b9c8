package service

import (
	"context"
	"fmt"
	"time"

	"kloudcart/internal/model"
	"kloudcart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// GetAll retrieves all products with pagination.
func (s *productService) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	if limit < 1 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	products, err := s.productRepo.GetAll(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	if products == nil {
		products = []model.Product{}
	}
	return products, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		return nil, fmt.Errorf("product ID is required")
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}

	return product, nil
}

// Create adds a new product to the catalogue.
func (s *productService) Create(ctx context.Context, req *model.ProductRequest) (*model.Product, error) {
	if err := validateProductRequest(req); err != nil {
		return nil, err
	}

	product := &model.Product{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Price:       req.Price,
		Category:    req.Category,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		CreatedAt:   time.Now(),
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().
		Str("product_id", product.ID).
		Str("name", product.Name).
		Msg("product created")

	return product, nil
}

// Update edits an existing product.
func (s *productService) Update(ctx context.Context, id string, req *model.ProductRequest) (*model.Product, error) {
	if id == "" {
		return nil, fmt.Errorf("product ID is required")
	}
	if err := validateProductRequest(req); err != nil {
		return nil, err
	}

	product := &model.Product{
		ID:          id,
		Name:        req.Name,
		Price:       req.Price,
		Category:    req.Category,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info().Str("product_id", id).Msg("product updated")
	return product, nil
}

// Delete removes a product from the catalogue. Cart lines referencing it
// become dangling and are filtered at view and checkout time.
func (s *productService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("product ID is required")
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("product_id", id).Msg("product deleted")
	return nil
}

// validateProductRequest validates a create/update payload.
func validateProductRequest(req *model.ProductRequest) error {
	if req == nil {
		return fmt.Errorf("product request is nil")
	}
	if req.Name == "" {
		return fmt.Errorf("product name is required")
	}
	if req.Price < 0 {
		return fmt.Errorf("product price cannot be negative")
	}
	return nil
}
