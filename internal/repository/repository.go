package repository

import (
	"context"

	"kloudcart/internal/model"
)

// ProductRepository defines the interface for catalogue data access.
type ProductRepository interface {
	// GetAll retrieves all products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID. Returns (nil, nil)
	// when the product does not exist.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs. Missing IDs are
	// simply absent from the result.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// Create inserts a new product.
	Create(ctx context.Context, product *model.Product) error

	// Update replaces the mutable fields of an existing product.
	// Returns model.ErrProductNotFound when no row matches.
	Update(ctx context.Context, product *model.Product) error

	// Delete removes a product. Returns model.ErrProductNotFound when no
	// row matches.
	Delete(ctx context.Context, id string) error
}

// CartRepository defines the interface for per-user cart line access.
// All mutations are single-row atomic operations so concurrent updates
// to one line cannot be lost.
type CartRepository interface {
	// AddOne creates the (user, product) line with quantity 1, or
	// atomically increments an existing line by 1.
	AddOne(ctx context.Context, userEmail, productID string) error

	// RemoveOne atomically decrements the line by 1, deleting it when the
	// quantity would reach zero. A missing line is a no-op, not an error.
	RemoveOne(ctx context.Context, userEmail, productID string) error

	// Remove deletes the line regardless of quantity. Missing lines are a
	// no-op.
	Remove(ctx context.Context, userEmail, productID string) error

	// GetLines retrieves all cart lines for a user, oldest first.
	GetLines(ctx context.Context, userEmail string) ([]model.CartLine, error)

	// Clear deletes every cart line for a user.
	Clear(ctx context.Context, userEmail string) error
}

// ReceiptRepository defines the interface for the append-only receipt log.
type ReceiptRepository interface {
	// Insert appends one completed-order record.
	Insert(ctx context.Context, entry *model.ReceiptLogEntry) error

	// List retrieves receipt log entries, newest first.
	List(ctx context.Context, limit, offset int) ([]model.ReceiptLogEntry, error)

	// GetByFilename retrieves the entry for a receipt document. Returns
	// (nil, nil) when no entry references the filename.
	GetByFilename(ctx context.Context, filename string) (*model.ReceiptLogEntry, error)
}

// UserRepository defines the interface for account data access.
type UserRepository interface {
	// Create inserts a new user. Returns model.ErrEmailTaken when the
	// email is already registered.
	Create(ctx context.Context, user *model.User) error

	// GetByEmail retrieves a user by email. Returns (nil, nil) when the
	// user does not exist.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}
