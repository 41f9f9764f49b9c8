package service

import (
	"context"

	"kloudcart/internal/model"
)

// ProductService defines catalogue operations. Reads serve the storefront;
// writes are admin-only and enforced at the routing layer.
type ProductService interface {
	// GetAll retrieves all products with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID. Returns (nil, nil) when
	// the product does not exist.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// Create adds a new product to the catalogue.
	Create(ctx context.Context, req *model.ProductRequest) (*model.Product, error)

	// Update edits an existing product.
	Update(ctx context.Context, id string, req *model.ProductRequest) (*model.Product, error)

	// Delete removes a product from the catalogue.
	Delete(ctx context.Context, id string) error
}

// CartService defines operations on a user's cart. All operations are
// scoped to an authenticated user identity.
type CartService interface {
	// AddItem adds one unit of the product, creating the cart line on
	// first add. Unknown products are rejected.
	AddItem(ctx context.Context, userEmail, productID string) error

	// IncreaseItem adds one unit, same semantics as AddItem.
	IncreaseItem(ctx context.Context, userEmail, productID string) error

	// DecreaseItem removes one unit; the line disappears when its
	// quantity reaches zero. Absent lines are a no-op.
	DecreaseItem(ctx context.Context, userEmail, productID string) error

	// RemoveItem deletes the whole line regardless of quantity.
	RemoveItem(ctx context.Context, userEmail, productID string) error

	// ViewCart renders the cart against the live catalogue. Lines whose
	// product no longer exists are excluded from the view.
	ViewCart(ctx context.Context, userEmail string) (*model.CartView, error)
}

// CheckoutService turns a cart into a confirmed order.
type CheckoutService interface {
	// ConfirmOrder snapshots the cart at live catalogue prices, clears
	// it, then generates, emails and logs the receipt. Receipt and email
	// steps are best-effort: their failure is reflected in the returned
	// confirmation, never in the error.
	ConfirmOrder(ctx context.Context, userEmail string) (*model.OrderConfirmation, error)
}

// ReceiptLogService exposes the order history for the admin panel and
// resolves receipt documents back to the order that produced them.
type ReceiptLogService interface {
	// List retrieves receipt log entries, newest first.
	List(ctx context.Context, limit, offset int) ([]model.ReceiptLogEntry, error)

	// FindByFilename retrieves the entry that references a receipt
	// document, or (nil, nil) when none does.
	FindByFilename(ctx context.Context, filename string) (*model.ReceiptLogEntry, error)
}

// AuthService manages accounts and login sessions.
type AuthService interface {
	// Register creates an account. The password is stored as a bcrypt hash.
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)

	// Login verifies credentials and issues a session token.
	Login(ctx context.Context, req *model.LoginRequest) (*model.User, string, error)

	// Logout invalidates a session token.
	Logout(ctx context.Context, token string) error
}
