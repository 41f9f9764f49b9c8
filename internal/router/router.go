package router

import (
	"net/http"

	"kloudcart/internal/handler"
	"kloudcart/internal/middleware"
	"kloudcart/internal/repository"
	"kloudcart/internal/session"

	"github.com/rs/zerolog"
)

// New creates the HTTP router with all routes and middleware configured.
// Catalogue reads are public; cart, checkout and receipt routes require
// a session; admin routes additionally require the admin flag.
func New(
	authHandler *handler.AuthHandler,
	productHandler *handler.ProductHandler,
	cartHandler *handler.CartHandler,
	checkoutHandler *handler.CheckoutHandler,
	adminHandler *handler.AdminHandler,
	sessions session.Store,
	users repository.UserRepository,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	authed := middleware.SessionAuth(sessions, users, logger)
	admin := func(h http.HandlerFunc) http.Handler {
		return authed(middleware.RequireAdmin(logger)(h))
	}

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Accounts and sessions
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.Handle("GET /api/auth/me", authed(http.HandlerFunc(authHandler.Me)))

	// Catalogue
	mux.HandleFunc("GET /api/products", productHandler.GetAll)
	mux.HandleFunc("GET /api/products/{id}", productHandler.GetByID)

	// Cart
	mux.Handle("GET /api/cart", authed(http.HandlerFunc(cartHandler.View)))
	mux.Handle("POST /api/cart/add/{id}", authed(http.HandlerFunc(cartHandler.Add)))
	mux.Handle("POST /api/cart/increase/{id}", authed(http.HandlerFunc(cartHandler.Increase)))
	mux.Handle("POST /api/cart/decrease/{id}", authed(http.HandlerFunc(cartHandler.Decrease)))
	mux.Handle("POST /api/cart/remove/{id}", authed(http.HandlerFunc(cartHandler.Remove)))

	// Checkout and receipts
	mux.Handle("POST /api/checkout", authed(http.HandlerFunc(checkoutHandler.Confirm)))
	mux.Handle("GET /api/receipts/{filename}", authed(http.HandlerFunc(checkoutHandler.DownloadReceipt)))

	// Admin panel
	mux.Handle("POST /api/admin/products", admin(productHandler.Create))
	mux.Handle("PUT /api/admin/products/{id}", admin(productHandler.Update))
	mux.Handle("DELETE /api/admin/products/{id}", admin(productHandler.Delete))
	mux.Handle("GET /api/admin/receipts", admin(adminHandler.ListReceipts))

	// Apply middleware in order: Recovery -> Logging -> CORS
	var h http.Handler = mux
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
