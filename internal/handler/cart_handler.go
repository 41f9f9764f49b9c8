package handler

import (
	"context"
	"net/http"

	"kloudcart/internal/middleware"
	"kloudcart/internal/model"
	"kloudcart/internal/service"

	"github.com/rs/zerolog"
)

// CartHandler handles cart HTTP requests. All routes require an
// authenticated session.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// View handles GET /api/cart requests.
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	view, err := h.service.ViewCart(r.Context(), user.Email)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// Add handles POST /api/cart/add/{id} requests.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.service.AddItem)
}

// Increase handles POST /api/cart/increase/{id} requests.
func (h *CartHandler) Increase(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.service.IncreaseItem)
}

// Decrease handles POST /api/cart/decrease/{id} requests.
func (h *CartHandler) Decrease(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.service.DecreaseItem)
}

// Remove handles POST /api/cart/remove/{id} requests.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.service.RemoveItem)
}

// mutate runs one of the single-product cart operations and responds
// with the refreshed cart view.
func (h *CartHandler) mutate(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, userEmail, productID string) error) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	productID := r.PathValue("id")
	if productID == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "product ID is required", h.logger)
		return
	}

	if err := op(r.Context(), user.Email, productID); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	view, err := h.service.ViewCart(r.Context(), user.Email)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// requireUser fetches the authenticated user placed on the context by
// the session middleware.
func (h *CartHandler) requireUser(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeDomainError(w, model.ErrNotAuthenticated, h.logger)
		return nil, false
	}
	return user, true
}
