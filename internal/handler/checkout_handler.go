package handler

import (
	"net/http"
	"os"

	"kloudcart/internal/middleware"
	"kloudcart/internal/model"
	"kloudcart/internal/receipt"
	"kloudcart/internal/service"

	"github.com/rs/zerolog"
)

// CheckoutHandler handles order confirmation and receipt download.
type CheckoutHandler struct {
	service    service.CheckoutService
	receiptLog service.ReceiptLogService
	receipts   receipt.Store
	logger     zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(service service.CheckoutService, receiptLog service.ReceiptLogService, receipts receipt.Store, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service:    service,
		receiptLog: receiptLog,
		receipts:   receipts,
		logger:     logger.With().Str("handler", "checkout").Logger(),
	}
}

// Confirm handles POST /api/checkout requests.
func (h *CheckoutHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeDomainError(w, model.ErrNotAuthenticated, h.logger)
		return
	}

	confirmation, err := h.service.ConfirmOrder(r.Context(), user.Email)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, confirmation)
}

// DownloadReceipt handles GET /api/receipts/{filename} requests. Users
// can only fetch their own receipts; admins can fetch any. Ownership is
// resolved through the receipt log rather than the filename, which is
// derived from a lossy sanitisation of the user's email.
func (h *CheckoutHandler) DownloadReceipt(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeDomainError(w, model.ErrNotAuthenticated, h.logger)
		return
	}

	filename := r.PathValue("filename")
	if filename == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "receipt filename is required", h.logger)
		return
	}

	entry, err := h.receiptLog.FindByFilename(r.Context(), filename)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	if entry == nil {
		writeError(w, http.StatusNotFound, model.ErrCodeInternalError, "receipt not found", h.logger)
		return
	}

	if !user.IsAdmin && entry.UserEmail != user.Email {
		writeDomainError(w, model.ErrForbidden, h.logger)
		return
	}

	path, err := h.receipts.Path(filename)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "invalid receipt filename", h.logger)
		return
	}

	if _, err := os.Stat(path); err != nil {
		writeError(w, http.StatusNotFound, model.ErrCodeInternalError, "receipt not found", h.logger)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	http.ServeFile(w, r, path)
}
