package handler

import (
	"net/http"

	"kloudcart/internal/service"

	"github.com/rs/zerolog"
)

// AdminHandler handles the admin panel's read endpoints. Product writes
// live on ProductHandler and are mounted behind the same admin guard.
type AdminHandler struct {
	receiptLog service.ReceiptLogService
	logger     zerolog.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(receiptLog service.ReceiptLogService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		receiptLog: receiptLog,
		logger:     logger.With().Str("handler", "admin").Logger(),
	}
}

// ListReceipts handles GET /api/admin/receipts requests, newest first.
func (h *AdminHandler) ListReceipts(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := parsePagination(w, r, h.logger)
	if !ok {
		return
	}

	entries, err := h.receiptLog.List(r.Context(), limit, offset)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}
