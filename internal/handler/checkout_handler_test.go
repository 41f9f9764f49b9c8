package handler

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"kloudcart/internal/model"
	"kloudcart/internal/receipt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCheckoutHandler_Confirm(t *testing.T) {
	t.Run("confirms order", func(t *testing.T) {
		svc := new(MockCheckoutService)
		h := NewCheckoutHandler(svc, new(MockReceiptLogService), new(MockReceiptStore), zerolog.Nop())

		confirmation := &model.OrderConfirmation{
			Snapshot: model.OrderSnapshot{
				OrderID:   uuid.New(),
				UserEmail: "alice@example.com",
				Items: []model.OrderItem{
					{Name: "Tomatoes", Quantity: 2, Price: 30, Subtotal: 60},
				},
				Total:     60,
				CreatedAt: time.Now(),
			},
			ReceiptFilename: "receipt_alice_example_com_20260901120000.pdf",
			EmailSent:       true,
		}
		svc.On("ConfirmOrder", mock.Anything, "alice@example.com").Return(confirmation, nil)

		rec := httptest.NewRecorder()
		h.Confirm(rec, authedRequest(http.MethodPost, "/api/checkout", alice))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), confirmation.Snapshot.OrderID.String())
	})

	t.Run("empty cart is a 400", func(t *testing.T) {
		svc := new(MockCheckoutService)
		h := NewCheckoutHandler(svc, new(MockReceiptLogService), new(MockReceiptStore), zerolog.Nop())

		svc.On("ConfirmOrder", mock.Anything, "alice@example.com").
			Return(nil, model.ErrEmptyCart)

		rec := httptest.NewRecorder()
		h.Confirm(rec, authedRequest(http.MethodPost, "/api/checkout", alice))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), model.ErrCodeEmptyCart)
	})

	t.Run("unauthenticated request is rejected", func(t *testing.T) {
		svc := new(MockCheckoutService)
		h := NewCheckoutHandler(svc, new(MockReceiptLogService), new(MockReceiptStore), zerolog.Nop())

		req := httptest.NewRequest(http.MethodPost, "/api/checkout", nil)
		rec := httptest.NewRecorder()
		h.Confirm(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		svc.AssertNotCalled(t, "ConfirmOrder", mock.Anything, mock.Anything)
	})
}

func TestCheckoutHandler_DownloadReceipt(t *testing.T) {
	filename := receipt.Filename(alice.Email, time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))

	logEntry := func(userEmail string) *model.ReceiptLogEntry {
		return &model.ReceiptLogEntry{
			ID:              uuid.New(),
			UserEmail:       userEmail,
			ReceiptFilename: filename,
			EmailStatus:     model.EmailStatusSent,
		}
	}

	t.Run("serves the owner's receipt", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, filename)
		require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 test"), 0o644))

		receiptLog := new(MockReceiptLogService)
		receiptLog.On("FindByFilename", mock.Anything, filename).Return(logEntry(alice.Email), nil)
		store := new(MockReceiptStore)
		store.On("Path", filename).Return(path, nil)
		h := NewCheckoutHandler(new(MockCheckoutService), receiptLog, store, zerolog.Nop())

		req := authedRequest(http.MethodGet, "/api/receipts/"+filename, alice)
		req.SetPathValue("filename", filename)
		rec := httptest.NewRecorder()
		h.DownloadReceipt(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), "%PDF")
	})

	t.Run("someone else's receipt is forbidden", func(t *testing.T) {
		receiptLog := new(MockReceiptLogService)
		receiptLog.On("FindByFilename", mock.Anything, filename).Return(logEntry(alice.Email), nil)
		store := new(MockReceiptStore)
		h := NewCheckoutHandler(new(MockCheckoutService), receiptLog, store, zerolog.Nop())

		bob := &model.User{Email: "bob@example.com", Name: "Bob"}
		req := authedRequest(http.MethodGet, "/api/receipts/"+filename, bob)
		req.SetPathValue("filename", filename)
		rec := httptest.NewRecorder()
		h.DownloadReceipt(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		store.AssertNotCalled(t, "Path", mock.Anything)
	})

	t.Run("emails with colliding sanitised forms are distinct owners", func(t *testing.T) {
		// "a.b@example.com" and "a_b@example.com" produce identical
		// filenames, so the filename alone cannot prove ownership.
		victimFile := receipt.Filename("a.b@example.com", time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))
		require.Equal(t, victimFile, receipt.Filename("a_b@example.com", time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)))

		receiptLog := new(MockReceiptLogService)
		receiptLog.On("FindByFilename", mock.Anything, victimFile).Return(&model.ReceiptLogEntry{
			ID:              uuid.New(),
			UserEmail:       "a.b@example.com",
			ReceiptFilename: victimFile,
			EmailStatus:     model.EmailStatusSent,
		}, nil)
		store := new(MockReceiptStore)
		h := NewCheckoutHandler(new(MockCheckoutService), receiptLog, store, zerolog.Nop())

		lookalike := &model.User{Email: "a_b@example.com", Name: "Lookalike"}
		req := authedRequest(http.MethodGet, "/api/receipts/"+victimFile, lookalike)
		req.SetPathValue("filename", victimFile)
		rec := httptest.NewRecorder()
		h.DownloadReceipt(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		store.AssertNotCalled(t, "Path", mock.Anything)
	})

	t.Run("shorter email cannot claim a longer identity's receipt", func(t *testing.T) {
		victimFile := receipt.Filename("alice@x.com.evil", time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))

		receiptLog := new(MockReceiptLogService)
		receiptLog.On("FindByFilename", mock.Anything, victimFile).Return(&model.ReceiptLogEntry{
			ID:              uuid.New(),
			UserEmail:       "alice@x.com.evil",
			ReceiptFilename: victimFile,
			EmailStatus:     model.EmailStatusSent,
		}, nil)
		store := new(MockReceiptStore)
		h := NewCheckoutHandler(new(MockCheckoutService), receiptLog, store, zerolog.Nop())

		shorter := &model.User{Email: "alice@x.com", Name: "Alice"}
		req := authedRequest(http.MethodGet, "/api/receipts/"+victimFile, shorter)
		req.SetPathValue("filename", victimFile)
		rec := httptest.NewRecorder()
		h.DownloadReceipt(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		store.AssertNotCalled(t, "Path", mock.Anything)
	})

	t.Run("admin can fetch any receipt", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, filename)
		require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 test"), 0o644))

		receiptLog := new(MockReceiptLogService)
		receiptLog.On("FindByFilename", mock.Anything, filename).Return(logEntry(alice.Email), nil)
		store := new(MockReceiptStore)
		store.On("Path", filename).Return(path, nil)
		h := NewCheckoutHandler(new(MockCheckoutService), receiptLog, store, zerolog.Nop())

		admin := &model.User{Email: "admin@kloudcart.com", Name: "Admin", IsAdmin: true}
		req := authedRequest(http.MethodGet, "/api/receipts/"+filename, admin)
		req.SetPathValue("filename", filename)
		rec := httptest.NewRecorder()
		h.DownloadReceipt(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown filename is a 404", func(t *testing.T) {
		receiptLog := new(MockReceiptLogService)
		receiptLog.On("FindByFilename", mock.Anything, filename).Return(nil, nil)
		store := new(MockReceiptStore)
		h := NewCheckoutHandler(new(MockCheckoutService), receiptLog, store, zerolog.Nop())

		req := authedRequest(http.MethodGet, "/api/receipts/"+filename, alice)
		req.SetPathValue("filename", filename)
		rec := httptest.NewRecorder()
		h.DownloadReceipt(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		store.AssertNotCalled(t, "Path", mock.Anything)
	})

	t.Run("missing file is a 404", func(t *testing.T) {
		receiptLog := new(MockReceiptLogService)
		receiptLog.On("FindByFilename", mock.Anything, filename).Return(logEntry(alice.Email), nil)
		store := new(MockReceiptStore)
		store.On("Path", filename).Return(filepath.Join(t.TempDir(), filename), nil)
		h := NewCheckoutHandler(new(MockCheckoutService), receiptLog, store, zerolog.Nop())

		req := authedRequest(http.MethodGet, "/api/receipts/"+filename, alice)
		req.SetPathValue("filename", filename)
		rec := httptest.NewRecorder()
		h.DownloadReceipt(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAdminHandler_ListReceipts(t *testing.T) {
	svc := new(MockReceiptLogService)
	h := NewAdminHandler(svc, zerolog.Nop())

	svc.On("List", mock.Anything, 50, 0).Return([]model.ReceiptLogEntry{
		{
			ID:          uuid.New(),
			UserEmail:   "alice@example.com",
			Username:    "Alice",
			TotalAmount: 80,
			EmailStatus: model.EmailStatusSent,
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/receipts", nil)
	rec := httptest.NewRecorder()
	h.ListReceipts(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), model.EmailStatusSent)
}
