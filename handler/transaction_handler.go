package handler

import (
	"encoding/json"
	"net/http"

	"go-bank-accounts/account"
	"go-bank-accounts/model"
	"go-bank-accounts/storage"
	"go-bank-accounts/transaction"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// TransactionHandler holds dependencies for transaction-related handlers.
type TransactionHandler struct {
	accounts
	processor *transaction.Processor
	validate  *validator.Validate
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(store storage.Store, processor *transaction.Processor, logger *zap.Logger, opts ...account.Option) *TransactionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransactionHandler{
		accounts:  accounts{store: store, logger: logger, opts: opts},
		processor: processor,
		validate:  newValidator(),
	}
}

// CreateTransactionHandler withdraws the same amount from every listed account,
// in the listed order. Accounts that hit a limit are skipped and reported;
// any other failure rolls the whole batch back.
//
// Method: POST
// Path: /transactions
// Success: 200 OK with the batch report
// Error: 400 Bad Request (for invalid JSON, validation failure or non-positive amount)
// Error: 404 Not Found (if any account does not exist)
// Error: 500 Internal Server Error (for database errors)
func (h *TransactionHandler) CreateTransactionHandler(w http.ResponseWriter, r *http.Request) {
	var req model.TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var report transaction.Report
	states, err := h.mutate(r.Context(), req.AccountNumbers, func(accs []account.Account) error {
		var err error
		report, err = h.processor.ProcessTransaction(accs, req.Amount)
		return err
	})
	if err != nil {
		writeError(w, h.logger, "Failed to process transaction", err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, model.NewTransactionResponse(report, states))
}
