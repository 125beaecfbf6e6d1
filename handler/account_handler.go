package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go-bank-accounts/account"
	"go-bank-accounts/model"
	"go-bank-accounts/storage"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// AccountHandler holds dependencies for account-related handlers.
type AccountHandler struct {
	accounts
	validate *validator.Validate
}

// NewAccountHandler creates a new AccountHandler. opts are applied to every
// account rebuilt from the store.
func NewAccountHandler(store storage.Store, logger *zap.Logger, opts ...account.Option) *AccountHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountHandler{
		accounts: accounts{store: store, logger: logger, opts: opts},
		validate: newValidator(),
	}
}

// CreateAccountHandler opens a new account with a zero balance.
// This endpoint is idempotent.
//
// Method: POST
// Path: /accounts
// Success: 201 Created (if new) or 200 OK (if exists)
// Error: 400 Bad Request (for invalid JSON or validation failure)
// Error: 500 Internal Server Error (for database errors)
func (h *AccountHandler) CreateAccountHandler(w http.ResponseWriter, r *http.Request) {
	var req model.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Check if account already exists to determine status code
	existing, err := h.store.GetAccount(r.Context(), req.AccountNumber)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		writeError(w, h.logger, "Could not check for existing account", err)
		return
	}
	if existing != nil {
		writeJSON(w, h.logger, http.StatusOK, existing)
		return
	}

	acc, err := account.New(req.Kind, req.AccountNumber, req.AccountHolder, h.opts...)
	if err != nil {
		writeError(w, h.logger, "Failed to create account", err)
		return
	}
	st := account.StateOf(acc)
	if err := h.store.CreateAccount(r.Context(), st); err != nil {
		writeError(w, h.logger, "Failed to create account", err)
		return
	}

	h.logger.Info("account opened",
		zap.Int64("account_number", st.Number),
		zap.String("kind", string(st.Kind)),
	)
	writeJSON(w, h.logger, http.StatusCreated, st)
}

// GetAccountHandler returns an account's current state.
//
// Method: GET
// Path: /accounts/{account_number}
// Success: 200 OK
// Error: 400 Bad Request (for invalid account number format)
// Error: 404 Not Found (if account does not exist)
func (h *AccountHandler) GetAccountHandler(w http.ResponseWriter, r *http.Request) {
	number, ok := accountNumber(r)
	if !ok {
		http.Error(w, "Invalid account number format", http.StatusBadRequest)
		return
	}

	st, err := h.store.GetAccount(r.Context(), number)
	if err != nil {
		writeError(w, h.logger, "Failed to retrieve account", err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, st)
}

// DepositHandler adds money to an account.
//
// Method: POST
// Path: /accounts/{account_number}/deposits
// Success: 200 OK
// Error: 400 Bad Request (non-positive amount)
// Error: 404 Not Found
func (h *AccountHandler) DepositHandler(w http.ResponseWriter, r *http.Request) {
	number, ok := accountNumber(r)
	if !ok {
		http.Error(w, "Invalid account number format", http.StatusBadRequest)
		return
	}
	var req model.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	states, err := h.mutate(r.Context(), []int64{number}, func(accs []account.Account) error {
		return accs[0].Deposit(req.Amount)
	})
	if err != nil {
		writeError(w, h.logger, "Failed to deposit", err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, states[0])
}

// ApplyInterestHandler posts monthly interest to a savings account.
//
// Method: POST
// Path: /accounts/{account_number}/interest
// Success: 200 OK
// Error: 400 Bad Request (not a savings account)
// Error: 409 Conflict (interest already paid this month)
func (h *AccountHandler) ApplyInterestHandler(w http.ResponseWriter, r *http.Request) {
	number, ok := accountNumber(r)
	if !ok {
		http.Error(w, "Invalid account number format", http.StatusBadRequest)
		return
	}

	states, err := h.mutate(r.Context(), []int64{number}, func(accs []account.Account) error {
		ib, ok := account.AsInterestBearer(accs[0])
		if !ok {
			return errNotInterestBearing
		}
		return ib.ApplyInterest()
	})
	if err != nil {
		writeError(w, h.logger, "Failed to apply interest", err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, states[0])
}

// UpdatePolicyHandler changes the credit limit, withdrawal fee or monthly interest.
//
// Method: PATCH
// Path: /accounts/{account_number}/policy
// Success: 200 OK
// Error: 400 Bad Request (negative value or field not applicable to the kind)
func (h *AccountHandler) UpdatePolicyHandler(w http.ResponseWriter, r *http.Request) {
	number, ok := accountNumber(r)
	if !ok {
		http.Error(w, "Invalid account number format", http.StatusBadRequest)
		return
	}
	var req model.PolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	states, err := h.mutate(r.Context(), []int64{number}, func(accs []account.Account) error {
		return applyPolicy(accs[0], req)
	})
	if err != nil {
		writeError(w, h.logger, "Failed to update policy", err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, states[0])
}

func applyPolicy(acc account.Account, req model.PolicyRequest) error {
	switch a := acc.(type) {
	case *account.Credit:
		if req.MonthlyInterest != nil {
			return errPolicyNotApplicable
		}
		if req.CreditLimit != nil {
			if err := a.SetCreditLimit(*req.CreditLimit); err != nil {
				return err
			}
		}
		if req.WithdrawalFee != nil {
			return a.SetWithdrawalFee(*req.WithdrawalFee)
		}
	case *account.Savings:
		if req.CreditLimit != nil || req.WithdrawalFee != nil {
			return errPolicyNotApplicable
		}
		if req.MonthlyInterest != nil {
			return a.SetMonthlyInterest(*req.MonthlyInterest)
		}
	default:
		if req.CreditLimit != nil || req.WithdrawalFee != nil || req.MonthlyInterest != nil {
			return errPolicyNotApplicable
		}
	}
	return nil
}
