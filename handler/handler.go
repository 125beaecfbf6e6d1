package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go-bank-accounts/account"
	"go-bank-accounts/storage"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

var (
	errNotInterestBearing  = errors.New("account does not accrue interest")
	errPolicyNotApplicable = errors.New("policy field does not apply to this account kind")
)

// accounts loads, rebuilds and saves domain accounts through a Store.
type accounts struct {
	store  storage.Store
	logger *zap.Logger
	opts   []account.Option
}

// mutate locks the given accounts, hands the rebuilt domain objects to fn and
// persists their new state. Nothing is saved when fn fails.
func (a *accounts) mutate(ctx context.Context, numbers []int64, fn func([]account.Account) error) ([]account.State, error) {
	var saved []account.State
	err := a.store.UpdateAccounts(ctx, numbers, func(states []*account.State) error {
		accs := make([]account.Account, 0, len(states))
		for _, st := range states {
			acc, err := account.FromState(*st, a.opts...)
			if err != nil {
				return err
			}
			accs = append(accs, acc)
		}

		if err := fn(accs); err != nil {
			return err
		}

		saved = make([]account.State, 0, len(accs))
		for i, acc := range accs {
			*states[i] = account.StateOf(acc)
			saved = append(saved, *states[i])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// statusFor maps domain and storage errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, account.ErrWithdrawLimit):
		return http.StatusUnprocessableEntity
	case errors.Is(err, account.ErrInterestPeriod):
		return http.StatusConflict
	case errors.Is(err, account.ErrDepositAmount),
		errors.Is(err, account.ErrWithdrawAmount),
		errors.Is(err, account.ErrCreditLimit),
		errors.Is(err, account.ErrWithdrawalFee),
		errors.Is(err, account.ErrInterestLimit),
		errors.Is(err, account.ErrUnknownKind),
		errors.Is(err, errNotInterestBearing),
		errors.Is(err, errPolicyNotApplicable):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, logger *zap.Logger, msg string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error(msg, zap.Error(err))
		http.Error(w, msg, status)
		return
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Error writing JSON response", zap.Error(err))
	}
}

// accountNumber reads the {account_number} path variable.
func accountNumber(r *http.Request) (int64, bool) {
	idStr, ok := mux.Vars(r)["account_number"]
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}
