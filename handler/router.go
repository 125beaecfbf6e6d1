package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the account and transaction handlers. Metrics from
// gatherer are served on /metrics when it is not nil.
func NewRouter(accounts *AccountHandler, transactions *TransactionHandler, gatherer prometheus.Gatherer, mw ...mux.MiddlewareFunc) *mux.Router {
	r := mux.NewRouter()
	r.Use(mw...)
	r.HandleFunc("/accounts", accounts.CreateAccountHandler).Methods(http.MethodPost)
	r.HandleFunc("/accounts/{account_number}", accounts.GetAccountHandler).Methods(http.MethodGet)
	r.HandleFunc("/accounts/{account_number}/deposits", accounts.DepositHandler).Methods(http.MethodPost)
	r.HandleFunc("/accounts/{account_number}/interest", accounts.ApplyInterestHandler).Methods(http.MethodPost)
	r.HandleFunc("/accounts/{account_number}/policy", accounts.UpdatePolicyHandler).Methods(http.MethodPatch)
	r.HandleFunc("/transactions", transactions.CreateTransactionHandler).Methods(http.MethodPost)
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}
	return r
}
