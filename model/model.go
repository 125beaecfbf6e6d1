// Package model defines the JSON request and response bodies of the HTTP API.
//
// Money travels as decimal strings ("3030.00"), never as JSON numbers, so that
// amounts survive the round trip without binary floating point.
package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"go-bank-accounts/account"
	"go-bank-accounts/transaction"
)

// CreateAccountRequest defines the expected JSON body for opening an account.
type CreateAccountRequest struct {
	AccountNumber int64        `json:"account_number" validate:"required"`
	AccountHolder int64        `json:"account_holder" validate:"required"`
	Kind          account.Kind `json:"kind" validate:"required,oneof=debit credit savings"`
}

// DepositRequest defines the expected JSON body for a deposit.
type DepositRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// PolicyRequest changes the policy fields of an account. Omitted fields are left as they are.
type PolicyRequest struct {
	CreditLimit     *decimal.Decimal `json:"credit_limit,omitempty"`
	WithdrawalFee   *decimal.Decimal `json:"withdrawal_fee,omitempty"`
	MonthlyInterest *decimal.Decimal `json:"monthly_interest,omitempty"`
}

// TransactionRequest defines the expected JSON body for a batch withdrawal.
type TransactionRequest struct {
	AccountNumbers []int64         `json:"account_numbers" validate:"required,min=1,unique"`
	Amount         decimal.Decimal `json:"amount"`
}

// OutcomeResponse is one account's result within a batch.
type OutcomeResponse struct {
	AccountNumber int64        `json:"account_number"`
	Kind          account.Kind `json:"kind"`
	Status        string       `json:"status"`
	Error         string       `json:"error,omitempty"`
}

// TransactionResponse is returned after a batch withdrawal completes.
type TransactionResponse struct {
	BatchID  uuid.UUID         `json:"batch_id"`
	Amount   decimal.Decimal   `json:"amount"`
	Outcomes []OutcomeResponse `json:"outcomes"`
	Accounts []account.State   `json:"accounts"`
}

// NewTransactionResponse converts a batch report and the resulting account states.
func NewTransactionResponse(report transaction.Report, states []account.State) TransactionResponse {
	resp := TransactionResponse{
		BatchID:  report.ID,
		Amount:   report.Amount,
		Outcomes: make([]OutcomeResponse, 0, len(report.Outcomes)),
		Accounts: states,
	}
	for _, o := range report.Outcomes {
		out := OutcomeResponse{
			AccountNumber: o.AccountNumber,
			Kind:          o.Kind,
			Status:        transaction.StatusApplied,
		}
		if !o.OK() {
			out.Status = transaction.StatusLimitExceeded
			out.Error = o.Err.Error()
		}
		resp.Outcomes = append(resp.Outcomes, out)
	}
	return resp
}
