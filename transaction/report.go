package transaction

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"go-bank-accounts/account"
)

// Outcome is the result of one withdrawal attempt within a batch.
// Err is nil on success; a failed outcome always wraps account.ErrWithdrawLimit.
type Outcome struct {
	AccountNumber int64
	Kind          account.Kind
	Err           error
}

// OK reports whether the withdrawal was applied.
func (o Outcome) OK() bool { return o.Err == nil }

// Report lists the outcomes of a batch in the order the accounts were given.
type Report struct {
	ID       uuid.UUID
	Amount   decimal.Decimal
	Outcomes []Outcome
}

// Succeeded returns the account numbers the withdrawal was applied to.
func (r Report) Succeeded() []int64 {
	var out []int64
	for _, o := range r.Outcomes {
		if o.OK() {
			out = append(out, o.AccountNumber)
		}
	}
	return out
}

// Failed returns the outcomes whose withdrawal was absorbed as a limit failure.
func (r Report) Failed() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if !o.OK() {
			out = append(out, o)
		}
	}
	return out
}
