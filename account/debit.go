package account

import "github.com/shopspring/decimal"

// DebitMaxTransaction is the largest single withdrawal a debit account accepts.
var DebitMaxTransaction = decimal.NewFromInt(10_000)

// Debit is an account that can never go below zero.
type Debit struct {
	base
}

// NewDebit creates an empty debit account.
func NewDebit(number, holder int64, opts ...Option) *Debit {
	o := newOptions(opts)
	return &Debit{base: newBase(number, holder, KindDebit, o.logger)}
}

func (d *Debit) Kind() Kind { return KindDebit }

// Withdraw removes amount if it is covered by the balance and within the ceiling.
func (d *Debit) Withdraw(amount decimal.Decimal) error {
	if err := CheckWithdrawLimit(amount, d.balance); err != nil {
		return d.rejectWithdrawal(amount, err)
	}
	if err := checkCeiling(amount, DebitMaxTransaction); err != nil {
		return d.rejectWithdrawal(amount, err)
	}
	d.debit(amount)
	return nil
}
