package account

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// State is the serializable form of an account. Policy fields that do not
// apply to the kind are left invalid (null).
type State struct {
	Number           int64               `json:"account_number"`
	Holder           int64               `json:"account_holder"`
	Kind             Kind                `json:"kind"`
	Balance          decimal.Decimal     `json:"balance"`
	CreditLimit      decimal.NullDecimal `json:"credit_limit"`
	WithdrawalFee    decimal.NullDecimal `json:"withdrawal_fee"`
	MonthlyInterest  decimal.NullDecimal `json:"monthly_interest"`
	LastInterestPaid *time.Time          `json:"last_interest_paid,omitempty"`
}

// StateOf captures the current state of a.
func StateOf(a Account) State {
	st := State{
		Number:  a.Number(),
		Holder:  a.Holder(),
		Kind:    a.Kind(),
		Balance: a.Balance(),
	}
	switch v := a.(type) {
	case *Credit:
		st.CreditLimit = decimal.NewNullDecimal(v.creditLimit)
		st.WithdrawalFee = decimal.NewNullDecimal(v.withdrawalFee)
	case *Savings:
		st.MonthlyInterest = decimal.NewNullDecimal(v.monthlyInterest)
		paid := v.lastInterestPaid
		st.LastInterestPaid = &paid
	}
	return st
}

// New creates an empty account of the given kind with default policy.
func New(kind Kind, number, holder int64, opts ...Option) (Account, error) {
	switch kind {
	case KindDebit:
		return NewDebit(number, holder, opts...), nil
	case KindCredit:
		return NewCredit(number, holder, opts...), nil
	case KindSavings:
		return NewSavings(number, holder, opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// FromState rebuilds an account from st. Policy values go through the
// regular setters, so a negative rate or limit is rejected.
func FromState(st State, opts ...Option) (Account, error) {
	a, err := New(st.Kind, st.Number, st.Holder, opts...)
	if err != nil {
		return nil, err
	}

	switch v := a.(type) {
	case *Debit:
		v.balance = st.Balance
	case *Credit:
		v.balance = st.Balance
		if st.CreditLimit.Valid {
			if err := v.SetCreditLimit(st.CreditLimit.Decimal); err != nil {
				return nil, err
			}
		}
		if st.WithdrawalFee.Valid {
			if err := v.SetWithdrawalFee(st.WithdrawalFee.Decimal); err != nil {
				return nil, err
			}
		}
	case *Savings:
		v.balance = st.Balance
		if st.MonthlyInterest.Valid {
			if err := v.SetMonthlyInterest(st.MonthlyInterest.Decimal); err != nil {
				return nil, err
			}
		}
		if st.LastInterestPaid != nil {
			v.lastInterestPaid = dateOf(*st.LastInterestPaid)
		}
	}
	return a, nil
}
