package account

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreditMaxTransaction caps a single fee-inclusive credit withdrawal.
var CreditMaxTransaction = decimal.NewFromInt(5_000)

var (
	defaultCreditLimit   = decimal.NewFromInt(5_000)
	defaultWithdrawalFee = decimal.NewFromInt(1)
)

// Credit is an account that may go negative down to its credit limit.
// Every withdrawal is charged a percentage fee before the limits are checked.
type Credit struct {
	base
	creditLimit   decimal.Decimal
	withdrawalFee decimal.Decimal
}

// NewCredit creates an empty credit account with a 5000 limit and a 1% fee.
func NewCredit(number, holder int64, opts ...Option) *Credit {
	o := newOptions(opts)
	return &Credit{
		base:          newBase(number, holder, KindCredit, o.logger),
		creditLimit:   defaultCreditLimit,
		withdrawalFee: defaultWithdrawalFee,
	}
}

func (c *Credit) Kind() Kind                     { return KindCredit }
func (c *Credit) CreditLimit() decimal.Decimal   { return c.creditLimit }
func (c *Credit) WithdrawalFee() decimal.Decimal { return c.withdrawalFee }

// SetCreditLimit replaces the credit limit. Negative limits are rejected.
func (c *Credit) SetCreditLimit(limit decimal.Decimal) error {
	if limit.IsNegative() {
		c.logger.Warn("negative credit limit rejected", zap.String("credit_limit", limit.String()))
		return fmt.Errorf("%w: got %s", ErrCreditLimit, limit)
	}
	c.creditLimit = limit
	return nil
}

// SetWithdrawalFee replaces the fee percentage. Negative fees are rejected.
func (c *Credit) SetWithdrawalFee(fee decimal.Decimal) error {
	if fee.IsNegative() {
		c.logger.Warn("negative withdrawal fee rejected", zap.String("withdrawal_fee", fee.String()))
		return fmt.Errorf("%w: got %s", ErrWithdrawalFee, fee)
	}
	c.withdrawalFee = fee
	return nil
}

// ApplyFee returns amount plus the withdrawal fee. No rounding is applied.
func (c *Credit) ApplyFee(amount decimal.Decimal) decimal.Decimal {
	return amount.Add(amount.Mul(c.withdrawalFee).Shift(-2))
}

// Withdraw removes amount plus fee. Both the credit limit and the ceiling
// are checked against the fee-inclusive amount.
func (c *Credit) Withdraw(amount decimal.Decimal) error {
	withFee := c.ApplyFee(amount)
	c.logger.Debug("withdrawal fee applied",
		zap.String("amount", amount.String()),
		zap.String("amount_with_fee", withFee.String()),
	)
	if err := CheckCreditWithdrawLimit(withFee, c.balance, c.creditLimit); err != nil {
		return c.rejectWithdrawal(withFee, err)
	}
	if err := checkCeiling(withFee, CreditMaxTransaction); err != nil {
		return c.rejectWithdrawal(withFee, err)
	}
	c.debit(withFee)
	return nil
}
