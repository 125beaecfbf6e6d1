package account

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CheckDepositAmount rejects deposits that are zero or negative.
func CheckDepositAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: got %s", ErrDepositAmount, amount)
	}
	return nil
}

// CheckWithdrawLimit validates a withdrawal against the balance alone.
// The limit is checked before the sign of the amount.
func CheckWithdrawLimit(amount, balance decimal.Decimal) error {
	if amount.GreaterThan(balance) {
		return fmt.Errorf("%w: amount %s exceeds balance %s", ErrWithdrawLimit, amount, balance)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: got %s", ErrWithdrawAmount, amount)
	}
	return nil
}

// CheckCreditWithdrawLimit validates a withdrawal against the balance plus
// the credit limit. Same ordering as CheckWithdrawLimit.
func CheckCreditWithdrawLimit(amount, balance, creditLimit decimal.Decimal) error {
	available := balance.Add(creditLimit)
	if amount.GreaterThan(available) {
		return fmt.Errorf("%w: amount %s exceeds available %s", ErrWithdrawLimit, amount, available)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: got %s", ErrWithdrawAmount, amount)
	}
	return nil
}

// checkCeiling rejects a single transaction above the variant's ceiling.
func checkCeiling(amount, ceiling decimal.Decimal) error {
	if amount.GreaterThan(ceiling) {
		return fmt.Errorf("%w: transaction %s exceeds ceiling %s", ErrWithdrawLimit, amount, ceiling)
	}
	return nil
}
