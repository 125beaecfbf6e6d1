package account

import "errors"

// Validation errors returned by accounts. Returned errors wrap these values,
// so callers should compare with errors.Is.
var (
	ErrDepositAmount  = errors.New("deposit amount must be positive")
	ErrWithdrawAmount = errors.New("withdraw amount must be positive")
	ErrWithdrawLimit  = errors.New("withdraw limit exceeded")
	ErrCreditLimit    = errors.New("credit limit cannot be negative")
	ErrWithdrawalFee  = errors.New("withdrawal fee cannot be negative")
	ErrInterestLimit  = errors.New("monthly interest cannot be negative")
	ErrInterestPeriod = errors.New("less than a month since the last interest payment")
	ErrUnknownKind    = errors.New("unknown account kind")
)
