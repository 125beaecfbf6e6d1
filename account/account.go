// Package account defines the bank account variants and their withdrawal rules.
//
// Balances are github.com/shopspring/decimal values; float64 is never used for money.
// Accounts are not safe for concurrent use. Callers that share an account across
// goroutines must serialize access themselves (the storage package does this with
// row locks).
package account

import (
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Kind tags the account variant.
type Kind string

const (
	KindDebit   Kind = "debit"
	KindCredit  Kind = "credit"
	KindSavings Kind = "savings"
)

// Valid reports whether k is one of the known variants.
func (k Kind) Valid() bool {
	switch k {
	case KindDebit, KindCredit, KindSavings:
		return true
	default:
		return false
	}
}

// Account is the capability shared by every variant.
type Account interface {
	Number() int64
	Holder() int64
	Kind() Kind
	Balance() decimal.Decimal
	Deposit(amount decimal.Decimal) error
	Withdraw(amount decimal.Decimal) error
}

// FeeCharger is implemented by variants that surcharge withdrawals.
type FeeCharger interface {
	ApplyFee(amount decimal.Decimal) decimal.Decimal
}

// InterestBearer is implemented by variants that accrue interest.
type InterestBearer interface {
	ApplyInterest() error
}

// AsFeeCharger returns the fee capability of a, if its kind has one.
func AsFeeCharger(a Account) (FeeCharger, bool) {
	switch a.Kind() {
	case KindCredit:
		c, ok := a.(*Credit)
		return c, ok
	default:
		return nil, false
	}
}

// AsInterestBearer returns the interest capability of a, if its kind has one.
func AsInterestBearer(a Account) (InterestBearer, bool) {
	switch a.Kind() {
	case KindSavings:
		s, ok := a.(*Savings)
		return s, ok
	default:
		return nil, false
	}
}

// Clock returns the current time. Savings accounts read it once per call.
type Clock func() time.Time

// Option configures an account at construction.
type Option func(*options)

type options struct {
	logger *zap.Logger
	clock  Clock
}

// WithLogger sets the logger used for account events.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock replaces time.Now as the source of the current date.
func WithClock(clock Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

func newOptions(opts []Option) options {
	o := options{logger: zap.NewNop(), clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// base holds identity and balance. Variants embed it and supply Withdraw.
type base struct {
	number  int64
	holder  int64
	balance decimal.Decimal
	logger  *zap.Logger
}

func newBase(number, holder int64, kind Kind, logger *zap.Logger) base {
	return base{
		number:  number,
		holder:  holder,
		balance: decimal.Zero,
		logger: logger.With(
			zap.Int64("account_number", number),
			zap.String("kind", string(kind)),
		),
	}
}

func (b *base) Number() int64            { return b.number }
func (b *base) Holder() int64            { return b.holder }
func (b *base) Balance() decimal.Decimal { return b.balance }

// Deposit adds a positive amount to the balance.
func (b *base) Deposit(amount decimal.Decimal) error {
	if err := CheckDepositAmount(amount); err != nil {
		b.logger.Warn("deposit rejected", zap.String("amount", amount.String()), zap.Error(err))
		return err
	}
	b.balance = b.balance.Add(amount)
	b.logger.Info("deposit applied",
		zap.String("amount", amount.String()),
		zap.String("balance", b.balance.String()),
	)
	return nil
}

// debit subtracts an already validated amount and logs the new balance.
func (b *base) debit(amount decimal.Decimal) {
	b.balance = b.balance.Sub(amount)
	b.logger.Info("withdrawal applied",
		zap.String("amount", amount.String()),
		zap.String("balance", b.balance.String()),
	)
}

func (b *base) rejectWithdrawal(amount decimal.Decimal, err error) error {
	b.logger.Warn("withdrawal rejected", zap.String("amount", amount.String()), zap.Error(err))
	return err
}
