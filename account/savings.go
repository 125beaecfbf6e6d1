package account

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var defaultMonthlyInterest = decimal.NewFromInt(3)

// interestPlaces is the minor-unit precision interest is rounded to.
const interestPlaces = 2

// Savings is an account without overdraft that accrues monthly interest.
type Savings struct {
	base
	monthlyInterest  decimal.Decimal
	lastInterestPaid time.Time
	clock            Clock
}

// NewSavings creates an empty savings account paying 3% a month. The
// creation date counts as the last interest payment.
func NewSavings(number, holder int64, opts ...Option) *Savings {
	o := newOptions(opts)
	return &Savings{
		base:             newBase(number, holder, KindSavings, o.logger),
		monthlyInterest:  defaultMonthlyInterest,
		lastInterestPaid: dateOf(o.clock()),
		clock:            o.clock,
	}
}

func (s *Savings) Kind() Kind                       { return KindSavings }
func (s *Savings) MonthlyInterest() decimal.Decimal { return s.monthlyInterest }
func (s *Savings) LastInterestPaid() time.Time      { return s.lastInterestPaid }

// SetMonthlyInterest replaces the interest percentage. Negative rates are rejected.
func (s *Savings) SetMonthlyInterest(rate decimal.Decimal) error {
	if rate.IsNegative() {
		s.logger.Warn("negative monthly interest rejected", zap.String("monthly_interest", rate.String()))
		return fmt.Errorf("%w: got %s", ErrInterestLimit, rate)
	}
	s.monthlyInterest = rate
	return nil
}

// Withdraw removes amount if the balance covers it. No fee, no ceiling.
func (s *Savings) Withdraw(amount decimal.Decimal) error {
	if err := CheckWithdrawLimit(amount, s.balance); err != nil {
		return s.rejectWithdrawal(amount, err)
	}
	s.debit(amount)
	return nil
}

// ApplyInterest posts one month of interest, rounded half-up to cents. It
// fails with ErrInterestPeriod if less than a whole month has passed since
// the previous posting.
func (s *Savings) ApplyInterest() error {
	today := dateOf(s.clock())
	if err := checkInterestPeriod(s.lastInterestPaid, today); err != nil {
		s.logger.Warn("interest rejected",
			zap.Time("last_interest_paid", s.lastInterestPaid),
			zap.Error(err),
		)
		return err
	}

	interest := s.balance.Mul(s.monthlyInterest).Shift(-2).Round(interestPlaces)
	s.balance = s.balance.Add(interest)
	s.lastInterestPaid = today
	s.logger.Info("interest applied",
		zap.String("interest", interest.String()),
		zap.String("balance", s.balance.String()),
	)
	return nil
}

func checkInterestPeriod(last, current time.Time) error {
	if monthsBetween(last, current) < 1 {
		return fmt.Errorf("%w: last paid %s, now %s",
			ErrInterestPeriod, last.Format(time.DateOnly), current.Format(time.DateOnly))
	}
	return nil
}

// monthsBetween counts whole calendar months from start to end. A month is
// complete once the day of month of start has been reached again.
func monthsBetween(start, end time.Time) int {
	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()
	total := (ey*12 + int(em)) - (sy*12 + int(sm))
	days := ed - sd
	switch {
	case total > 0 && days < 0:
		total--
	case total < 0 && days > 0:
		total++
	}
	return total
}

// dateOf drops the time of day, keeping the calendar date of t in its own location.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
