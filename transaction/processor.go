// Package transaction applies one withdrawal amount to a list of accounts.
package transaction

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"go-bank-accounts/account"
)

// Processor runs batch withdrawals. It is stateless apart from its
// collaborators and can be shared.
type Processor struct {
	logger  *zap.Logger
	metrics Recorder
}

// NewProcessor creates a Processor. A nil logger or recorder disables that output.
func NewProcessor(logger *zap.Logger, metrics Recorder) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = nopRecorder{}
	}
	return &Processor{logger: logger, metrics: metrics}
}

// ProcessTransaction withdraws amount from every account, in order. A limit
// failure is recorded in the report and processing continues. Any other
// error stops the batch: the report holds the outcomes so far and the error
// is returned wrapped with the failing account number.
func (p *Processor) ProcessTransaction(accounts []account.Account, amount decimal.Decimal) (Report, error) {
	report := Report{
		ID:       uuid.New(),
		Amount:   amount,
		Outcomes: make([]Outcome, 0, len(accounts)),
	}
	logger := p.logger.With(zap.String("batch_id", report.ID.String()))
	logger.Info("batch withdrawal started",
		zap.String("amount", amount.String()),
		zap.Int("accounts", len(accounts)),
	)

	for _, acc := range accounts {
		err := acc.Withdraw(amount)
		switch {
		case err == nil:
			p.metrics.RecordWithdrawal(acc.Kind(), StatusApplied)
		case errors.Is(err, account.ErrWithdrawLimit):
			p.metrics.RecordWithdrawal(acc.Kind(), StatusLimitExceeded)
			logger.Info("withdrawal skipped",
				zap.Int64("account_number", acc.Number()),
				zap.Error(err),
			)
		default:
			p.metrics.RecordWithdrawal(acc.Kind(), StatusAborted)
			logger.Error("batch withdrawal aborted",
				zap.Int64("account_number", acc.Number()),
				zap.Error(err),
			)
			return report, fmt.Errorf("account %d: %w", acc.Number(), err)
		}
		report.Outcomes = append(report.Outcomes, Outcome{
			AccountNumber: acc.Number(),
			Kind:          acc.Kind(),
			Err:           err,
		})
	}

	logger.Info("batch withdrawal finished",
		zap.Int("applied", len(report.Succeeded())),
		zap.Int("skipped", len(report.Failed())),
	)
	return report, nil
}
