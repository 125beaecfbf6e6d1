package transaction

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"go-bank-accounts/account"
)

// Withdrawal statuses reported to a Recorder.
const (
	StatusApplied       = "applied"
	StatusLimitExceeded = "limit_exceeded"
	StatusAborted       = "aborted"
)

// Recorder receives one event per withdrawal attempt in a batch.
type Recorder interface {
	RecordWithdrawal(kind account.Kind, status string)
}

type nopRecorder struct{}

func (nopRecorder) RecordWithdrawal(account.Kind, string) {}

// PrometheusRecorder counts batch withdrawals by account kind and status.
type PrometheusRecorder struct {
	withdrawals *prometheus.CounterVec
}

// NewPrometheusRecorder registers the batch counters with reg.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	return &PrometheusRecorder{
		withdrawals: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "batch_withdrawals_total",
				Help: "Total number of withdrawal attempts made by batch transactions",
			},
			[]string{"kind", "status"},
		),
	}
}

func (m *PrometheusRecorder) RecordWithdrawal(kind account.Kind, status string) {
	m.withdrawals.WithLabelValues(string(kind), status).Inc()
}
