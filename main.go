package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go-bank-accounts/account"
	"go-bank-accounts/config"
	"go-bank-accounts/handler"
	"go-bank-accounts/logging"
	"go-bank-accounts/storage"
	"go-bank-accounts/transaction"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	if err := newRootCmd(cfg, logger).Execute(); err != nil {
		logger.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config, logger *zap.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:          "bank",
		Short:        "Bank accounts with batch withdrawals",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(cfg, logger), newDemoCmd(logger))
	return root
}

func newServeCmd(cfg *config.Config, logger *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API backed by PostgreSQL",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), cfg, logger)
		},
	}
}

func newDemoCmd(logger *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run two batch withdrawals against in-memory accounts and print the balances",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.OutOrStdout(), logger)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	// Setup signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL environment variable is not set")
	}

	store, err := storage.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close()
	logger.Info("Database connection established and schema initialized.")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	processor := transaction.NewProcessor(logger, transaction.NewPrometheusRecorder(reg))

	accountOpts := []account.Option{account.WithLogger(logger)}
	accountHandler := handler.NewAccountHandler(store, logger, accountOpts...)
	transactionHandler := handler.NewTransactionHandler(store, processor, logger, accountOpts...)

	var middleware []mux.MiddlewareFunc
	if cfg.RateLimitRPS > 0 {
		middleware = append(middleware, handler.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, logger).Middleware())
	}

	server := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: handler.NewRouter(accountHandler, transactionHandler, reg, middleware...),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", zap.String("addr", cfg.ServerAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for shutdown signal
	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("ListenAndServe error: %w", err)
	}
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.Info("Server gracefully stopped")
	return nil
}

// runDemo opens a debit, a credit and a savings account, funds two of them
// and withdraws 3000 and then 1000 from all three.
func runDemo(out io.Writer, logger *zap.Logger) error {
	opts := []account.Option{account.WithLogger(logger)}
	debit := account.NewDebit(1, 11, opts...)
	credit := account.NewCredit(2, 22, opts...)
	savings := account.NewSavings(3, 33, opts...)

	if err := debit.Deposit(decimal.NewFromInt(4000)); err != nil {
		return err
	}
	if err := savings.Deposit(decimal.NewFromInt(3000)); err != nil {
		return err
	}

	accounts := []account.Account{debit, credit, savings}
	processor := transaction.NewProcessor(logger, nil)
	for _, amount := range []int64{3000, 1000} {
		report, err := processor.ProcessTransaction(accounts, decimal.NewFromInt(amount))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "withdraw %d (batch %s)\n", amount, report.ID)
		for _, o := range report.Outcomes {
			status := transaction.StatusApplied
			if !o.OK() {
				status = transaction.StatusLimitExceeded
			}
			fmt.Fprintf(out, "  account %d (%s): %s\n", o.AccountNumber, o.Kind, status)
		}
		for _, acc := range accounts {
			fmt.Fprintf(out, "  balance %d: %s\n", acc.Number(), acc.Balance().StringFixed(2))
		}
	}
	return nil
}
