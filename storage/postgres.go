// storage/postgres.go

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-bank-accounts/account"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Custom errors for the storage layer.
var (
	ErrNotFound = errors.New("account not found")
)

// Store defines the interface for database operations.
type Store interface {
	CreateAccount(ctx context.Context, st account.State) error
	GetAccount(ctx context.Context, number int64) (*account.State, error)
	UpdateAccounts(ctx context.Context, numbers []int64, fn func(states []*account.State) error) error
}

// PostgresStore implements the Store interface for PostgreSQL.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore, connects to the database, and initializes the schema.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	var pool *pgxpool.Pool
	var err error

	// Retry connecting to the database for a few seconds
	for i := 0; i < 5; i++ {
		pool, err = pgxpool.New(ctx, connString)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				break
			}
			pool.Close()
		}
		time.Sleep(1 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("could not connect to database after retries: %w", err)
	}

	store := &PostgresStore{db: pool}
	if err := store.initSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("could not initialize schema: %w", err)
	}

	return store, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.db.Close()
}

// initSchema creates the necessary tables if they don't exist.
// Money columns are unconstrained NUMERIC so fee amounts keep every digit.
func (s *PostgresStore) initSchema(ctx context.Context) error {
	query := `
    CREATE TABLE IF NOT EXISTS accounts (
        account_number BIGINT PRIMARY KEY,
        account_holder BIGINT NOT NULL,
        kind TEXT NOT NULL,
        balance NUMERIC NOT NULL,
        credit_limit NUMERIC,
        withdrawal_fee NUMERIC,
        monthly_interest NUMERIC,
        last_interest_paid DATE,
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    );`
	_, err := s.db.Exec(ctx, query)
	return err
}

const selectColumns = `account_number, account_holder, kind, balance,
	credit_limit, withdrawal_fee, monthly_interest, last_interest_paid`

// CreateAccount stores a new account.
// CreateAccount function is idempotent: if an account with the same number already exists, it does nothing and returns nil.
func (s *PostgresStore) CreateAccount(ctx context.Context, st account.State) error {
	query := `
		INSERT INTO accounts (account_number, account_holder, kind, balance,
			credit_limit, withdrawal_fee, monthly_interest, last_interest_paid)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (account_number) DO NOTHING`
	_, err := s.db.Exec(ctx, query,
		st.Number, st.Holder, string(st.Kind), st.Balance,
		st.CreditLimit, st.WithdrawalFee, st.MonthlyInterest, st.LastInterestPaid)
	return err
}

// GetAccount retrieves a single account by its number.
func (s *PostgresStore) GetAccount(ctx context.Context, number int64) (*account.State, error) {
	query := "SELECT " + selectColumns + " FROM accounts WHERE account_number = $1"
	st, err := scanState(s.db.QueryRow(ctx, query, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return st, nil
}

// UpdateAccounts locks the given accounts within a database transaction, hands
// them to fn in the requested order and writes every state back. Nothing is
// written if fn returns an error.
func (s *PostgresStore) UpdateAccounts(ctx context.Context, numbers []int64, fn func(states []*account.State) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // Rollback is a no-op if the transaction has been committed.

	// Lock accounts in a consistent order (by number) to prevent deadlocks.
	query := "SELECT " + selectColumns + `
        FROM accounts
        WHERE account_number = ANY($1)
        ORDER BY account_number FOR UPDATE`

	rows, err := tx.Query(ctx, query, numbers)
	if err != nil {
		return fmt.Errorf("could not query accounts for update: %w", err)
	}

	found := make(map[int64]*account.State, len(numbers))
	for rows.Next() {
		st, err := scanState(rows)
		if err != nil {
			rows.Close()
			return fmt.Errorf("could not scan account row: %w", err)
		}
		found[st.Number] = st
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("could not read account rows: %w", err)
	}

	states := make([]*account.State, 0, len(numbers))
	for _, n := range numbers {
		st, ok := found[n]
		if !ok {
			return fmt.Errorf("account %d: %w", n, ErrNotFound)
		}
		states = append(states, st)
	}

	if err := fn(states); err != nil {
		return err
	}

	updateQuery := `
		UPDATE accounts
		SET balance = $1, credit_limit = $2, withdrawal_fee = $3,
			monthly_interest = $4, last_interest_paid = $5, updated_at = NOW()
		WHERE account_number = $6`
	for _, st := range states {
		if _, err := tx.Exec(ctx, updateQuery,
			st.Balance, st.CreditLimit, st.WithdrawalFee,
			st.MonthlyInterest, st.LastInterestPaid, st.Number); err != nil {
			return fmt.Errorf("could not update account %d: %w", st.Number, err)
		}
	}

	return tx.Commit(ctx)
}

func scanState(row pgx.Row) (*account.State, error) {
	var (
		st   account.State
		kind string
		paid *time.Time
	)
	err := row.Scan(&st.Number, &st.Holder, &kind, &st.Balance,
		&st.CreditLimit, &st.WithdrawalFee, &st.MonthlyInterest, &paid)
	if err != nil {
		return nil, err
	}
	st.Kind = account.Kind(kind)
	st.LastInterestPaid = paid
	return &st, nil
}
