// storage/postgres_test.go
package storage

import (
	"context"
	"errors"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"go-bank-accounts/account"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var testStore *PostgresStore

// TestMain sets up the test database container and runs the tests.
func TestMain(m *testing.M) {
	ctx := context.Background()

	pgContainer, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:14-alpine"),
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpassword"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		log.Fatalf("could not start postgres container: %s", err)
	}

	connString, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Fatalf("could not get connection string: %s", err)
	}

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		log.Fatalf("could not connect to test database: %s", err)
	}

	testStore = &PostgresStore{db: pool}
	if err := testStore.initSchema(ctx); err != nil {
		log.Fatalf("could not initialize schema: %s", err)
	}

	code := m.Run()

	// os.Exit skips deferred calls, so clean up explicitly.
	pool.Close()
	if err := pgContainer.Terminate(ctx); err != nil {
		log.Printf("could not terminate postgres container: %s", err)
	}
	os.Exit(code)
}

// truncateTables clears the accounts table between tests to ensure isolation.
func truncateTables(t *testing.T, ctx context.Context) {
	t.Helper()
	_, err := testStore.db.Exec(ctx, "TRUNCATE TABLE accounts")
	require.NoError(t, err, "failed to truncate tables")
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func createAccount(t *testing.T, ctx context.Context, a account.Account) {
	t.Helper()
	require.NoError(t, testStore.CreateAccount(ctx, account.StateOf(a)))
}

func TestCreateAndGetAccount(t *testing.T) {
	ctx := context.Background()
	truncateTables(t, ctx)

	t.Run("debit account round trip", func(t *testing.T) {
		// Arrange
		debit := account.NewDebit(1, 11)
		require.NoError(t, debit.Deposit(dec("100.50")))

		// Act
		createAccount(t, ctx, debit)

		// Assert
		st, err := testStore.GetAccount(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(11), st.Holder)
		assert.Equal(t, account.KindDebit, st.Kind)
		assert.True(t, dec("100.50").Equal(st.Balance), "got %s", st.Balance)
		assert.False(t, st.CreditLimit.Valid)
		assert.Nil(t, st.LastInterestPaid)
	})

	t.Run("credit policy is stored", func(t *testing.T) {
		credit := account.NewCredit(2, 22)
		require.NoError(t, credit.SetWithdrawalFee(dec("0.25")))
		require.NoError(t, credit.Withdraw(dec("10.01")))
		createAccount(t, ctx, credit)

		st, err := testStore.GetAccount(ctx, 2)
		require.NoError(t, err)

		assert.True(t, credit.Balance().Equal(st.Balance), "got %s", st.Balance)
		assert.True(t, dec("5000").Equal(st.CreditLimit.Decimal))
		assert.True(t, dec("0.25").Equal(st.WithdrawalFee.Decimal))
	})

	t.Run("savings interest date is stored", func(t *testing.T) {
		opened := time.Date(2026, time.March, 3, 15, 0, 0, 0, time.UTC)
		savings := account.NewSavings(3, 33, account.WithClock(func() time.Time { return opened }))
		createAccount(t, ctx, savings)

		st, err := testStore.GetAccount(ctx, 3)
		require.NoError(t, err)

		require.NotNil(t, st.LastInterestPaid)
		assert.True(t, st.LastInterestPaid.Equal(time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)))
		assert.True(t, dec("3").Equal(st.MonthlyInterest.Decimal))
	})

	t.Run("creating an account is idempotent", func(t *testing.T) {
		debit := account.NewDebit(1, 99)

		err := testStore.CreateAccount(ctx, account.StateOf(debit))

		require.NoError(t, err)
		st, err := testStore.GetAccount(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(11), st.Holder)
	})
}

func TestGetAccount_NotFound(t *testing.T) {
	ctx := context.Background()
	truncateTables(t, ctx)

	_, err := testStore.GetAccount(ctx, 999)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateAccounts(t *testing.T) {
	ctx := context.Background()
	truncateTables(t, ctx)

	debit := account.NewDebit(10, 1)
	require.NoError(t, debit.Deposit(dec("4000")))
	savings := account.NewSavings(20, 2)
	require.NoError(t, savings.Deposit(dec("3000")))
	createAccount(t, ctx, debit)
	createAccount(t, ctx, account.NewCredit(30, 3))
	createAccount(t, ctx, savings)

	t.Run("states are passed in requested order and written back", func(t *testing.T) {
		// Act
		err := testStore.UpdateAccounts(ctx, []int64{30, 10, 20}, func(states []*account.State) error {
			require.Len(t, states, 3)
			assert.Equal(t, int64(30), states[0].Number)
			assert.Equal(t, int64(10), states[1].Number)
			assert.Equal(t, int64(20), states[2].Number)
			for _, st := range states {
				st.Balance = st.Balance.Sub(dec("1.5"))
			}
			return nil
		})
		require.NoError(t, err)

		// Assert
		got, err := testStore.GetAccount(ctx, 30)
		require.NoError(t, err)
		assert.True(t, dec("-1.5").Equal(got.Balance))
		got, err = testStore.GetAccount(ctx, 10)
		require.NoError(t, err)
		assert.True(t, dec("3998.5").Equal(got.Balance))
	})

	t.Run("callback error rolls back", func(t *testing.T) {
		boom := errors.New("boom")

		err := testStore.UpdateAccounts(ctx, []int64{20}, func(states []*account.State) error {
			states[0].Balance = decimal.Zero
			return boom
		})

		assert.ErrorIs(t, err, boom)
		got, err := testStore.GetAccount(ctx, 20)
		require.NoError(t, err)
		assert.True(t, dec("2998.5").Equal(got.Balance))
	})

	t.Run("missing account", func(t *testing.T) {
		called := false

		err := testStore.UpdateAccounts(ctx, []int64{10, 404}, func([]*account.State) error {
			called = true
			return nil
		})

		assert.ErrorIs(t, err, ErrNotFound)
		assert.False(t, called)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelCtx, cancel := context.WithCancel(ctx)
		cancel()

		err := testStore.UpdateAccounts(cancelCtx, []int64{10}, func([]*account.State) error { return nil })

		require.Error(t, err)
		assert.Contains(t, err.Error(), "context canceled")
	})
}

func TestUpdateAccounts_ConcurrentWithdrawals(t *testing.T) {
	ctx := context.Background()
	truncateTables(t, ctx)

	// Arrange
	debit := account.NewDebit(100, 1)
	require.NoError(t, debit.Deposit(dec("1000")))
	createAccount(t, ctx, debit)

	var wg sync.WaitGroup
	errs := make(chan error, 100)

	// Act: every goroutine withdraws 10 through the domain type under the row lock
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := testStore.UpdateAccounts(context.Background(), []int64{100}, func(states []*account.State) error {
				acc, err := account.FromState(*states[0])
				if err != nil {
					return err
				}
				if err := acc.Withdraw(dec("10")); err != nil {
					return err
				}
				*states[0] = account.StateOf(acc)
				return nil
			})
			if err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)

	// Assert
	var errorList []error
	for err := range errs {
		errorList = append(errorList, err)
	}
	require.Empty(t, errorList, "concurrent withdrawals should not produce errors: %v", errorList)

	final, err := testStore.GetAccount(ctx, 100)
	require.NoError(t, err)
	assert.True(t, final.Balance.IsZero(), "got %s", final.Balance)
}
