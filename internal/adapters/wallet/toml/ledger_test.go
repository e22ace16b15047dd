package toml

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerCreditAccumulates(t *testing.T) {
	t.Parallel()

	ledger := NewLedger(filepath.Join(t.TempDir(), "wallet.toml"))
	ctx := context.Background()

	ok, err := ledger.CreditBalance(ctx, "mira", 50000, "daily salary", "income")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ledger.CreditBalance(ctx, "mira", 8000, "daily salary", "income")
	require.NoError(t, err)
	assert.True(t, ok)

	balance, err := ledger.Balance(ctx, "mira")
	require.NoError(t, err)
	assert.Equal(t, int64(58000), balance)
}

func TestLedgerRefusesOverdraw(t *testing.T) {
	t.Parallel()

	ledger := NewLedger(filepath.Join(t.TempDir(), "wallet.toml"))
	ctx := context.Background()

	ok, err := ledger.CreditBalance(ctx, "mira", 100, "seed", "income")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = ledger.CreditBalance(ctx, "mira", -150, "groceries", "expense")
	require.NoError(t, err)
	assert.False(t, ok, "overdraw is a refusal, not an error")

	balance, err := ledger.Balance(ctx, "mira")
	require.NoError(t, err)
	assert.Equal(t, int64(100), balance, "a refused debit leaves the balance untouched")

	ok, err = ledger.CreditBalance(ctx, "mira", -100, "groceries", "expense")
	require.NoError(t, err)
	assert.True(t, ok, "draining to exactly zero is allowed")
}

func TestLedgerBalancesAreIndependent(t *testing.T) {
	t.Parallel()

	ledger := NewLedger(filepath.Join(t.TempDir(), "wallet.toml"))
	ctx := context.Background()

	_, err := ledger.CreditBalance(ctx, "mira", 500, "", "")
	require.NoError(t, err)
	_, err = ledger.CreditBalance(ctx, "juno", 700, "", "")
	require.NoError(t, err)

	balance, err := ledger.Balance(ctx, "mira")
	require.NoError(t, err)
	assert.Equal(t, int64(500), balance)

	balance, err = ledger.Balance(ctx, "juno")
	require.NoError(t, err)
	assert.Equal(t, int64(700), balance)
}

func TestLedgerMissingFileIsEmpty(t *testing.T) {
	t.Parallel()

	ledger := NewLedger(filepath.Join(t.TempDir(), "wallet.toml"))

	balance, err := ledger.Balance(context.Background(), "mira")
	require.NoError(t, err)
	assert.Zero(t, balance)
}

func TestLedgerPersistsAcrossInstances(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "wallet.toml")
	ctx := context.Background()

	first := NewLedger(path)
	ok, err := first.CreditBalance(ctx, "mira", 50000, "daily salary", "income")
	require.NoError(t, err)
	require.True(t, ok)

	second := NewLedger(path)
	balance, err := second.Balance(ctx, "mira")
	require.NoError(t, err)
	assert.Equal(t, int64(50000), balance)
}

func TestLedgerCancelledContext(t *testing.T) {
	t.Parallel()

	ledger := NewLedger(filepath.Join(t.TempDir(), "wallet.toml"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ledger.CreditBalance(ctx, "mira", 100, "", "")
	assert.Error(t, err)
}
