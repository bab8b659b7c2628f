package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinsolit/lendenbook/internal/model"
)

func TestAddEntryRunningTotals(t *testing.T) {
	env := newTestEnv(t)
	ledger := env.ledger()
	ctx := context.Background()

	first, err := ledger.AddEntry(ctx, "alice", "bob", dec(t, "100"), decimal.Zero, "", time.Time{})
	require.NoError(t, err)
	requireDecimalEqual(t, "100", first.Balance)
	requireDecimalEqual(t, "0", first.TotalPaid)

	second, err := ledger.AddEntry(ctx, "alice", "bob", decimal.Zero, dec(t, "150"), "", time.Time{})
	require.NoError(t, err)
	// 100 - 150 would be -50; the balance floor absorbs the excess.
	requireDecimalEqual(t, "0", second.Balance)
	requireDecimalEqual(t, "150", second.TotalPaid)

	third, err := ledger.AddEntry(ctx, "alice", "bob", dec(t, "20"), decimal.Zero, "", time.Time{})
	require.NoError(t, err)
	// Accumulation resumes from the clamped zero, not from -50.
	requireDecimalEqual(t, "20", third.Balance)
	requireDecimalEqual(t, "150", third.TotalPaid)
}

func TestAddEntryFoldsOverSequence(t *testing.T) {
	env := newTestEnv(t)
	ledger := env.ledger()
	ctx := context.Background()

	steps := []struct {
		received, paid string
	}{
		{"10.50", "0"},
		{"0", "4.25"},
		{"0", "20"},
		{"3", "1"},
		{"100", "0.01"},
	}

	balance := decimal.Zero
	totalPaid := decimal.Zero
	var last *model.Record
	for _, step := range steps {
		var err error
		last, err = ledger.AddEntry(ctx, "alice", "bob", dec(t, step.received), dec(t, step.paid), "", time.Time{})
		require.NoError(t, err)

		balance = balance.Add(dec(t, step.received)).Sub(dec(t, step.paid))
		if balance.IsNegative() {
			balance = decimal.Zero
		}
		totalPaid = totalPaid.Add(dec(t, step.paid))

		require.True(t, last.Balance.Equal(balance), "balance %s != %s", last.Balance, balance)
		require.True(t, last.TotalPaid.Equal(totalPaid), "total paid %s != %s", last.TotalPaid, totalPaid)
	}

	stored, err := env.records.LatestForPayee(ctx, "alice", "bob")
	require.NoError(t, err)
	require.True(t, stored.Balance.Equal(last.Balance))
}

func TestAddEntryPairsAreIndependent(t *testing.T) {
	env := newTestEnv(t)
	ledger := env.ledger()
	ctx := context.Background()

	_, err := ledger.AddEntry(ctx, "alice", "bob", dec(t, "100"), decimal.Zero, "", time.Time{})
	require.NoError(t, err)

	// Same payee name under another owner starts from zero.
	carol, err := ledger.AddEntry(ctx, "carol", "bob", dec(t, "5"), decimal.Zero, "", time.Time{})
	require.NoError(t, err)
	requireDecimalEqual(t, "5", carol.Balance)

	// Another payee of the same owner starts from zero.
	dave, err := ledger.AddEntry(ctx, "alice", "dave", decimal.Zero, dec(t, "30"), "", time.Time{})
	require.NoError(t, err)
	requireDecimalEqual(t, "0", dave.Balance)
	requireDecimalEqual(t, "30", dave.TotalPaid)
}

func TestAddEntryBackdatedPriorIsByInsertionOrder(t *testing.T) {
	env := newTestEnv(t)
	ledger := env.ledger()
	ctx := context.Background()

	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	_, err := ledger.AddEntry(ctx, "alice", "bob", dec(t, "100"), decimal.Zero, "", now)
	require.NoError(t, err)

	// Backdated a week earlier, but inserted second: totals still chain
	// from the previously inserted entry.
	backdated, err := ledger.AddEntry(ctx, "alice", "bob", dec(t, "10"), decimal.Zero, "", now.AddDate(0, 0, -7))
	require.NoError(t, err)
	requireDecimalEqual(t, "110", backdated.Balance)

	// Display order puts the backdated entry first regardless.
	history, err := ledger.PayeeHistory(ctx, "alice", "bob")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, backdated.ID, history[0].ID)
}

func TestAddEntryValidation(t *testing.T) {
	env := newTestEnv(t)
	ledger := env.ledger()
	ctx := context.Background()

	_, err := ledger.AddEntry(ctx, "alice", "   ", dec(t, "1"), decimal.Zero, "", time.Time{})
	assert.ErrorIs(t, err, ErrEmptyPayee)

	_, err = ledger.AddEntry(ctx, "alice", "bob", dec(t, "-1"), decimal.Zero, "", time.Time{})
	assert.ErrorIs(t, err, ErrNegativeAmount)

	_, err = ledger.AddEntry(ctx, "alice", "bob", decimal.Zero, dec(t, "-1"), "", time.Time{})
	assert.ErrorIs(t, err, ErrNegativeAmount)

	history, err := ledger.History(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, history, "rejected entries must not be written")
}

func TestAddEntryTrimsPayeeAndDefaultsTimestamp(t *testing.T) {
	env := newTestEnv(t)
	ledger := env.ledger()
	ctx := context.Background()

	before := time.Now().Add(-time.Second)
	rec, err := ledger.AddEntry(ctx, "alice", "  bob ", dec(t, "1"), decimal.Zero, "lunch", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "bob", rec.Payee)
	assert.Equal(t, "lunch", rec.Note)
	assert.False(t, rec.RecordedAt.Before(before.Truncate(time.Second)))
}

func TestAddEntryPublishesEvent(t *testing.T) {
	env := newTestEnv(t)
	ledger := env.ledger()
	ctx := context.Background()

	_, err := ledger.AddEntry(ctx, "alice", "bob", dec(t, "100"), dec(t, "25"), "", time.Time{})
	require.NoError(t, err)

	published := env.publisher.published()
	require.Len(t, published, 1)
	assert.Equal(t, "alice", published[0].Owner)
	assert.Equal(t, "bob", published[0].Payee)
	requireDecimalEqual(t, "75", published[0].Balance)
	requireDecimalEqual(t, "25", published[0].TotalPaid)
}

func TestBalancesAggregateIsUnclamped(t *testing.T) {
	env := newTestEnv(t)
	ledger := env.ledger()
	ctx := context.Background()

	_, err := ledger.AddEntry(ctx, "alice", "bob", dec(t, "100"), decimal.Zero, "", time.Time{})
	require.NoError(t, err)
	clamped, err := ledger.AddEntry(ctx, "alice", "bob", decimal.Zero, dec(t, "150"), "", time.Time{})
	require.NoError(t, err)
	requireDecimalEqual(t, "0", clamped.Balance)

	_, err = ledger.AddEntry(ctx, "alice", "dave", dec(t, "30"), decimal.Zero, "", time.Time{})
	require.NoError(t, err)

	sheet, err := ledger.Balances(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, sheet.Payees, 2)

	// The stored running balance for bob is 0, but the aggregate re-sum is
	// -50: the legacy summary view diverged exactly like this.
	bob := sheet.Payees[0]
	assert.Equal(t, "bob", bob.Payee)
	requireDecimalEqual(t, "-50", bob.Balance)
	requireDecimalEqual(t, "150", bob.TotalPaid)

	dave := sheet.Payees[1]
	assert.Equal(t, "dave", dave.Payee)
	requireDecimalEqual(t, "30", dave.Balance)

	// Net spans all payees with no per-payee floor: 100-150+30.
	requireDecimalEqual(t, "-20", sheet.Net)
}

func TestBalancesTracksLastActivity(t *testing.T) {
	env := newTestEnv(t)
	ledger := env.ledger()
	ctx := context.Background()

	early := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	late := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	_, err := ledger.AddEntry(ctx, "alice", "bob", dec(t, "10"), decimal.Zero, "", late)
	require.NoError(t, err)
	_, err = ledger.AddEntry(ctx, "alice", "bob", dec(t, "5"), decimal.Zero, "", early)
	require.NoError(t, err)

	sheet, err := ledger.Balances(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, sheet.Payees, 1)
	assert.Equal(t, late, sheet.Payees[0].LastActivity)
}

func TestDeleteEntryOwnership(t *testing.T) {
	env := newTestEnv(t)
	ledger := env.ledger()
	ctx := context.Background()

	rec, err := ledger.AddEntry(ctx, "alice", "bob", dec(t, "10"), decimal.Zero, "", time.Time{})
	require.NoError(t, err)

	carol := model.Session{Username: "carol", Role: model.RoleUser}
	err = ledger.DeleteEntry(ctx, carol, rec.ID)
	assert.ErrorIs(t, err, ErrNotRecordOwner)

	admin := model.Session{Username: "admin", Role: model.RoleAdmin}
	require.NoError(t, ledger.DeleteEntry(ctx, admin, rec.ID))

	err = ledger.DeleteEntry(ctx, admin, rec.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestDeleteAllForPayee(t *testing.T) {
	env := newTestEnv(t)
	ledger := env.ledger()
	ctx := context.Background()

	_, err := ledger.AddEntry(ctx, "alice", "bob", dec(t, "10"), decimal.Zero, "", time.Time{})
	require.NoError(t, err)
	_, err = ledger.AddEntry(ctx, "alice", "bob", dec(t, "20"), decimal.Zero, "", time.Time{})
	require.NoError(t, err)
	_, err = ledger.AddEntry(ctx, "alice", "dave", dec(t, "5"), decimal.Zero, "", time.Time{})
	require.NoError(t, err)

	require.NoError(t, ledger.DeleteAllForPayee(ctx, "alice", "bob"))

	history, err := ledger.History(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "dave", history[0].Payee)
}
