package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestExportCSVHeaderOnly(t *testing.T) {
	env := newTestEnv(t)
	export := NewExportService(env.records)

	data, err := export.ExportCSV(context.Background(), "alice")
	require.NoError(t, err)

	rows := parseCSV(t, data)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"Payee", "Received", "Paid", "Balance", "Total Paid", "Date", "Note"}, rows[0])
}

func TestExportCSVBalanceIsNotClamped(t *testing.T) {
	env := newTestEnv(t)
	ledger := env.ledger()
	export := NewExportService(env.records)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	_, err := ledger.AddEntry(ctx, "alice", "bob", dec(t, "100"), decimal.Zero, "loan", base)
	require.NoError(t, err)
	clamped, err := ledger.AddEntry(ctx, "alice", "bob", decimal.Zero, dec(t, "150"), "", base.Add(time.Hour))
	require.NoError(t, err)
	requireDecimalEqual(t, "0", clamped.Balance)

	data, err := export.ExportCSV(ctx, "alice")
	require.NoError(t, err)

	rows := parseCSV(t, data)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"bob", "100", "0", "100", "0", "2024-03-01 10:00:00", "loan"}, rows[1])
	// The stored running balance is clamped to 0; the export recomputes
	// without the floor and goes to -50.
	assert.Equal(t, []string{"bob", "0", "150", "-50", "150", "2024-03-01 11:00:00", ""}, rows[2])
}

func TestExportCSVWalksPayeesInTimestampOrder(t *testing.T) {
	env := newTestEnv(t)
	ledger := env.ledger()
	export := NewExportService(env.records)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	_, err := ledger.AddEntry(ctx, "alice", "dave", dec(t, "5"), decimal.Zero, "", base)
	require.NoError(t, err)
	_, err = ledger.AddEntry(ctx, "alice", "bob", dec(t, "10"), decimal.Zero, "", base.Add(time.Hour))
	require.NoError(t, err)
	// Backdated entry for bob: exported first for that payee, so the
	// recomputed running balance follows timestamp order.
	_, err = ledger.AddEntry(ctx, "alice", "bob", decimal.Zero, dec(t, "4"), "", base.Add(-time.Hour))
	require.NoError(t, err)

	data, err := export.ExportCSV(ctx, "alice")
	require.NoError(t, err)

	rows := parseCSV(t, data)
	require.Len(t, rows, 4)

	// Payees are grouped, rows within a payee ordered by timestamp.
	assert.Equal(t, []string{"bob", "0", "4", "-4", "4", "2024-03-01 09:00:00", ""}, rows[1])
	assert.Equal(t, []string{"bob", "10", "0", "6", "4", "2024-03-01 11:00:00", ""}, rows[2])
	assert.Equal(t, []string{"dave", "5", "0", "5", "0", "2024-03-01 10:00:00", ""}, rows[3])
}

func TestExportCSVExcludesOtherOwners(t *testing.T) {
	env := newTestEnv(t)
	ledger := env.ledger()
	export := NewExportService(env.records)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	_, err := ledger.AddEntry(ctx, "alice", "bob", dec(t, "10"), decimal.Zero, "", base)
	require.NoError(t, err)
	_, err = ledger.AddEntry(ctx, "carol", "bob", dec(t, "99"), decimal.Zero, "", base)
	require.NoError(t, err)

	data, err := export.ExportCSV(ctx, "alice")
	require.NoError(t, err)

	rows := parseCSV(t, data)
	require.Len(t, rows, 2)
	assert.Equal(t, "10", rows[1][1])
}
