package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vinsolit/lendenbook/internal/model"
)

func TestAdminDeleteUserCascades(t *testing.T) {
	env := newTestEnv(t)
	ledger := env.ledger()
	admin := NewAdminService(env.users, env.records, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, env.users.Create(ctx, &model.User{Username: "alice", PasswordHash: "h", Role: model.RoleUser}))
	require.NoError(t, env.users.Create(ctx, &model.User{Username: "carol", PasswordHash: "h", Role: model.RoleUser}))

	_, err := ledger.AddEntry(ctx, "alice", "bob", dec(t, "100"), decimal.Zero, "", time.Time{})
	require.NoError(t, err)
	_, err = ledger.AddEntry(ctx, "carol", "bob", dec(t, "42"), decimal.Zero, "", time.Time{})
	require.NoError(t, err)

	require.NoError(t, admin.DeleteUser(ctx, "alice"))

	users, err := admin.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "carol", users[0].Username)

	// Only alice's entries went with her.
	all, err := admin.AllRecords(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "carol", all[0].Owner)
}

func TestAdminDeleteUnknownUser(t *testing.T) {
	env := newTestEnv(t)
	admin := NewAdminService(env.users, env.records, zap.NewNop())

	err := admin.DeleteUser(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAdminAllRecordsSpansOwners(t *testing.T) {
	env := newTestEnv(t)
	ledger := env.ledger()
	admin := NewAdminService(env.users, env.records, zap.NewNop())
	ctx := context.Background()

	_, err := ledger.AddEntry(ctx, "alice", "bob", dec(t, "10"), decimal.Zero, "", time.Time{})
	require.NoError(t, err)
	_, err = ledger.AddEntry(ctx, "carol", "dave", decimal.Zero, dec(t, "5"), "", time.Time{})
	require.NoError(t, err)

	all, err := admin.AllRecords(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "alice", all[0].Owner)
	assert.Equal(t, "carol", all[1].Owner)
}
