package service

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vinsolit/lendenbook/internal/events"
	"github.com/vinsolit/lendenbook/internal/repository"
)

type testEnv struct {
	users     repository.UserRepository
	records   repository.RecordRepository
	publisher *capturePublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := repository.NewDatabase(repository.DatabaseConfig{
		Path: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &testEnv{
		users:     repository.NewUserRepository(db),
		records:   repository.NewRecordRepository(db),
		publisher: &capturePublisher{},
	}
}

func (e *testEnv) ledger() *ledgerService {
	return NewLedgerService(e.records, e.publisher, zap.NewNop()).(*ledgerService)
}

type capturePublisher struct {
	mu     sync.Mutex
	events []events.EntryAppended
}

func (p *capturePublisher) Publish(_ string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event.(events.EntryAppended))
	return nil
}

func (p *capturePublisher) published() []events.EntryAppended {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.EntryAppended(nil), p.events...)
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func requireDecimalEqual(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, got.Equal(dec(t, want)), "expected %s, got %s", want, got)
}
