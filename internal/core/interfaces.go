package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vinsolit/lendenbook/internal/model"
)

type (
	AuthService interface {
		Register(ctx context.Context, username, password string) (*model.User, string, error)
		Login(ctx context.Context, username, password string) (*model.User, string, error)
		ValidateToken(tokenString string) (model.Session, error)
		ResetPassword(ctx context.Context, username, newPassword string) error
		EnsureAdmin(ctx context.Context) error
	}

	LedgerService interface {
		// AddEntry appends one entry for (owner, payee), deriving the new
		// running totals from the latest prior entry of the pair. A zero
		// `at` means now; a non-zero one backdates the entry.
		AddEntry(ctx context.Context, owner, payee string, received, paid decimal.Decimal, note string, at time.Time) (*model.Record, error)
		History(ctx context.Context, owner string) ([]*model.Record, error)
		PayeeHistory(ctx context.Context, owner, payee string) ([]*model.Record, error)
		Balances(ctx context.Context, owner string) (*model.BalanceSheet, error)
		DeleteEntry(ctx context.Context, session model.Session, id int64) error
		DeleteAllForPayee(ctx context.Context, owner, payee string) error
	}

	ExportService interface {
		ExportCSV(ctx context.Context, owner string) ([]byte, error)
	}

	AdminService interface {
		AllRecords(ctx context.Context) ([]*model.Record, error)
		ListUsers(ctx context.Context) ([]*model.User, error)
		DeleteUser(ctx context.Context, username string) error
	}
)
