package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is one ledger entry for an (owner, payee) pair. TotalPaid and
// Balance are the running totals as of this entry: Balance is clamped at
// zero when it would go negative, TotalPaid accumulates without bound.
type Record struct {
	ID         int64           `json:"id"`
	Owner      string          `json:"owner"`
	Received   decimal.Decimal `json:"received"`
	PaidOut    decimal.Decimal `json:"paid_out"`
	RecordedAt time.Time       `json:"recorded_at"`
	Payee      string          `json:"payee"`
	TotalPaid  decimal.Decimal `json:"total_paid"`
	Balance    decimal.Decimal `json:"balance"`
	Note       string          `json:"note,omitempty"`
}

// PayeeSummary aggregates all of an owner's entries for one payee. Unlike
// the per-entry running balance, Balance here is a plain unclamped sum of
// received minus paid over the whole history.
type PayeeSummary struct {
	Payee        string          `json:"payee"`
	Balance      decimal.Decimal `json:"balance"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
	LastActivity time.Time       `json:"last_activity"`
}

// BalanceSheet is the owner's display view: one summary per payee plus the
// net position across every payee.
type BalanceSheet struct {
	Payees []PayeeSummary  `json:"payees"`
	Net    decimal.Decimal `json:"net"`
}
