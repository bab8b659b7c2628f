package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vinsolit/lendenbook/internal/core"
	"github.com/vinsolit/lendenbook/internal/events"
	"github.com/vinsolit/lendenbook/internal/model"
	"github.com/vinsolit/lendenbook/internal/repository"
)

var (
	ErrEmptyPayee     = errors.New("payee name is empty")
	ErrNegativeAmount = errors.New("amounts must not be negative")
	ErrRecordNotFound = errors.New("record not found")
	ErrNotRecordOwner = errors.New("record belongs to another user")
)

type ledgerService struct {
	recordRepo repository.RecordRepository
	publisher  events.Publisher
	logger     *zap.Logger
}

func NewLedgerService(recordRepo repository.RecordRepository, publisher events.Publisher, logger *zap.Logger) core.LedgerService {
	return &ledgerService{
		recordRepo: recordRepo,
		publisher:  publisher,
		logger:     logger,
	}
}

// AddEntry derives the new running totals from the latest prior entry of
// the (owner, payee) pair, selected by insertion id. The balance is floored
// at zero: paying out more than the accumulated balance absorbs the excess
// instead of carrying a negative balance forward.
//
// Two concurrent appends for the same pair can both read the same prior
// entry and produce totals missing one update. The store does not serialize
// per-pair writes; this is a known limitation of the single-user design.
func (s *ledgerService) AddEntry(ctx context.Context, owner, payee string, received, paid decimal.Decimal, note string, at time.Time) (*model.Record, error) {
	payee = strings.TrimSpace(payee)
	if payee == "" {
		return nil, ErrEmptyPayee
	}
	if received.IsNegative() || paid.IsNegative() {
		return nil, ErrNegativeAmount
	}
	if at.IsZero() {
		at = time.Now()
	}

	prior, err := s.recordRepo.LatestForPayee(ctx, owner, payee)
	if err != nil {
		return nil, fmt.Errorf("failed to load prior entry: %w", err)
	}

	prevBalance := decimal.Zero
	prevPaid := decimal.Zero
	if prior != nil {
		prevBalance = prior.Balance
		prevPaid = prior.TotalPaid
	}

	balance := prevBalance.Add(received).Sub(paid)
	if balance.IsNegative() {
		balance = decimal.Zero
	}

	record := &model.Record{
		Owner:      owner,
		Received:   received,
		PaidOut:    paid,
		RecordedAt: at,
		Payee:      payee,
		TotalPaid:  prevPaid.Add(paid),
		Balance:    balance,
		Note:       note,
	}

	if err := s.recordRepo.Append(ctx, record); err != nil {
		return nil, err
	}

	// The entry is already durable; a publish failure only loses the event.
	if err := s.publisher.Publish(events.TopicEntries, events.EntryAppended{
		Owner:      record.Owner,
		Payee:      record.Payee,
		Received:   record.Received,
		PaidOut:    record.PaidOut,
		Balance:    record.Balance,
		TotalPaid:  record.TotalPaid,
		RecordedAt: record.RecordedAt,
	}); err != nil {
		s.logger.Warn("Failed to publish entry event",
			zap.String("owner", owner),
			zap.String("payee", payee),
			zap.Error(err))
	}

	return record, nil
}

func (s *ledgerService) History(ctx context.Context, owner string) ([]*model.Record, error) {
	return s.recordRepo.ListByOwner(ctx, owner)
}

func (s *ledgerService) PayeeHistory(ctx context.Context, owner, payee string) ([]*model.Record, error) {
	return s.recordRepo.ListByOwnerPayee(ctx, owner, payee)
}

// Balances sums received minus paid over each payee's full history. The
// sums are not floored, so a summary can disagree with the latest stored
// running balance whenever the clamp fired at some intermediate entry.
// The legacy views behaved exactly this way.
func (s *ledgerService) Balances(ctx context.Context, owner string) (*model.BalanceSheet, error) {
	records, err := s.recordRepo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}

	sheet := &model.BalanceSheet{Net: decimal.Zero}
	index := make(map[string]int)

	for _, record := range records {
		i, seen := index[record.Payee]
		if !seen {
			i = len(sheet.Payees)
			index[record.Payee] = i
			sheet.Payees = append(sheet.Payees, model.PayeeSummary{
				Payee:     record.Payee,
				Balance:   decimal.Zero,
				TotalPaid: decimal.Zero,
			})
		}

		summary := &sheet.Payees[i]
		summary.Balance = summary.Balance.Add(record.Received).Sub(record.PaidOut)
		summary.TotalPaid = summary.TotalPaid.Add(record.PaidOut)
		if record.RecordedAt.After(summary.LastActivity) {
			summary.LastActivity = record.RecordedAt
		}

		sheet.Net = sheet.Net.Add(record.Received).Sub(record.PaidOut)
	}

	return sheet, nil
}

func (s *ledgerService) DeleteEntry(ctx context.Context, session model.Session, id int64) error {
	record, err := s.recordRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if record == nil {
		return ErrRecordNotFound
	}
	if record.Owner != session.Username && !session.IsAdmin() {
		return ErrNotRecordOwner
	}
	return s.recordRepo.DeleteByID(ctx, id)
}

func (s *ledgerService) DeleteAllForPayee(ctx context.Context, owner, payee string) error {
	payee = strings.TrimSpace(payee)
	if payee == "" {
		return ErrEmptyPayee
	}
	return s.recordRepo.DeleteByOwnerPayee(ctx, owner, payee)
}
