package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vinsolit/lendenbook/internal/model"
)

type RecordRepository interface {
	Append(ctx context.Context, record *model.Record) error
	GetByID(ctx context.Context, id int64) (*model.Record, error)
	// LatestForPayee returns the highest-id entry for the pair, or nil.
	// Insertion order, not timestamp order: backdated entries must not
	// change which entry the next running total is derived from.
	LatestForPayee(ctx context.Context, owner, payee string) (*model.Record, error)
	ListByOwner(ctx context.Context, owner string) ([]*model.Record, error)
	// ListByOwnerPayee returns the pair's entries in timestamp order, the
	// order used for display and export.
	ListByOwnerPayee(ctx context.Context, owner, payee string) ([]*model.Record, error)
	ListAll(ctx context.Context) ([]*model.Record, error)
	Payees(ctx context.Context, owner string) ([]string, error)
	DeleteByID(ctx context.Context, id int64) error
	DeleteByOwnerPayee(ctx context.Context, owner, payee string) error
}

type recordRepository struct {
	db *Database
}

func NewRecordRepository(db *Database) RecordRepository {
	return &recordRepository{db: db}
}

const recordColumns = `id, owner_username, received, paid_out, datetime, payee, total_paid, total_received, note`

func (r *recordRepository) Append(ctx context.Context, record *model.Record) error {
	query := `INSERT INTO records (owner_username, received, paid_out, datetime, payee, total_paid, total_received, note)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.db.ExecContext(ctx, query,
		record.Owner,
		record.Received.String(),
		record.PaidOut.String(),
		record.RecordedAt.Format(timeLayout),
		record.Payee,
		record.TotalPaid.String(),
		record.Balance.String(),
		record.Note,
	)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted record id: %w", err)
	}
	record.ID = id
	return nil
}

func (r *recordRepository) GetByID(ctx context.Context, id int64) (*model.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE id = ?`
	record, err := scanRecord(r.db.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}

func (r *recordRepository) LatestForPayee(ctx context.Context, owner, payee string) (*model.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records
              WHERE owner_username = ? AND payee = ?
              ORDER BY id DESC LIMIT 1`
	record, err := scanRecord(r.db.db.QueryRowContext(ctx, query, owner, payee))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}

func (r *recordRepository) ListByOwner(ctx context.Context, owner string) ([]*model.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE owner_username = ? ORDER BY id`
	return r.queryRecords(ctx, query, owner)
}

func (r *recordRepository) ListByOwnerPayee(ctx context.Context, owner, payee string) ([]*model.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records
              WHERE owner_username = ? AND payee = ?
              ORDER BY datetime ASC, id ASC`
	return r.queryRecords(ctx, query, owner, payee)
}

func (r *recordRepository) ListAll(ctx context.Context) ([]*model.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records ORDER BY id`
	return r.queryRecords(ctx, query)
}

func (r *recordRepository) Payees(ctx context.Context, owner string) ([]string, error) {
	query := `SELECT payee FROM records WHERE owner_username = ? GROUP BY payee ORDER BY payee`
	rows, err := r.db.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payees []string
	for rows.Next() {
		var payee string
		if err := rows.Scan(&payee); err != nil {
			return nil, err
		}
		payees = append(payees, payee)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return payees, nil
}

func (r *recordRepository) DeleteByID(ctx context.Context, id int64) error {
	_, err := r.db.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

func (r *recordRepository) DeleteByOwnerPayee(ctx context.Context, owner, payee string) error {
	_, err := r.db.db.ExecContext(ctx,
		`DELETE FROM records WHERE owner_username = ? AND payee = ?`, owner, payee)
	if err != nil {
		return fmt.Errorf("failed to delete payee records: %w", err)
	}
	return nil
}

func (r *recordRepository) queryRecords(ctx context.Context, query string, args ...any) ([]*model.Record, error) {
	rows, err := r.db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*model.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*model.Record, error) {
	record := &model.Record{}
	var received, paidOut, totalPaid, balance, recordedAt string
	err := row.Scan(
		&record.ID,
		&record.Owner,
		&received,
		&paidOut,
		&recordedAt,
		&record.Payee,
		&totalPaid,
		&balance,
		&record.Note,
	)
	if err != nil {
		return nil, err
	}

	if record.Received, err = decimal.NewFromString(received); err != nil {
		return nil, fmt.Errorf("invalid received amount %q: %w", received, err)
	}
	if record.PaidOut, err = decimal.NewFromString(paidOut); err != nil {
		return nil, fmt.Errorf("invalid paid_out amount %q: %w", paidOut, err)
	}
	if record.TotalPaid, err = decimal.NewFromString(totalPaid); err != nil {
		return nil, fmt.Errorf("invalid total_paid amount %q: %w", totalPaid, err)
	}
	if record.Balance, err = decimal.NewFromString(balance); err != nil {
		return nil, fmt.Errorf("invalid total_received amount %q: %w", balance, err)
	}
	if record.RecordedAt, err = time.Parse(timeLayout, recordedAt); err != nil {
		return nil, fmt.Errorf("invalid record timestamp %q: %w", recordedAt, err)
	}
	return record, nil
}
