package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vinsolit/lendenbook/internal/core"
	"github.com/vinsolit/lendenbook/internal/repository"
)

// ExportFilename is the download name the presentation layer should use.
const ExportFilename = "All_Records.csv"

var exportHeader = []string{"Payee", "Received", "Paid", "Balance", "Total Paid", "Date", "Note"}

type exportService struct {
	recordRepo repository.RecordRepository
}

func NewExportService(recordRepo repository.RecordRepository) core.ExportService {
	return &exportService{recordRepo: recordRepo}
}

// ExportCSV walks every payee's history in timestamp order and recomputes
// the running columns from the raw amounts instead of reading the stored
// totals. The recomputation does not floor the balance at zero, so the
// Balance column can go negative where the stored running balance was
// clamped. The legacy export had the same behavior and downstream sheets
// depend on it.
func (s *exportService) ExportCSV(ctx context.Context, owner string) ([]byte, error) {
	payees, err := s.recordRepo.Payees(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list payees: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}

	for _, payee := range payees {
		records, err := s.recordRepo.ListByOwnerPayee(ctx, owner, payee)
		if err != nil {
			return nil, fmt.Errorf("failed to list records for payee %q: %w", payee, err)
		}

		balance := decimal.Zero
		totalPaid := decimal.Zero
		for _, record := range records {
			balance = balance.Add(record.Received).Sub(record.PaidOut)
			totalPaid = totalPaid.Add(record.PaidOut)

			row := []string{
				payee,
				record.Received.String(),
				record.PaidOut.String(),
				balance.String(),
				totalPaid.String(),
				record.RecordedAt.Format("2006-01-02 15:04:05"),
				record.Note,
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
