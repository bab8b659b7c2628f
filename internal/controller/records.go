package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vinsolit/lendenbook/internal/core"
	"github.com/vinsolit/lendenbook/internal/middlewareinternal"
	"github.com/vinsolit/lendenbook/internal/service"
)

const requestTimeLayout = "2006-01-02 15:04:05"

type RecordController struct {
	ledgerService core.LedgerService
	exportService core.ExportService
	logger        *zap.Logger
}

func NewRecordController(ledgerService core.LedgerService, exportService core.ExportService, logger *zap.Logger) *RecordController {
	return &RecordController{
		ledgerService: ledgerService,
		exportService: exportService,
		logger:        logger,
	}
}

func (c *RecordController) AddRecord(w http.ResponseWriter, r *http.Request) {
	session, ok := middlewareinternal.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var request struct {
		Received decimal.Decimal `json:"received"`
		PaidOut  decimal.Decimal `json:"paid_out"`
		Payee    string          `json:"payee"`
		Note     string          `json:"note"`
		Datetime string          `json:"datetime"`
	}

	if err := render.DecodeJSON(r.Body, &request); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	var at time.Time
	if request.Datetime != "" {
		parsed, err := time.Parse(requestTimeLayout, request.Datetime)
		if err != nil {
			http.Error(w, "Invalid datetime format, expected 2006-01-02 15:04:05", http.StatusBadRequest)
			return
		}
		at = parsed
	}

	record, err := c.ledgerService.AddEntry(r.Context(),
		session.Username, request.Payee, request.Received, request.PaidOut, request.Note, at)
	if err != nil {
		switch err {
		case service.ErrEmptyPayee:
			http.Error(w, "Payee name is required", http.StatusBadRequest)
		case service.ErrNegativeAmount:
			http.Error(w, "Amounts must not be negative", http.StatusUnprocessableEntity)
		default:
			c.logger.Error("Failed to add record",
				zap.String("username", session.Username),
				zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, record)
}

func (c *RecordController) GetRecords(w http.ResponseWriter, r *http.Request) {
	session, ok := middlewareinternal.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	records, err := c.ledgerService.History(r.Context(), session.Username)
	if err != nil {
		c.logger.Error("Failed to get records",
			zap.String("username", session.Username),
			zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if len(records) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	render.JSON(w, r, records)
}

func (c *RecordController) GetPayeeRecords(w http.ResponseWriter, r *http.Request) {
	session, ok := middlewareinternal.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	payee := chi.URLParam(r, "payee")
	records, err := c.ledgerService.PayeeHistory(r.Context(), session.Username, payee)
	if err != nil {
		c.logger.Error("Failed to get payee records",
			zap.String("username", session.Username),
			zap.String("payee", payee),
			zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if len(records) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	render.JSON(w, r, records)
}

func (c *RecordController) GetBalances(w http.ResponseWriter, r *http.Request) {
	session, ok := middlewareinternal.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	sheet, err := c.ledgerService.Balances(r.Context(), session.Username)
	if err != nil {
		c.logger.Error("Failed to compute balances",
			zap.String("username", session.Username),
			zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, sheet)
}

func (c *RecordController) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	session, ok := middlewareinternal.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid record id", http.StatusBadRequest)
		return
	}

	if err := c.ledgerService.DeleteEntry(r.Context(), session, id); err != nil {
		switch err {
		case service.ErrRecordNotFound:
			http.Error(w, "Record not found", http.StatusNotFound)
		case service.ErrNotRecordOwner:
			http.Error(w, "Forbidden", http.StatusForbidden)
		default:
			c.logger.Error("Failed to delete record",
				zap.Int64("record_id", id),
				zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (c *RecordController) DeletePayeeRecords(w http.ResponseWriter, r *http.Request) {
	session, ok := middlewareinternal.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	payee := chi.URLParam(r, "payee")
	if err := c.ledgerService.DeleteAllForPayee(r.Context(), session.Username, payee); err != nil {
		switch err {
		case service.ErrEmptyPayee:
			http.Error(w, "Payee name is required", http.StatusBadRequest)
		default:
			c.logger.Error("Failed to delete payee records",
				zap.String("username", session.Username),
				zap.String("payee", payee),
				zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (c *RecordController) ExportCSV(w http.ResponseWriter, r *http.Request) {
	session, ok := middlewareinternal.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	data, err := c.exportService.ExportCSV(r.Context(), session.Username)
	if err != nil {
		c.logger.Error("Failed to export records",
			zap.String("username", session.Username),
			zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+service.ExportFilename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
