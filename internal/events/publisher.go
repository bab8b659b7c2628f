package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// TopicEntries is the topic ledger append events are published to.
const TopicEntries = "ledger_entries"

type Publisher interface {
	Publish(topic string, event any) error
}

// EntryAppended is emitted after an entry has been durably written.
type EntryAppended struct {
	Owner      string          `json:"owner"`
	Payee      string          `json:"payee"`
	Received   decimal.Decimal `json:"received"`
	PaidOut    decimal.Decimal `json:"paid_out"`
	Balance    decimal.Decimal `json:"balance"`
	TotalPaid  decimal.Decimal `json:"total_paid"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// NoopPublisher discards events. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(string, any) error { return nil }
