package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fintrack/internal/core"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	KindExpense    = "expense"
	KindInvestment = "investment"
)

var ErrInvalidMessage = errors.New("invalid entry recorded message")

// EntryRecordedMessage announces that a session appended a record. It carries
// no session id and no asset label, so consumers only see anonymous activity.
type EntryRecordedMessage struct {
	ID        string           `json:"id"`
	Kind      string           `json:"kind"`
	Category  string           `json:"category,omitempty"`
	Amount    *decimal.Decimal `json:"amount,omitempty"`
	Invested  *decimal.Decimal `json:"invested,omitempty"`
	Current   *decimal.Decimal `json:"current,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// NewExpenseRecorded builds the event for an appended expense.
func NewExpenseRecorded(e core.ExpenseEntry) *EntryRecordedMessage {
	amount := e.Amount
	return &EntryRecordedMessage{
		ID:        uuid.NewString(),
		Kind:      KindExpense,
		Category:  string(e.Category),
		Amount:    &amount,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvestmentRecorded builds the event for an appended investment.
func NewInvestmentRecorded(i core.InvestmentEntry) *EntryRecordedMessage {
	invested, current := i.Invested, i.Current
	return &EntryRecordedMessage{
		ID:        uuid.NewString(),
		Kind:      KindInvestment,
		Invested:  &invested,
		Current:   &current,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *EntryRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// Validate checks that the fields required by Kind are present.
func (m *EntryRecordedMessage) Validate() error {
	switch m.Kind {
	case KindExpense:
		if m.Amount == nil {
			return fmt.Errorf("%w: expense without amount", ErrInvalidMessage)
		}
		if err := core.Category(m.Category).Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidMessage, err)
		}
	case KindInvestment:
		if m.Invested == nil || m.Current == nil {
			return fmt.Errorf("%w: investment without amounts", ErrInvalidMessage)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidMessage, m.Kind)
	}
	return nil
}

// EntryRecordedMessageFromJSON decodes and validates a message body.
func EntryRecordedMessageFromJSON(data []byte) (*EntryRecordedMessage, error) {
	var msg EntryRecordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}
