package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction statuses.
const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
)

// Transaction represents a financial transaction in the payment ledger.
// It is the source of truth that a payment event happened.
type Transaction struct {
	ID        string          `json:"id"` // uuid
	PlanID    int64           `json:"plan_id"`
	PaymentID int64           `json:"payment_id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Reference string          `json:"reference,omitempty"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}
