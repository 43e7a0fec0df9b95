package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the state of a single scheduled installment payment.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusOverdue   PaymentStatus = "overdue"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// Payable reports whether a payment in this status may still be processed.
// Failed payments may be retried; paid and cancelled ones are final.
func (s PaymentStatus) Payable() bool {
	return s == PaymentStatusPending || s == PaymentStatusOverdue || s == PaymentStatusFailed
}

// InstallmentPayment is one scheduled installment within a plan.
// Once paid it is immutable.
type InstallmentPayment struct {
	ID                int64           `json:"id"`
	PlanID            int64           `json:"plan_id"`
	InstallmentNumber int             `json:"installment_number"`
	Amount            decimal.Decimal `json:"amount"`
	DueDate           time.Time       `json:"due_date"`
	Status            PaymentStatus   `json:"status"`
	PaidDate          *time.Time      `json:"paid_date,omitempty"`
	TransactionID     string          `json:"transaction_id,omitempty"`
	Method            string          `json:"method,omitempty"`
	FailureReason     string          `json:"failure_reason,omitempty"`
	LateFee           decimal.Decimal `json:"late_fee"`
	ReminderSentAt    *time.Time      `json:"reminder_sent_at,omitempty"`
	ReminderCount     int             `json:"reminder_count"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// PaymentSummary is the flattened view returned by the upcoming/overdue listings.
type PaymentSummary struct {
	PlanID            int64           `json:"plan_id"`
	PlanNumber        string          `json:"plan_number"`
	CustomerID        int64           `json:"customer_id"`
	InstallmentNumber int             `json:"installment_number"`
	Amount            decimal.Decimal `json:"amount"`
	DueDate           time.Time       `json:"due_date"`
	Status            PaymentStatus   `json:"status"`
	DaysOverdue       int             `json:"days_overdue,omitempty"`
}
