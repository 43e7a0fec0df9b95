package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlanStatus is the lifecycle state of an installment plan.
type PlanStatus string

const (
	PlanStatusActive    PlanStatus = "active"
	PlanStatusCompleted PlanStatus = "completed"
	PlanStatusDefaulted PlanStatus = "defaulted"
	PlanStatusCancelled PlanStatus = "cancelled"
)

// Terminal reports whether the status is a terminal state.
func (s PlanStatus) Terminal() bool {
	return s == PlanStatusCompleted || s == PlanStatusDefaulted || s == PlanStatusCancelled
}

// PaymentFrequency controls the spacing of installment due dates.
type PaymentFrequency string

const (
	FrequencyWeekly   PaymentFrequency = "weekly"
	FrequencyBiweekly PaymentFrequency = "biweekly"
	FrequencyMonthly  PaymentFrequency = "monthly"
)

// Valid reports whether f is one of the supported frequencies.
func (f PaymentFrequency) Valid() bool {
	return f == FrequencyWeekly || f == FrequencyBiweekly || f == FrequencyMonthly
}

// InstallmentPlan is the plan aggregate. Payments carries the full ordered
// schedule; all mutating operations read and write the aggregate as a whole.
type InstallmentPlan struct {
	ID                   int64                 `json:"id"`
	PlanNumber           string                `json:"plan_number"`
	CustomerID           int64                 `json:"customer_id"`
	OrderID              int64                 `json:"order_id"`
	ProductRef           string                `json:"product_ref"`
	TotalAmount          decimal.Decimal       `json:"total_amount"`
	DownPayment          decimal.Decimal       `json:"down_payment"`
	InstallmentAmount    decimal.Decimal       `json:"installment_amount"`
	NumberOfInstallments int                   `json:"number_of_installments"`
	InterestRate         decimal.Decimal       `json:"interest_rate"` // annual, percent
	TotalInterest        decimal.Decimal       `json:"total_interest"`
	TotalPayable         decimal.Decimal       `json:"total_payable"`
	PaidAmount           decimal.Decimal       `json:"paid_amount"`
	RemainingAmount      decimal.Decimal       `json:"remaining_amount"`
	OverdueAmount        decimal.Decimal       `json:"overdue_amount"`
	StartDate            time.Time             `json:"start_date"`
	EndDate              time.Time             `json:"end_date"`
	PaymentFrequency     PaymentFrequency      `json:"payment_frequency"`
	Status               PlanStatus            `json:"status"`
	Notes                string                `json:"notes,omitempty"`
	CompletedAt          *time.Time            `json:"completed_at,omitempty"`
	DefaultedAt          *time.Time            `json:"defaulted_at,omitempty"`
	CancelledAt          *time.Time            `json:"cancelled_at,omitempty"`
	Version              int64                 `json:"version"`
	CreatedAt            time.Time             `json:"created_at"`
	UpdatedAt            time.Time             `json:"updated_at"`
	Payments             []*InstallmentPayment `json:"payments,omitempty"`
}

// PaymentByNumber returns the payment with the given installment number, or nil.
// Cancelled rows left behind by a restructuring are skipped.
func (p *InstallmentPlan) PaymentByNumber(number int) *InstallmentPayment {
	for _, pay := range p.Payments {
		if pay.InstallmentNumber == number && pay.Status != PaymentStatusCancelled {
			return pay
		}
	}
	return nil
}

// OverdueTotal sums the amounts of all payments currently overdue. The
// plan's overdueAmount field is kept equal to this on every save.
func (p *InstallmentPlan) OverdueTotal() decimal.Decimal {
	total := decimal.Zero
	for _, pay := range p.Payments {
		if pay.Status == PaymentStatusOverdue {
			total = total.Add(pay.Amount)
		}
	}
	return total
}

// AllSettled reports whether every non-cancelled payment has been paid.
// Plan completion is driven off actual payment statuses, not a counter.
func (p *InstallmentPlan) AllSettled() bool {
	for _, pay := range p.Payments {
		if pay.Status != PaymentStatusPaid && pay.Status != PaymentStatusCancelled {
			return false
		}
	}
	return len(p.Payments) > 0
}
