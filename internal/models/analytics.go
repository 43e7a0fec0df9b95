package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlanAnalytics represents aggregate portfolio statistics for the admin dashboard
type PlanAnalytics struct {
	TotalPlans       int             `json:"total_plans"`
	ActivePlans      int             `json:"active_plans"`
	CompletedPlans   int             `json:"completed_plans"`
	DefaultedPlans   int             `json:"defaulted_plans"`
	CancelledPlans   int             `json:"cancelled_plans"`
	TotalFinanced    decimal.Decimal `json:"total_financed"`
	TotalCollected   decimal.Decimal `json:"total_collected"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	TotalOverdue     decimal.Decimal `json:"total_overdue"`
	CollectionRate   decimal.Decimal `json:"collection_rate"` // TotalCollected / TotalPayable
}

// CollectionReportRow represents per-plan collection figures within a date range
type CollectionReportRow struct {
	PlanID        int64           `json:"plan_id"`
	PlanNumber    string          `json:"plan_number"`
	CustomerID    int64           `json:"customer_id"`
	DueInRange    decimal.Decimal `json:"due_in_range"`
	PaidInRange   decimal.Decimal `json:"paid_in_range"`
	OverdueAmount decimal.Decimal `json:"overdue_amount"`
	Status        PlanStatus      `json:"status"`
}

// CollectionReport is the admin collection report for a date range
type CollectionReport struct {
	From     time.Time             `json:"from"`
	To       time.Time             `json:"to"`
	TotalDue decimal.Decimal       `json:"total_due"`
	Paid     decimal.Decimal       `json:"paid"`
	Rows     []CollectionReportRow `json:"rows"`
}
