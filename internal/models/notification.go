package models

import "time"

// Notification types used by the installment core.
const (
	NotificationPlanCreated     = "plan_created"
	NotificationPaymentReminder = "payment_reminder"
	NotificationPaymentOverdue  = "payment_overdue"
	NotificationPaymentFailed   = "payment_failed"
	NotificationPlanCompleted   = "plan_completed"
	NotificationPlanDefaulted   = "plan_defaulted"
	NotificationPlanCancelled   = "plan_cancelled"
	NotificationUpdateMethod    = "update_payment_method"
)

// Notification is an in-app notification row. Delivery is fire-and-forget:
// a failed write is logged and never fails the operation that produced it.
type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Reference string    `json:"reference,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
