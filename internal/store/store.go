package store

import (
	"errors"

	"github.com/paylane/installment-service/internal/models"
)

// Sentinel errors returned by Storage implementations.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrVersionConflict is returned when a plan update lost an optimistic
	// concurrency race.
	ErrVersionConflict = errors.New("plan version conflict")
	// ErrDuplicate is returned on unique-constraint violations (e.g. email).
	ErrDuplicate = errors.New("record already exists")
)

// Storage defines the persistence operations for the installment service.
// The plan and its payments form a single aggregate: CreatePlan and SavePlan
// write the whole aggregate in one transaction, and plan rows carry a version
// that every update checks.
type Storage interface {
	CreateUser(user *models.User) error
	FindUserByEmail(email string) (*models.User, error)
	FindUserByID(id int64) (*models.User, error)

	CreateOrder(order *models.Order) error
	FindOrderByID(id int64) (*models.Order, error)

	// CreatePlan persists the plan and all of its payments atomically.
	CreatePlan(plan *models.InstallmentPlan) error
	// GetPlan returns the plan with its full payment schedule.
	GetPlan(id int64) (*models.InstallmentPlan, error)
	// FindPlanByOrderID returns the plan created for an order, or ErrNotFound.
	FindPlanByOrderID(orderID int64) (*models.InstallmentPlan, error)
	// SavePlan writes the plan row and every payment in plan.Payments in one
	// transaction. Payments with ID == 0 are inserted. The plan's version is
	// checked and bumped; ErrVersionConflict on a lost race.
	SavePlan(plan *models.InstallmentPlan) error
	ListPlans(status models.PlanStatus, limit, offset int) ([]*models.InstallmentPlan, error)
	CountPlans(status models.PlanStatus) (int, error)
	ListPlansByCustomer(customerID int64) ([]*models.InstallmentPlan, error)
	ListActivePlans() ([]*models.InstallmentPlan, error)

	// UpdatePayment writes a single payment row outside the aggregate path.
	// Used only by the payment-failure compensation write.
	UpdatePayment(payment *models.InstallmentPayment) error

	CreateTransaction(tx *models.Transaction) error
	UpdateTransactionStatus(id, status string) error

	CreateNotification(n *models.Notification) error
	ListNotificationsByUser(userID int64) ([]*models.Notification, error)

	CreateAuditLog(entry *models.AuditLog) error

	Close() error
}
