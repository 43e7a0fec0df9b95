package service

import (
	"errors"
	"fmt"
	"sync"

	"github.com/paylane/installment-service/internal/config"
	"github.com/paylane/installment-service/internal/eligibility"
	"github.com/paylane/installment-service/internal/gateway"
	"github.com/paylane/installment-service/internal/models"
	"github.com/paylane/installment-service/internal/store"
	"github.com/sirupsen/logrus"
)

// Errors surfaced to callers. The handler maps these onto HTTP statuses.
var (
	ErrInvalidPrincipal        = errors.New("principal must not be negative")
	ErrInvalidTermCount        = errors.New("term count must be at least 1")
	ErrInvalidFrequency        = errors.New("unsupported payment frequency")
	ErrInvalidDownPayment      = errors.New("down payment must be between 0 and the order total")
	ErrOrderNotFound           = errors.New("order not found")
	ErrPlanNotFound            = errors.New("plan not found")
	ErrPaymentNotFound         = errors.New("payment not found")
	ErrUserNotFound            = errors.New("user not found")
	ErrOrderAlreadyHasPlan     = errors.New("order already has an installment plan")
	ErrInstallmentNotEligible  = errors.New("product is not eligible for installments")
	ErrBelowMinimumAmount      = errors.New("order total is below the installment minimum")
	ErrTermNotAvailable        = errors.New("term count is not offered for this product")
	ErrAlreadyTerminal         = errors.New("plan is already in a terminal state")
	ErrPaymentAlreadyProcessed = errors.New("payment has already been processed")
	ErrPaymentProcessingFailed = errors.New("payment processing failed")
	ErrForbidden               = errors.New("requester does not own this plan")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrEmailTaken              = errors.New("email is already registered")
	ErrRateUnavailable         = errors.New("reference financing rate is unavailable")
)

// systemActorID marks audit entries written by scheduled jobs rather than
// an authenticated user.
const systemActorID int64 = 0

// EmailSink delivers customer emails. Delivery is fire-and-forget for the
// core operations: a send failure is logged and never rolls anything back.
type EmailSink interface {
	SendPlanAgreement(to, name string, plan *models.InstallmentPlan) error
	SendUpcomingReminder(to, name string, payment *models.InstallmentPayment) error
	SendOverdueNotice(to, name string, payment *models.InstallmentPayment, daysOverdue int) error
	SendDefaultNotice(to, name string, plan *models.InstallmentPlan) error
	SendCompletionNotice(to, name string, plan *models.InstallmentPlan) error
	SendPaymentFailure(to, name string, payment *models.InstallmentPayment, reason string) error
}

// RateSource provides the current reference financing rate, in percent.
// Products whose rule follows the market resolve their annual rate through
// it at plan creation.
type RateSource interface {
	GetBaseRate() (float64, error)
}

// Service handles business logic
type Service struct {
	store   store.Storage
	log     *logrus.Logger
	config  *config.Config
	email   EmailSink
	charger gateway.Charger
	rules   eligibility.Rules
	rates   RateSource

	locks planLocks
}

// NewService initializes a new service
func NewService(st store.Storage, log *logrus.Logger, cfg *config.Config, email EmailSink, charger gateway.Charger, rules eligibility.Rules, rates RateSource) *Service {
	return &Service{
		store:   st,
		log:     log,
		config:  cfg,
		email:   email,
		charger: charger,
		rules:   rules,
		rates:   rates,
		locks:   planLocks{locks: make(map[int64]*sync.Mutex)},
	}
}

// planLocks serializes mutations per plan so the scanner and concurrent
// payment attempts cannot interleave on the same aggregate.
type planLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// lock acquires the plan's mutex and returns the matching unlock func.
func (l *planLocks) lock(planID int64) func() {
	l.mu.Lock()
	m, ok := l.locks[planID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[planID] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m.Unlock
}

// notify writes an in-app notification; failures are logged only.
func (s *Service) notify(userID int64, title, message, typ, reference string) {
	n := &models.Notification{
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      typ,
		Reference: reference,
	}
	if err := s.store.CreateNotification(n); err != nil {
		s.log.Errorf("Failed to create notification for user %d: %v", userID, err)
	}
}

// audit writes an audit log entry; failures are logged only.
func (s *Service) audit(action string, userID int64, module, description, changes string) {
	entry := &models.AuditLog{
		Action:      action,
		UserID:      userID,
		Module:      module,
		Description: description,
		Changes:     changes,
	}
	if err := s.store.CreateAuditLog(entry); err != nil {
		s.log.Errorf("Failed to write audit log (%s): %v", action, err)
	}
}

// customer looks up the plan's customer for addressing emails. Returns nil
// (logged) when the lookup fails so callers can skip delivery.
func (s *Service) customer(customerID int64) *models.User {
	user, err := s.store.FindUserByID(customerID)
	if err != nil {
		s.log.Errorf("Failed to look up customer %d: %v", customerID, err)
		return nil
	}
	return user
}

// Notifications returns the user's in-app notifications.
func (s *Service) Notifications(userID int64) ([]*models.Notification, error) {
	out, err := s.store.ListNotificationsByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return out, nil
}
