package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/paylane/installment-service/internal/models"
)

// ProcessPayment applies a customer-initiated payment to an installment.
func (s *Service) ProcessPayment(planID int64, installmentNumber int, method, reference string) (*models.InstallmentPlan, error) {
	return s.process(planID, installmentNumber, method, reference, false)
}

// ProcessAutoPayment charges the customer's stored payment method and applies
// the result to the installment. A declined charge follows the same failure
// path as a processing failure, plus an update-your-payment-method prompt.
func (s *Service) ProcessAutoPayment(planID int64, installmentNumber int) (*models.InstallmentPlan, error) {
	return s.process(planID, installmentNumber, "auto", "", true)
}

func (s *Service) process(planID int64, installmentNumber int, method, reference string, autoCharge bool) (*models.InstallmentPlan, error) {
	unlock := s.locks.lock(planID)
	defer unlock()

	plan, err := s.loadPlan(planID)
	if err != nil {
		return nil, err
	}
	payment := plan.PaymentByNumber(installmentNumber)
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	if !payment.Status.Payable() {
		return nil, ErrPaymentAlreadyProcessed
	}

	if autoCharge {
		user := s.customer(plan.CustomerID)
		if user == nil {
			return nil, ErrUserNotFound
		}
		authRef, err := s.charger.Charge(user.PaymentToken, payment.Amount)
		if err != nil {
			s.failPayment(plan, payment, fmt.Sprintf("charge failed: %v", err))
			s.notify(plan.CustomerID, "Update your payment method",
				fmt.Sprintf("Automatic payment for plan %s was declined. Please update your payment method.", plan.PlanNumber),
				models.NotificationUpdateMethod, plan.PlanNumber)
			return nil, fmt.Errorf("%w: %v", ErrPaymentProcessingFailed, err)
		}
		reference = authRef
	}

	txn := &models.Transaction{
		ID:        uuid.NewString(),
		PlanID:    plan.ID,
		PaymentID: payment.ID,
		Amount:    payment.Amount,
		Method:    method,
		Reference: reference,
		Status:    models.TransactionStatusPending,
	}
	if err := s.store.CreateTransaction(txn); err != nil {
		s.failPayment(plan, payment, fmt.Sprintf("transaction record failed: %v", err))
		return nil, fmt.Errorf("%w: %v", ErrPaymentProcessingFailed, err)
	}

	now := time.Now()
	payment.Status = models.PaymentStatusPaid
	payment.PaidDate = &now
	payment.TransactionID = txn.ID
	payment.Method = method
	payment.FailureReason = ""

	plan.PaidAmount = plan.PaidAmount.Add(payment.Amount)
	plan.RemainingAmount = plan.RemainingAmount.Sub(payment.Amount)
	// Recomputed from statuses so a payment that cycled overdue -> failed ->
	// paid cannot leave its amount behind.
	plan.OverdueAmount = plan.OverdueTotal()

	completed := false
	if plan.Status == models.PlanStatusActive && plan.AllSettled() {
		plan.Status = models.PlanStatusCompleted
		if plan.CompletedAt == nil {
			plan.CompletedAt = &now
		}
		completed = true
	}

	if err := s.store.SavePlan(plan); err != nil {
		// Roll the payment back to failed so state is never left ambiguous.
		payment.Status = models.PaymentStatusFailed
		payment.PaidDate = nil
		payment.TransactionID = ""
		payment.FailureReason = fmt.Sprintf("persist failed: %v", err)
		if uerr := s.store.UpdatePayment(payment); uerr != nil {
			s.log.Errorf("Failed to record payment failure for plan %d #%d: %v", planID, installmentNumber, uerr)
		}
		if terr := s.store.UpdateTransactionStatus(txn.ID, models.TransactionStatusFailed); terr != nil {
			s.log.Errorf("Failed to mark transaction %s failed: %v", txn.ID, terr)
		}
		s.notifyPaymentFailure(plan, payment, payment.FailureReason)
		return nil, fmt.Errorf("%w: %v", ErrPaymentProcessingFailed, err)
	}

	if err := s.store.UpdateTransactionStatus(txn.ID, models.TransactionStatusCompleted); err != nil {
		s.log.Errorf("Failed to mark transaction %s completed: %v", txn.ID, err)
	}

	s.audit("payment.process", plan.CustomerID, "installments",
		fmt.Sprintf("Payment #%d on plan %s via %s", installmentNumber, plan.PlanNumber, method), "")

	if completed {
		s.notify(plan.CustomerID, "Installment plan completed",
			fmt.Sprintf("All payments for plan %s are complete.", plan.PlanNumber),
			models.NotificationPlanCompleted, plan.PlanNumber)
		if user := s.customer(plan.CustomerID); user != nil {
			if err := s.email.SendCompletionNotice(user.Email, user.FullName(), plan); err != nil {
				s.log.Errorf("Failed to send completion email for plan %s: %v", plan.PlanNumber, err)
			}
		}
		s.log.Infof("Plan %s completed", plan.PlanNumber)
	}

	s.log.Infof("Payment #%d on plan %s processed (%s)", installmentNumber, plan.PlanNumber, payment.Amount.StringFixed(2))
	return plan, nil
}

// failPayment marks a payment failed with a reason before the aggregate was
// touched, and emits the failure notifications.
func (s *Service) failPayment(plan *models.InstallmentPlan, payment *models.InstallmentPayment, reason string) {
	payment.Status = models.PaymentStatusFailed
	payment.FailureReason = reason
	if err := s.store.UpdatePayment(payment); err != nil {
		s.log.Errorf("Failed to record payment failure for plan %d #%d: %v", plan.ID, payment.InstallmentNumber, err)
	}
	s.notifyPaymentFailure(plan, payment, reason)
}

func (s *Service) notifyPaymentFailure(plan *models.InstallmentPlan, payment *models.InstallmentPayment, reason string) {
	s.notify(plan.CustomerID, "Installment payment failed",
		fmt.Sprintf("Payment #%d on plan %s could not be processed.", payment.InstallmentNumber, plan.PlanNumber),
		models.NotificationPaymentFailed, plan.PlanNumber)
	if user := s.customer(plan.CustomerID); user != nil {
		if err := s.email.SendPaymentFailure(user.Email, user.FullName(), payment, reason); err != nil {
			s.log.Errorf("Failed to send payment-failure email for plan %s: %v", plan.PlanNumber, err)
		}
	}
}

// ListUpcomingPayments returns the customer's pending payments due within
// daysAhead days, soonest first.
func (s *Service) ListUpcomingPayments(customerID int64, daysAhead int) ([]*models.PaymentSummary, error) {
	plans, err := s.store.ListPlansByCustomer(customerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	horizon := now.AddDate(0, 0, daysAhead)
	var out []*models.PaymentSummary
	for _, plan := range plans {
		if plan.Status != models.PlanStatusActive {
			continue
		}
		for _, p := range plan.Payments {
			if p.Status != models.PaymentStatusPending {
				continue
			}
			if p.DueDate.Before(now) || p.DueDate.After(horizon) {
				continue
			}
			out = append(out, summarize(plan, p, now))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

// ListOverduePayments returns overdue payments, oldest first. customerID 0
// means all customers (admin view).
func (s *Service) ListOverduePayments(customerID int64) ([]*models.PaymentSummary, error) {
	var (
		plans []*models.InstallmentPlan
		err   error
	)
	if customerID == 0 {
		plans, err = s.store.ListPlans("", 0, 0)
	} else {
		plans, err = s.store.ListPlansByCustomer(customerID)
	}
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var out []*models.PaymentSummary
	for _, plan := range plans {
		for _, p := range plan.Payments {
			if p.Status == models.PaymentStatusOverdue {
				out = append(out, summarize(plan, p, now))
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func summarize(plan *models.InstallmentPlan, p *models.InstallmentPayment, now time.Time) *models.PaymentSummary {
	summary := &models.PaymentSummary{
		PlanID:            plan.ID,
		PlanNumber:        plan.PlanNumber,
		CustomerID:        plan.CustomerID,
		InstallmentNumber: p.InstallmentNumber,
		Amount:            p.Amount,
		DueDate:           p.DueDate,
		Status:            p.Status,
	}
	if p.Status == models.PaymentStatusOverdue && now.After(p.DueDate) {
		summary.DaysOverdue = daysBetween(p.DueDate, now)
	}
	return summary
}

// daysBetween returns whole calendar days from a to b.
func daysBetween(a, b time.Time) int {
	return int(b.Truncate(24*time.Hour).Sub(a.Truncate(24*time.Hour)).Hours() / 24)
}
