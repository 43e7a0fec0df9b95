package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/paylane/installment-service/internal/models"
	"github.com/paylane/installment-service/internal/store"
	"github.com/paylane/installment-service/internal/utils"
	"github.com/shopspring/decimal"
)

const planNumberPrefix = "INP"

// CreatePlanInput carries the caller-supplied plan parameters.
type CreatePlanInput struct {
	OrderID     int64
	Terms       int
	DownPayment decimal.Decimal
	StartDate   *time.Time
	Frequency   models.PaymentFrequency
}

// CreatePlan validates eligibility, computes the amortized schedule and
// persists the plan with all of its payments as one unit.
func (s *Service) CreatePlan(customerID int64, in CreatePlanInput) (*models.InstallmentPlan, error) {
	order, err := s.store.FindOrderByID(in.OrderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, ErrForbidden
	}
	if _, err := s.store.FindPlanByOrderID(in.OrderID); err == nil {
		return nil, ErrOrderAlreadyHasPlan
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	rule, ok := s.rules.RuleFor(order.ProductRef)
	if !ok {
		return nil, ErrInstallmentNotEligible
	}
	if order.TotalAmount.LessThan(rule.MinAmount) {
		return nil, ErrBelowMinimumAmount
	}
	if !rule.AllowsTerm(in.Terms) {
		return nil, ErrTermNotAvailable
	}
	if in.DownPayment.IsNegative() || in.DownPayment.GreaterThan(order.TotalAmount) {
		return nil, ErrInvalidDownPayment
	}

	frequency := in.Frequency
	if frequency == "" {
		frequency = models.FrequencyMonthly
	}
	if !frequency.Valid() {
		return nil, ErrInvalidFrequency
	}

	startDate := time.Now()
	if in.StartDate != nil {
		startDate = *in.StartDate
	}

	rate := rule.AnnualRate
	if rule.RateFollowsMarket() {
		if s.rates == nil {
			return nil, ErrRateUnavailable
		}
		base, err := s.rates.GetBaseRate()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRateUnavailable, err)
		}
		rate = decimal.NewFromFloat(base).Round(2)
	}

	principal := order.TotalAmount.Sub(in.DownPayment)
	quote, err := ComputeInstallment(principal, in.Terms, rate)
	if err != nil {
		return nil, err
	}

	schedule, err := GenerateSchedule(startDate, in.Terms, frequency, quote.InstallmentAmount)
	if err != nil {
		return nil, err
	}

	planNumber, err := utils.GeneratePlanNumber(planNumberPrefix, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to generate plan number: %w", err)
	}

	financed := quote.InstallmentAmount.Mul(decimal.NewFromInt(int64(in.Terms)))
	plan := &models.InstallmentPlan{
		PlanNumber:           planNumber,
		CustomerID:           customerID,
		OrderID:              order.ID,
		ProductRef:           order.ProductRef,
		TotalAmount:          order.TotalAmount,
		DownPayment:          in.DownPayment,
		InstallmentAmount:    quote.InstallmentAmount,
		NumberOfInstallments: in.Terms,
		InterestRate:         rate,
		TotalInterest:        quote.TotalInterest,
		TotalPayable:         in.DownPayment.Add(financed),
		PaidAmount:           in.DownPayment,
		RemainingAmount:      financed,
		OverdueAmount:        decimal.Zero,
		StartDate:            startDate,
		EndDate:              PlanEndDate(startDate, in.Terms, frequency),
		PaymentFrequency:     frequency,
		Status:               models.PlanStatusActive,
		Payments:             schedule,
	}

	if err := s.store.CreatePlan(plan); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrOrderAlreadyHasPlan
		}
		return nil, fmt.Errorf("failed to store plan: %w", err)
	}

	s.notify(customerID, "Installment plan created",
		fmt.Sprintf("Plan %s: %d payments of %s (%s)", plan.PlanNumber, in.Terms, quote.InstallmentAmount.StringFixed(2), frequency),
		models.NotificationPlanCreated, plan.PlanNumber)
	if user := s.customer(customerID); user != nil {
		if err := s.email.SendPlanAgreement(user.Email, user.FullName(), plan); err != nil {
			s.log.Errorf("Failed to send agreement email for plan %s: %v", plan.PlanNumber, err)
		}
	}
	s.audit("plan.create", customerID, "installments",
		fmt.Sprintf("Created plan %s for order %d", plan.PlanNumber, order.ID), "")

	s.log.Infof("Plan %s created for customer %d (order %d)", plan.PlanNumber, customerID, order.ID)
	return plan, nil
}

// GetPlan returns a plan, enforcing that the requester owns it or is an admin.
func (s *Service) GetPlan(planID, requesterID int64, isAdmin bool) (*models.InstallmentPlan, error) {
	plan, err := s.loadPlan(planID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && plan.CustomerID != requesterID {
		return nil, ErrForbidden
	}
	return plan, nil
}

// ListPlansByCustomer returns all plans belonging to a customer.
func (s *Service) ListPlansByCustomer(customerID int64) ([]*models.InstallmentPlan, error) {
	return s.store.ListPlansByCustomer(customerID)
}

// PlanPatch is the admin metadata patch for a plan. Nil fields are left
// untouched.
type PlanPatch struct {
	Status       *models.PlanStatus
	InterestRate *decimal.Decimal
	Notes        *string
}

// UpdatePlan applies an admin patch to plan metadata. Setting status to
// completed stamps completedAt exactly once.
func (s *Service) UpdatePlan(planID int64, patch PlanPatch, actorID int64) (*models.InstallmentPlan, error) {
	unlock := s.locks.lock(planID)
	defer unlock()

	plan, err := s.loadPlan(planID)
	if err != nil {
		return nil, err
	}

	if patch.Status != nil && *patch.Status != plan.Status {
		plan.Status = *patch.Status
		if *patch.Status == models.PlanStatusCompleted && plan.CompletedAt == nil {
			now := time.Now()
			plan.CompletedAt = &now
		}
	}
	if patch.InterestRate != nil {
		plan.InterestRate = *patch.InterestRate
	}
	if patch.Notes != nil {
		plan.Notes = *patch.Notes
	}

	if err := s.store.SavePlan(plan); err != nil {
		return nil, fmt.Errorf("failed to update plan %d: %w", planID, err)
	}

	s.audit("plan.update", actorID, "installments",
		fmt.Sprintf("Updated plan %s", plan.PlanNumber), "")
	return plan, nil
}

// CancelPlan cancels an active plan. Outstanding payments are marked
// cancelled alongside the plan.
func (s *Service) CancelPlan(planID int64, reason string, actorID int64) (*models.InstallmentPlan, error) {
	unlock := s.locks.lock(planID)
	defer unlock()

	plan, err := s.loadPlan(planID)
	if err != nil {
		return nil, err
	}
	if plan.Status.Terminal() {
		return nil, ErrAlreadyTerminal
	}

	now := time.Now()
	plan.Status = models.PlanStatusCancelled
	plan.CancelledAt = &now
	plan.Notes = appendNote(plan.Notes, "Cancelled: "+reason)
	for _, p := range plan.Payments {
		if p.Status.Payable() {
			p.Status = models.PaymentStatusCancelled
		}
	}

	if err := s.store.SavePlan(plan); err != nil {
		return nil, fmt.Errorf("failed to cancel plan %d: %w", planID, err)
	}

	s.notify(plan.CustomerID, "Installment plan cancelled",
		fmt.Sprintf("Plan %s has been cancelled. %s", plan.PlanNumber, reason),
		models.NotificationPlanCancelled, plan.PlanNumber)
	s.audit("plan.cancel", actorID, "installments",
		fmt.Sprintf("Cancelled plan %s: %s", plan.PlanNumber, reason), "")

	s.log.Infof("Plan %s cancelled: %s", plan.PlanNumber, reason)
	return plan, nil
}

// RestructurePlan replaces the outstanding schedule with a new amortization
// of the remaining balance. Paid payments are preserved untouched; the
// superseded outstanding rows are marked cancelled and a fresh schedule
// starting now is appended.
func (s *Service) RestructurePlan(planID int64, newTerms int, newRate *decimal.Decimal, reason string, actorID int64) (*models.InstallmentPlan, error) {
	unlock := s.locks.lock(planID)
	defer unlock()

	plan, err := s.loadPlan(planID)
	if err != nil {
		return nil, err
	}
	if plan.Status.Terminal() {
		return nil, ErrAlreadyTerminal
	}

	rate := plan.InterestRate
	if newRate != nil {
		rate = *newRate
	}

	quote, err := ComputeInstallment(plan.RemainingAmount, newTerms, rate)
	if err != nil {
		return nil, err
	}

	// Highest installment number already settled; new rows continue from it.
	base := 0
	paidCount := 0
	for _, p := range plan.Payments {
		if p.Status == models.PaymentStatusPaid {
			paidCount++
			if p.InstallmentNumber > base {
				base = p.InstallmentNumber
			}
		}
	}

	now := time.Now()
	for _, p := range plan.Payments {
		if p.Status.Payable() {
			p.Status = models.PaymentStatusCancelled
		}
	}
	fresh, err := GenerateSchedule(now, newTerms, plan.PaymentFrequency, quote.InstallmentAmount)
	if err != nil {
		return nil, err
	}
	for _, p := range fresh {
		p.InstallmentNumber += base
		p.PlanID = plan.ID
	}
	plan.Payments = append(plan.Payments, fresh...)

	financed := quote.InstallmentAmount.Mul(decimal.NewFromInt(int64(newTerms)))
	plan.InstallmentAmount = quote.InstallmentAmount
	plan.NumberOfInstallments = paidCount + newTerms
	plan.InterestRate = rate
	plan.TotalPayable = plan.PaidAmount.Add(financed)
	plan.TotalInterest = plan.TotalPayable.Sub(plan.TotalAmount)
	plan.RemainingAmount = financed
	plan.OverdueAmount = decimal.Zero
	plan.EndDate = PlanEndDate(now, newTerms, plan.PaymentFrequency)
	plan.Notes = appendNote(plan.Notes, "Restructured: "+reason)

	if err := s.store.SavePlan(plan); err != nil {
		return nil, fmt.Errorf("failed to restructure plan %d: %w", planID, err)
	}

	s.notify(plan.CustomerID, "Installment plan restructured",
		fmt.Sprintf("Plan %s: %d new payments of %s", plan.PlanNumber, newTerms, quote.InstallmentAmount.StringFixed(2)),
		models.NotificationPlanCreated, plan.PlanNumber)
	s.audit("plan.restructure", actorID, "installments",
		fmt.Sprintf("Restructured plan %s over %d terms: %s", plan.PlanNumber, newTerms, reason), "")

	s.log.Infof("Plan %s restructured over %d terms", plan.PlanNumber, newTerms)
	return plan, nil
}

// ListPlans returns a page of plans plus the total count for the filter.
func (s *Service) ListPlans(status models.PlanStatus, limit, offset int) ([]*models.InstallmentPlan, int, error) {
	plans, err := s.store.ListPlans(status, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.store.CountPlans(status)
	if err != nil {
		return nil, 0, err
	}
	return plans, total, nil
}

// DefaultedPlans returns all defaulted plans.
func (s *Service) DefaultedPlans() ([]*models.InstallmentPlan, error) {
	return s.store.ListPlans(models.PlanStatusDefaulted, 0, 0)
}

// Analytics aggregates portfolio statistics across all plans.
func (s *Service) Analytics() (*models.PlanAnalytics, error) {
	plans, err := s.store.ListPlans("", 0, 0)
	if err != nil {
		return nil, err
	}

	out := &models.PlanAnalytics{
		TotalFinanced:    decimal.Zero,
		TotalCollected:   decimal.Zero,
		TotalOutstanding: decimal.Zero,
		TotalOverdue:     decimal.Zero,
		CollectionRate:   decimal.Zero,
	}
	totalPayable := decimal.Zero
	for _, plan := range plans {
		out.TotalPlans++
		switch plan.Status {
		case models.PlanStatusActive:
			out.ActivePlans++
		case models.PlanStatusCompleted:
			out.CompletedPlans++
		case models.PlanStatusDefaulted:
			out.DefaultedPlans++
		case models.PlanStatusCancelled:
			out.CancelledPlans++
		}
		out.TotalFinanced = out.TotalFinanced.Add(plan.TotalAmount)
		out.TotalCollected = out.TotalCollected.Add(plan.PaidAmount)
		out.TotalOutstanding = out.TotalOutstanding.Add(plan.RemainingAmount)
		out.TotalOverdue = out.TotalOverdue.Add(plan.OverdueAmount)
		totalPayable = totalPayable.Add(plan.TotalPayable)
	}
	if totalPayable.IsPositive() {
		out.CollectionRate = out.TotalCollected.Div(totalPayable).Round(4)
	}
	return out, nil
}

// CollectionReport reports per-plan amounts due and collected within a range.
func (s *Service) CollectionReport(from, to time.Time) (*models.CollectionReport, error) {
	plans, err := s.store.ListPlans("", 0, 0)
	if err != nil {
		return nil, err
	}

	report := &models.CollectionReport{
		From:     from,
		To:       to,
		TotalDue: decimal.Zero,
		Paid:     decimal.Zero,
	}
	for _, plan := range plans {
		row := models.CollectionReportRow{
			PlanID:        plan.ID,
			PlanNumber:    plan.PlanNumber,
			CustomerID:    plan.CustomerID,
			DueInRange:    decimal.Zero,
			PaidInRange:   decimal.Zero,
			OverdueAmount: plan.OverdueAmount,
			Status:        plan.Status,
		}
		for _, p := range plan.Payments {
			if p.Status == models.PaymentStatusCancelled {
				continue
			}
			if !p.DueDate.Before(from) && !p.DueDate.After(to) {
				row.DueInRange = row.DueInRange.Add(p.Amount)
			}
			if p.PaidDate != nil && !p.PaidDate.Before(from) && !p.PaidDate.After(to) {
				row.PaidInRange = row.PaidInRange.Add(p.Amount)
			}
		}
		if row.DueInRange.IsZero() && row.PaidInRange.IsZero() {
			continue
		}
		report.TotalDue = report.TotalDue.Add(row.DueInRange)
		report.Paid = report.Paid.Add(row.PaidInRange)
		report.Rows = append(report.Rows, row)
	}
	return report, nil
}

func (s *Service) loadPlan(planID int64) (*models.InstallmentPlan, error) {
	plan, err := s.store.GetPlan(planID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

func appendNote(notes, line string) string {
	if notes == "" {
		return line
	}
	return notes + "\n" + line
}
