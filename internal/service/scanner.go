package service

import (
	"fmt"
	"time"

	"github.com/paylane/installment-service/internal/models"
)

// ScanResult summarizes one scanner run.
type ScanResult struct {
	PlansScanned  int `json:"plans_scanned"`
	MarkedOverdue int `json:"marked_overdue"`
	RemindersSent int `json:"reminders_sent"`
	Defaulted     int `json:"defaulted"`
}

// RunOverdueScan walks every active plan, marks payments past their due date
// overdue, sends overdue reminders subject to the cooldown, and escalates to
// defaulted once the oldest overdue payment exceeds the default threshold.
//
// The scan is idempotent for a given day: re-running it adds nothing to
// overdueAmount and sends no reminder inside the cooldown window. A failure
// on one plan is logged and does not abort the scan of the rest.
func (s *Service) RunOverdueScan(now time.Time) (*ScanResult, error) {
	plans, err := s.store.ListActivePlans()
	if err != nil {
		return nil, fmt.Errorf("failed to list active plans: %w", err)
	}

	result := &ScanResult{}
	for _, listed := range plans {
		if err := s.scanPlanOverdue(listed.ID, now, result); err != nil {
			s.log.Errorf("Overdue scan failed for plan %d: %v", listed.ID, err)
		}
	}
	s.log.Infof("Overdue scan: %d plans, %d marked overdue, %d reminders, %d defaulted",
		result.PlansScanned, result.MarkedOverdue, result.RemindersSent, result.Defaulted)
	return result, nil
}

func (s *Service) scanPlanOverdue(planID int64, now time.Time, result *ScanResult) error {
	unlock := s.locks.lock(planID)
	defer unlock()

	// Reload under the lock; a payment may have landed since listing.
	plan, err := s.loadPlan(planID)
	if err != nil {
		return err
	}
	if plan.Status != models.PlanStatusActive {
		return nil
	}
	result.PlansScanned++

	user := s.customer(plan.CustomerID)
	changed := false

	for _, p := range plan.Payments {
		// Failed payments past their due date are pulled back into overdue:
		// a failed attempt must not exempt the payment from escalation.
		if (p.Status == models.PaymentStatusPending || p.Status == models.PaymentStatusFailed) &&
			daysBetween(p.DueDate, now) > 0 {
			p.Status = models.PaymentStatusOverdue
			result.MarkedOverdue++
			changed = true
		}
		if p.Status == models.PaymentStatusOverdue && s.reminderCooldownElapsed(p.ReminderSentAt, now) {
			daysOverdue := daysBetween(p.DueDate, now)
			s.notify(plan.CustomerID, "Installment payment overdue",
				fmt.Sprintf("Payment #%d on plan %s is %d day(s) overdue.", p.InstallmentNumber, plan.PlanNumber, daysOverdue),
				models.NotificationPaymentOverdue, plan.PlanNumber)
			if user != nil {
				if err := s.email.SendOverdueNotice(user.Email, user.FullName(), p, daysOverdue); err != nil {
					s.log.Errorf("Failed to send overdue email for plan %s: %v", plan.PlanNumber, err)
				}
			}
			sent := now
			p.ReminderSentAt = &sent
			p.ReminderCount++
			result.RemindersSent++
			changed = true
		}
	}

	if total := plan.OverdueTotal(); !total.Equal(plan.OverdueAmount) {
		plan.OverdueAmount = total
		changed = true
	}

	// Escalate once the oldest overdue payment crosses the threshold.
	if oldest := oldestOverdue(plan); oldest != nil && daysBetween(oldest.DueDate, now) >= s.config.DefaultAfterDays {
		plan.Status = models.PlanStatusDefaulted
		stamp := now
		plan.DefaultedAt = &stamp
		result.Defaulted++
		changed = true

		s.notify(plan.CustomerID, "Installment plan defaulted",
			fmt.Sprintf("Plan %s has been marked defaulted after long-overdue payments.", plan.PlanNumber),
			models.NotificationPlanDefaulted, plan.PlanNumber)
		if user != nil {
			if err := s.email.SendDefaultNotice(user.Email, user.FullName(), plan); err != nil {
				s.log.Errorf("Failed to send default email for plan %s: %v", plan.PlanNumber, err)
			}
		}
		s.audit("plan.default", systemActorID, "installments",
			fmt.Sprintf("Plan %s defaulted, oldest payment %d day(s) overdue", plan.PlanNumber, daysBetween(oldest.DueDate, now)), "")
		s.log.Warnf("Plan %s defaulted", plan.PlanNumber)
	}

	if !changed {
		return nil
	}
	if err := s.store.SavePlan(plan); err != nil {
		return fmt.Errorf("failed to save plan %d after scan: %w", planID, err)
	}
	return nil
}

// RunUpcomingReminders walks every active plan and reminds customers of
// payments coming due. The canonical cadence reminds once per configured day
// mark before the due date (default T-14 and T-7), capped at the configured
// maximum per payment, never twice on the same day.
func (s *Service) RunUpcomingReminders(now time.Time) (*ScanResult, error) {
	plans, err := s.store.ListActivePlans()
	if err != nil {
		return nil, fmt.Errorf("failed to list active plans: %w", err)
	}

	result := &ScanResult{}
	for _, listed := range plans {
		if err := s.remindPlanUpcoming(listed.ID, now, result); err != nil {
			s.log.Errorf("Reminder scan failed for plan %d: %v", listed.ID, err)
		}
	}
	s.log.Infof("Reminder scan: %d plans, %d reminders sent", result.PlansScanned, result.RemindersSent)
	return result, nil
}

func (s *Service) remindPlanUpcoming(planID int64, now time.Time, result *ScanResult) error {
	unlock := s.locks.lock(planID)
	defer unlock()

	plan, err := s.loadPlan(planID)
	if err != nil {
		return err
	}
	if plan.Status != models.PlanStatusActive {
		return nil
	}
	result.PlansScanned++

	user := s.customer(plan.CustomerID)
	changed := false

	for _, p := range plan.Payments {
		if p.Status != models.PaymentStatusPending {
			continue
		}
		daysUntil := daysBetween(now, p.DueDate)
		if !atReminderMark(daysUntil, s.config.UpcomingReminderDays) {
			continue
		}
		if p.ReminderCount >= s.config.MaxUpcomingReminders {
			continue
		}
		if p.ReminderSentAt != nil && sameDay(*p.ReminderSentAt, now) {
			continue
		}

		s.notify(plan.CustomerID, "Upcoming installment payment",
			fmt.Sprintf("Payment #%d on plan %s is due in %d day(s).", p.InstallmentNumber, plan.PlanNumber, daysUntil),
			models.NotificationPaymentReminder, plan.PlanNumber)
		if user != nil {
			if err := s.email.SendUpcomingReminder(user.Email, user.FullName(), p); err != nil {
				s.log.Errorf("Failed to send reminder email for plan %s: %v", plan.PlanNumber, err)
			}
		}
		sent := now
		p.ReminderSentAt = &sent
		p.ReminderCount++
		result.RemindersSent++
		changed = true
	}

	if !changed {
		return nil
	}
	if err := s.store.SavePlan(plan); err != nil {
		return fmt.Errorf("failed to save plan %d after reminders: %w", planID, err)
	}
	return nil
}

func (s *Service) reminderCooldownElapsed(sentAt *time.Time, now time.Time) bool {
	if sentAt == nil {
		return true
	}
	cooldown := time.Duration(s.config.ReminderCooldownDays) * 24 * time.Hour
	return now.Sub(*sentAt) >= cooldown
}

func oldestOverdue(plan *models.InstallmentPlan) *models.InstallmentPayment {
	var oldest *models.InstallmentPayment
	for _, p := range plan.Payments {
		if p.Status != models.PaymentStatusOverdue {
			continue
		}
		if oldest == nil || p.DueDate.Before(oldest.DueDate) {
			oldest = p
		}
	}
	return oldest
}

func atReminderMark(daysUntil int, marks []int) bool {
	for _, m := range marks {
		if daysUntil == m {
			return true
		}
	}
	return false
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
