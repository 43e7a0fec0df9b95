package service

import (
	"errors"
	"testing"
	"time"

	"github.com/paylane/installment-service/internal/models"
)

// seedWeeklyPlan creates a weekly plan whose schedule started daysAgo days
// in the past, so the early installments are already past due.
func seedWeeklyPlan(t *testing.T, env *testEnv, daysAgo int, terms int) (*models.User, *models.InstallmentPlan) {
	t.Helper()
	user, order := env.seedCustomer(t, "1200.00", "")
	start := time.Now().AddDate(0, 0, -daysAgo)
	plan, err := env.svc.CreatePlan(user.ID, CreatePlanInput{
		OrderID:   order.ID,
		Terms:     terms,
		StartDate: &start,
		Frequency: models.FrequencyWeekly,
	})
	if err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}
	return user, plan
}

func TestOverdueScanMarksPastDuePayments(t *testing.T) {
	env := newTestEnv(t)
	_, plan := seedWeeklyPlan(t, env, 8, 6) // first payment due yesterday
	now := time.Now()

	result, err := env.svc.RunOverdueScan(now)
	if err != nil {
		t.Fatalf("RunOverdueScan: %v", err)
	}
	if result.PlansScanned != 1 || result.MarkedOverdue != 1 {
		t.Fatalf("expected 1 plan / 1 overdue, got %d/%d", result.PlansScanned, result.MarkedOverdue)
	}
	if result.RemindersSent != 1 {
		t.Errorf("expected 1 overdue reminder, got %d", result.RemindersSent)
	}

	reloaded, err := env.store.GetPlan(plan.ID)
	if err != nil {
		t.Fatalf("GetPlan: %v", err)
	}
	first := reloaded.PaymentByNumber(1)
	if first.Status != models.PaymentStatusOverdue {
		t.Errorf("expected overdue, got %s", first.Status)
	}
	if first.ReminderCount != 1 || first.ReminderSentAt == nil {
		t.Errorf("reminder not recorded: count=%d sentAt=%v", first.ReminderCount, first.ReminderSentAt)
	}
	if !reloaded.OverdueAmount.Equal(first.Amount) {
		t.Errorf("overdueAmount %s != payment amount %s", reloaded.OverdueAmount, first.Amount)
	}
	if got := reloaded.PaymentByNumber(2).Status; got != models.PaymentStatusPending {
		t.Errorf("future payment touched: %s", got)
	}
	if env.email.sent["overdue"] != 1 {
		t.Errorf("expected 1 overdue email, got %d", env.email.sent["overdue"])
	}
}

func TestOverdueScanIdempotentWithinCooldown(t *testing.T) {
	env := newTestEnv(t)
	_, plan := seedWeeklyPlan(t, env, 8, 6)
	now := time.Now()

	if _, err := env.svc.RunOverdueScan(now); err != nil {
		t.Fatalf("first scan: %v", err)
	}
	after, err := env.store.GetPlan(plan.ID)
	if err != nil {
		t.Fatalf("GetPlan: %v", err)
	}

	second, err := env.svc.RunOverdueScan(now)
	if err != nil {
		t.Fatalf("second scan: %v", err)
	}
	if second.MarkedOverdue != 0 || second.RemindersSent != 0 {
		t.Errorf("second scan not idempotent: %+v", second)
	}

	reloaded, err := env.store.GetPlan(plan.ID)
	if err != nil {
		t.Fatalf("GetPlan: %v", err)
	}
	if !reloaded.OverdueAmount.Equal(after.OverdueAmount) {
		t.Errorf("overdueAmount moved: %s vs %s", reloaded.OverdueAmount, after.OverdueAmount)
	}
	if got := reloaded.PaymentByNumber(1).ReminderCount; got != 1 {
		t.Errorf("reminder resent inside cooldown: count=%d", got)
	}
}

func TestOverdueScanResendsAfterCooldown(t *testing.T) {
	env := newTestEnv(t)
	_, plan := seedWeeklyPlan(t, env, 8, 6)
	now := time.Now()

	if _, err := env.svc.RunOverdueScan(now); err != nil {
		t.Fatalf("first scan: %v", err)
	}
	later := now.AddDate(0, 0, env.cfg.ReminderCooldownDays)
	result, err := env.svc.RunOverdueScan(later)
	if err != nil {
		t.Fatalf("second scan: %v", err)
	}
	// Payment #2 also fell due in the meantime.
	if result.MarkedOverdue != 1 {
		t.Errorf("expected 1 newly overdue, got %d", result.MarkedOverdue)
	}
	if result.RemindersSent != 2 {
		t.Errorf("expected reminders for both overdue payments, got %d", result.RemindersSent)
	}

	reloaded, err := env.store.GetPlan(plan.ID)
	if err != nil {
		t.Fatalf("GetPlan: %v", err)
	}
	if got := reloaded.PaymentByNumber(1).ReminderCount; got != 2 {
		t.Errorf("expected 2 reminders on payment #1, got %d", got)
	}
}

func TestOverdueScanRepromotesFailedPayments(t *testing.T) {
	env := newTestEnv(t)
	_, plan := seedWeeklyPlan(t, env, 8, 6)
	now := time.Now()

	if _, err := env.svc.RunOverdueScan(now); err != nil {
		t.Fatalf("first scan: %v", err)
	}

	// A declined auto-charge drops the overdue payment to failed.
	env.charger.err = errors.New("card declined")
	if _, err := env.svc.ProcessAutoPayment(plan.ID, 1); err == nil {
		t.Fatal("expected the auto-charge to fail")
	}
	env.charger.err = nil
	failed, err := env.store.GetPlan(plan.ID)
	if err != nil {
		t.Fatalf("GetPlan: %v", err)
	}
	if got := failed.PaymentByNumber(1).Status; got != models.PaymentStatusFailed {
		t.Fatalf("expected failed, got %s", got)
	}

	// The next scan pulls it back into overdue alongside the newly due
	// payment, and the overdue total reflects both.
	result, err := env.svc.RunOverdueScan(now.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("second scan: %v", err)
	}
	if result.MarkedOverdue != 2 {
		t.Errorf("expected 2 marked overdue, got %d", result.MarkedOverdue)
	}
	reloaded, err := env.store.GetPlan(plan.ID)
	if err != nil {
		t.Fatalf("GetPlan: %v", err)
	}
	first := reloaded.PaymentByNumber(1)
	if first.Status != models.PaymentStatusOverdue {
		t.Errorf("failed payment not repromoted: %s", first.Status)
	}
	want := first.Amount.Add(reloaded.PaymentByNumber(2).Amount)
	if !reloaded.OverdueAmount.Equal(want) {
		t.Errorf("overdueAmount %s != %s", reloaded.OverdueAmount, want)
	}
}

func TestOverdueScanDefaultsLongOverduePlan(t *testing.T) {
	env := newTestEnv(t)
	user, plan := seedWeeklyPlan(t, env, 98, 6) // oldest payment 91 days overdue
	now := time.Now()

	result, err := env.svc.RunOverdueScan(now)
	if err != nil {
		t.Fatalf("RunOverdueScan: %v", err)
	}
	if result.Defaulted != 1 {
		t.Fatalf("expected 1 defaulted plan, got %d", result.Defaulted)
	}

	reloaded, err := env.store.GetPlan(plan.ID)
	if err != nil {
		t.Fatalf("GetPlan: %v", err)
	}
	if reloaded.Status != models.PlanStatusDefaulted {
		t.Fatalf("expected defaulted, got %s", reloaded.Status)
	}
	if reloaded.DefaultedAt == nil {
		t.Error("defaultedAt not stamped")
	}
	if env.email.sent["default"] != 1 {
		t.Errorf("expected 1 default email, got %d", env.email.sent["default"])
	}
	notified := false
	for _, n := range env.store.Notifications() {
		if n.Type == models.NotificationPlanDefaulted && n.UserID == user.ID {
			notified = true
		}
	}
	if !notified {
		t.Error("no default notification")
	}
	audited := false
	for _, entry := range env.store.AuditLogs() {
		if entry.Action == "plan.default" {
			audited = true
			if entry.UserID != systemActorID {
				t.Errorf("default audit entry attributed to user %d, want the system actor", entry.UserID)
			}
		}
	}
	if !audited {
		t.Error("no default audit entry")
	}

	// A defaulted plan drops out of the scan; default fires once.
	stamp := *reloaded.DefaultedAt
	again, err := env.svc.RunOverdueScan(now.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("second scan: %v", err)
	}
	if again.PlansScanned != 0 || again.Defaulted != 0 {
		t.Errorf("defaulted plan rescanned: %+v", again)
	}
	final, err := env.store.GetPlan(plan.ID)
	if err != nil {
		t.Fatalf("GetPlan: %v", err)
	}
	if !final.DefaultedAt.Equal(stamp) {
		t.Errorf("defaultedAt restamped: %v vs %v", final.DefaultedAt, stamp)
	}
}

func TestOverdueScanBelowDefaultThreshold(t *testing.T) {
	env := newTestEnv(t)
	_, plan := seedWeeklyPlan(t, env, 37, 12) // oldest payment 30 days overdue
	now := time.Now()

	result, err := env.svc.RunOverdueScan(now)
	if err != nil {
		t.Fatalf("RunOverdueScan: %v", err)
	}
	if result.Defaulted != 0 {
		t.Errorf("plan defaulted below threshold: %+v", result)
	}
	reloaded, err := env.store.GetPlan(plan.ID)
	if err != nil {
		t.Fatalf("GetPlan: %v", err)
	}
	if reloaded.Status != models.PlanStatusActive {
		t.Errorf("expected active, got %s", reloaded.Status)
	}
}

func TestUpcomingRemindersAtMarks(t *testing.T) {
	env := newTestEnv(t)
	user, order := env.seedCustomer(t, "1200.00", "")
	start := time.Now()
	plan, err := env.svc.CreatePlan(user.ID, CreatePlanInput{
		OrderID:   order.ID,
		Terms:     6,
		StartDate: &start,
		Frequency: models.FrequencyWeekly,
	})
	if err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}

	// Payments due in 7 and 14 days sit exactly on the reminder marks.
	result, err := env.svc.RunUpcomingReminders(start)
	if err != nil {
		t.Fatalf("RunUpcomingReminders: %v", err)
	}
	if result.RemindersSent != 2 {
		t.Fatalf("expected 2 reminders, got %d", result.RemindersSent)
	}
	if env.email.sent["upcoming"] != 2 {
		t.Errorf("expected 2 upcoming emails, got %d", env.email.sent["upcoming"])
	}

	// Same day again: nothing.
	again, err := env.svc.RunUpcomingReminders(start.Add(2 * time.Hour))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if again.RemindersSent != 0 {
		t.Errorf("same-day rerun sent %d reminders", again.RemindersSent)
	}

	// A week later payment #2 hits the T-7 mark for its second reminder and
	// payment #3 reaches T-14 for its first.
	later, err := env.svc.RunUpcomingReminders(start.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("third run: %v", err)
	}
	if later.RemindersSent != 2 {
		t.Errorf("expected 2 reminders at the next marks, got %d", later.RemindersSent)
	}

	reloaded, err := env.store.GetPlan(plan.ID)
	if err != nil {
		t.Fatalf("GetPlan: %v", err)
	}
	if got := reloaded.PaymentByNumber(2).ReminderCount; got != 2 {
		t.Errorf("expected 2 reminders on payment #2, got %d", got)
	}
}

func TestUpcomingRemindersRespectCap(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.MaxUpcomingReminders = 1
	user, order := env.seedCustomer(t, "1200.00", "")
	start := time.Now()
	plan, err := env.svc.CreatePlan(user.ID, CreatePlanInput{
		OrderID:   order.ID,
		Terms:     6,
		StartDate: &start,
		Frequency: models.FrequencyWeekly,
	})
	if err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}

	if _, err := env.svc.RunUpcomingReminders(start); err != nil {
		t.Fatalf("first run: %v", err)
	}
	// Payment #2 got its single allowed reminder at T-14; the T-7 mark a
	// week later is skipped by the cap. Only payment #3, newly at T-14,
	// is reminded.
	later, err := env.svc.RunUpcomingReminders(start.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if later.RemindersSent != 1 {
		t.Errorf("expected only the T-14 reminder for the next payment, got %d", later.RemindersSent)
	}
	reloaded, err := env.store.GetPlan(plan.ID)
	if err != nil {
		t.Fatalf("GetPlan: %v", err)
	}
	if got := reloaded.PaymentByNumber(2).ReminderCount; got != 1 {
		t.Errorf("expected capped count 1, got %d", got)
	}
}

func TestUpcomingRemindersSkipNonActivePlans(t *testing.T) {
	env := newTestEnv(t)
	user, order := env.seedCustomer(t, "1200.00", "")
	start := time.Now()
	plan, err := env.svc.CreatePlan(user.ID, CreatePlanInput{
		OrderID:   order.ID,
		Terms:     6,
		StartDate: &start,
		Frequency: models.FrequencyWeekly,
	})
	if err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}
	if _, err := env.svc.CancelPlan(plan.ID, "test", 1); err != nil {
		t.Fatalf("CancelPlan: %v", err)
	}

	result, err := env.svc.RunUpcomingReminders(start)
	if err != nil {
		t.Fatalf("RunUpcomingReminders: %v", err)
	}
	if result.PlansScanned != 0 || result.RemindersSent != 0 {
		t.Errorf("cancelled plan scanned: %+v", result)
	}
}
