package service

import (
	"errors"
	"testing"
	"time"

	"github.com/paylane/installment-service/internal/models"
	"github.com/shopspring/decimal"
)

func TestGenerateScheduleLengthAndSum(t *testing.T) {
	start := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	amount := mustDecimal(t, "88.85")

	schedule, err := GenerateSchedule(start, 12, models.FrequencyMonthly, amount)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(schedule) != 12 {
		t.Fatalf("expected 12 payments, got %d", len(schedule))
	}

	sum := decimal.Zero
	for i, p := range schedule {
		if p.InstallmentNumber != i+1 {
			t.Errorf("payment %d: expected number %d, got %d", i, i+1, p.InstallmentNumber)
		}
		if p.Status != models.PaymentStatusPending {
			t.Errorf("payment %d: expected pending, got %s", i+1, p.Status)
		}
		if p.ReminderCount != 0 {
			t.Errorf("payment %d: expected zero reminders, got %d", i+1, p.ReminderCount)
		}
		sum = sum.Add(p.Amount)
	}
	assertDecimal(t, sum, "1066.20", "schedule sum")
}

func TestGenerateScheduleDueDatesStrictlyIncreasing(t *testing.T) {
	start := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	for _, freq := range []models.PaymentFrequency{models.FrequencyWeekly, models.FrequencyBiweekly, models.FrequencyMonthly} {
		t.Run(string(freq), func(t *testing.T) {
			schedule, err := GenerateSchedule(start, 6, freq, decimal.NewFromInt(50))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			prev := start
			for _, p := range schedule {
				if !p.DueDate.After(prev) {
					t.Errorf("due date %s not after %s", p.DueDate, prev)
				}
				prev = p.DueDate
			}
			// The final due date is the plan's end marker.
			if end := PlanEndDate(start, 6, freq); !prev.Equal(end) {
				t.Errorf("end date %s does not match last due date %s", end, prev)
			}
		})
	}
}

func TestGenerateScheduleFirstDueDateOnePeriodOut(t *testing.T) {
	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	weekly, err := GenerateSchedule(start, 2, models.FrequencyWeekly, decimal.NewFromInt(10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := start.AddDate(0, 0, 7); !weekly[0].DueDate.Equal(want) {
		t.Errorf("weekly first due date: expected %s, got %s", want, weekly[0].DueDate)
	}

	monthly, err := GenerateSchedule(start, 2, models.FrequencyMonthly, decimal.NewFromInt(10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := start.AddDate(0, 1, 0); !monthly[0].DueDate.Equal(want) {
		t.Errorf("monthly first due date: expected %s, got %s", want, monthly[0].DueDate)
	}
}

func TestGenerateScheduleZeroAmount(t *testing.T) {
	// A fully down-paid plan has zero-value installments; that is valid.
	schedule, err := GenerateSchedule(time.Now(), 2, models.FrequencyMonthly, decimal.Zero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range schedule {
		if !p.Amount.IsZero() {
			t.Errorf("expected zero amount, got %s", p.Amount)
		}
	}
}

func TestGenerateScheduleInvalidInputs(t *testing.T) {
	if _, err := GenerateSchedule(time.Now(), 0, models.FrequencyWeekly, decimal.Zero); !errors.Is(err, ErrInvalidTermCount) {
		t.Errorf("expected ErrInvalidTermCount, got %v", err)
	}
	if _, err := GenerateSchedule(time.Now(), 3, models.PaymentFrequency("daily"), decimal.Zero); !errors.Is(err, ErrInvalidFrequency) {
		t.Errorf("expected ErrInvalidFrequency, got %v", err)
	}
}
