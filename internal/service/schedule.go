package service

import (
	"time"

	"github.com/paylane/installment-service/internal/models"
	"github.com/shopspring/decimal"
)

// advanceDate moves a date forward by n periods of the given frequency.
// Weekly and biweekly advance by whole days; monthly advances by calendar
// months.
func advanceDate(t time.Time, frequency models.PaymentFrequency, n int) time.Time {
	switch frequency {
	case models.FrequencyWeekly:
		return t.AddDate(0, 0, 7*n)
	case models.FrequencyBiweekly:
		return t.AddDate(0, 0, 14*n)
	default: // monthly
		return t.AddDate(0, n, 0)
	}
}

// GenerateSchedule produces the ordered payment schedule for a plan.
// Installment i (1-based) is due i periods after startDate, so the first
// payment falls one full period after the plan starts. Every payment begins
// pending with no reminders sent.
func GenerateSchedule(startDate time.Time, terms int, frequency models.PaymentFrequency, installmentAmount decimal.Decimal) ([]*models.InstallmentPayment, error) {
	if terms < 1 {
		return nil, ErrInvalidTermCount
	}
	if !frequency.Valid() {
		return nil, ErrInvalidFrequency
	}

	schedule := make([]*models.InstallmentPayment, 0, terms)
	for i := 1; i <= terms; i++ {
		schedule = append(schedule, &models.InstallmentPayment{
			InstallmentNumber: i,
			Amount:            installmentAmount,
			DueDate:           advanceDate(startDate, frequency, i),
			Status:            models.PaymentStatusPending,
			LateFee:           decimal.Zero,
		})
	}
	return schedule, nil
}

// PlanEndDate returns the due date of the final installment: startDate
// advanced by the full term count.
func PlanEndDate(startDate time.Time, terms int, frequency models.PaymentFrequency) time.Time {
	return advanceDate(startDate, frequency, terms)
}
