package service

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestComputeInstallmentZeroRate(t *testing.T) {
	quote, err := ComputeInstallment(decimal.NewFromInt(1000), 12, decimal.Zero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDecimal(t, quote.InstallmentAmount, "83.33", "installment amount")
	assertDecimal(t, quote.TotalInterest, "0.00", "total interest")
}

func TestComputeInstallmentWithInterest(t *testing.T) {
	// 12% annual over 12 months: monthly rate 0.01.
	quote, err := ComputeInstallment(decimal.NewFromInt(1000), 12, decimal.NewFromInt(12))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDecimal(t, quote.InstallmentAmount, "88.85", "installment amount")
	assertDecimal(t, quote.TotalInterest, "66.20", "total interest")
}

func TestComputeInstallmentNeverBelowEvenSplit(t *testing.T) {
	cases := []struct {
		name      string
		principal int64
		terms     int
		rate      int64
	}{
		{"small principal", 250, 3, 8},
		{"one term", 1000, 1, 12},
		{"long term", 50000, 12, 24},
		{"zero principal", 0, 6, 12},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			principal := decimal.NewFromInt(tc.principal)
			quote, err := ComputeInstallment(principal, tc.terms, decimal.NewFromInt(tc.rate))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			evenSplit := principal.Div(decimal.NewFromInt(int64(tc.terms))).Round(2)
			// A cent of rounding slack either way.
			if quote.InstallmentAmount.Add(decimal.NewFromFloat(0.01)).LessThan(evenSplit) {
				t.Errorf("installment %s below even split %s", quote.InstallmentAmount, evenSplit)
			}
			if quote.TotalInterest.IsNegative() {
				t.Errorf("negative total interest: %s", quote.TotalInterest)
			}
		})
	}
}

func TestComputeInstallmentInvalidInputs(t *testing.T) {
	if _, err := ComputeInstallment(decimal.NewFromInt(1000), 0, decimal.Zero); !errors.Is(err, ErrInvalidTermCount) {
		t.Errorf("expected ErrInvalidTermCount for zero terms, got %v", err)
	}
	if _, err := ComputeInstallment(decimal.NewFromInt(1000), -3, decimal.Zero); !errors.Is(err, ErrInvalidTermCount) {
		t.Errorf("expected ErrInvalidTermCount for negative terms, got %v", err)
	}
	if _, err := ComputeInstallment(decimal.NewFromInt(-1), 3, decimal.Zero); !errors.Is(err, ErrInvalidPrincipal) {
		t.Errorf("expected ErrInvalidPrincipal, got %v", err)
	}
}
