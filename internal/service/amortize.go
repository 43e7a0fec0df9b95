package service

import (
	"math"

	"github.com/shopspring/decimal"
)

// InstallmentQuote is the result of an amortization calculation.
type InstallmentQuote struct {
	InstallmentAmount decimal.Decimal `json:"installment_amount"`
	TotalInterest     decimal.Decimal `json:"total_interest"`
}

// ComputeInstallment computes the fixed per-installment payment and total
// interest for a principal financed over the given term count at the given
// annual rate (percent). Zero-rate plans split the principal evenly.
//
// The fixed-payment formula is
//
//	payment = P * r * (1+r)^n / ((1+r)^n - 1)
//
// with r the monthly rate. The power term is evaluated in float64 and the
// result switched back to decimal, rounded to cents.
func ComputeInstallment(principal decimal.Decimal, terms int, annualRatePercent decimal.Decimal) (InstallmentQuote, error) {
	if terms < 1 {
		return InstallmentQuote{}, ErrInvalidTermCount
	}
	if principal.IsNegative() {
		return InstallmentQuote{}, ErrInvalidPrincipal
	}

	termsDec := decimal.NewFromInt(int64(terms))

	if annualRatePercent.IsZero() {
		return InstallmentQuote{
			InstallmentAmount: principal.Div(termsDec).Round(2),
			TotalInterest:     decimal.Zero,
		}, nil
	}

	monthlyRate := annualRatePercent.InexactFloat64() / 100 / 12
	factor := math.Pow(1+monthlyRate, float64(terms))
	paymentFloat := principal.InexactFloat64() * monthlyRate * factor / (factor - 1)
	installment := decimal.NewFromFloat(paymentFloat).Round(2)

	return InstallmentQuote{
		InstallmentAmount: installment,
		TotalInterest:     installment.Mul(termsDec).Sub(principal).Round(2),
	}, nil
}
