package eligibility

import (
	"github.com/paylane/installment-service/internal/config"
	"github.com/shopspring/decimal"
)

// Rule is the installment eligibility rule for one product.
type Rule struct {
	MinAmount    decimal.Decimal
	AllowedTerms []int
	AnnualRate   decimal.Decimal // annual interest, percent
}

// RateFollowsMarket reports whether the rule carries no fixed rate of its
// own. Such rules are priced off the live reference financing rate when a
// plan is created.
func (r Rule) RateFollowsMarket() bool {
	return r.AnnualRate.IsNegative()
}

// AllowsTerm reports whether the given term count is offered.
func (r Rule) AllowsTerm(terms int) bool {
	for _, t := range r.AllowedTerms {
		if t == terms {
			return true
		}
	}
	return false
}

// Rules resolves the installment rule for a product. The rules are owned
// elsewhere (product catalog); this service only reads them.
type Rules interface {
	RuleFor(productRef string) (Rule, bool)
}

// StaticRules is a fixed product-to-rule table with a fallback default.
// The zero ProductRef entry ("") acts as the default rule.
type StaticRules map[string]Rule

// RuleFor returns the rule for productRef, falling back to the default entry.
func (s StaticRules) RuleFor(productRef string) (Rule, bool) {
	if r, ok := s[productRef]; ok {
		return r, true
	}
	r, ok := s[""]
	return r, ok
}

// FromConfig builds the default rule table from configuration. A
// DEFAULT_ANNUAL_RATE of "market" prices the default rule off the live
// reference rate instead of a fixed value.
func FromConfig(cfg *config.Config) (StaticRules, error) {
	minAmount, err := decimal.NewFromString(cfg.MinPlanAmount)
	if err != nil {
		return nil, err
	}
	rate := decimal.NewFromInt(-1)
	if cfg.DefaultAnnualRate != "market" {
		if rate, err = decimal.NewFromString(cfg.DefaultAnnualRate); err != nil {
			return nil, err
		}
	}
	return StaticRules{
		"": {
			MinAmount:    minAmount,
			AllowedTerms: cfg.AllowedTerms,
			AnnualRate:   rate,
		},
	}, nil
}
