package eligibility

import (
	"testing"

	"github.com/paylane/installment-service/internal/config"
	"github.com/shopspring/decimal"
)

func TestRuleForFallsBackToDefault(t *testing.T) {
	rules := StaticRules{
		"": {MinAmount: decimal.NewFromInt(100), AllowedTerms: []int{3, 6}, AnnualRate: decimal.NewFromInt(12)},
		"promo": {MinAmount: decimal.NewFromInt(50), AllowedTerms: []int{3}, AnnualRate: decimal.Zero},
	}

	promo, ok := rules.RuleFor("promo")
	if !ok || !promo.AnnualRate.IsZero() {
		t.Errorf("promo rule not resolved: ok=%v rate=%s", ok, promo.AnnualRate)
	}
	def, ok := rules.RuleFor("anything-else")
	if !ok || !def.AnnualRate.Equal(decimal.NewFromInt(12)) {
		t.Errorf("default rule not resolved: ok=%v rate=%s", ok, def.AnnualRate)
	}
	if _, ok := (StaticRules{}).RuleFor("anything"); ok {
		t.Error("empty table resolved a rule")
	}
}

func TestFromConfigFixedRate(t *testing.T) {
	rules, err := FromConfig(&config.Config{
		MinPlanAmount:     "100",
		AllowedTerms:      []int{3, 6, 12},
		DefaultAnnualRate: "12.5",
	})
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	rule, _ := rules.RuleFor("")
	if rule.RateFollowsMarket() {
		t.Error("fixed rate treated as market")
	}
	if !rule.AnnualRate.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("rate: got %s", rule.AnnualRate)
	}
}

func TestFromConfigMarketRate(t *testing.T) {
	rules, err := FromConfig(&config.Config{
		MinPlanAmount:     "100",
		AllowedTerms:      []int{3, 6, 12},
		DefaultAnnualRate: "market",
	})
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	rule, _ := rules.RuleFor("")
	if !rule.RateFollowsMarket() {
		t.Error("market rate not flagged")
	}
}

func TestAllowsTerm(t *testing.T) {
	rule := Rule{AllowedTerms: []int{3, 6, 12}}
	if !rule.AllowsTerm(6) {
		t.Error("6 should be allowed")
	}
	if rule.AllowsTerm(5) {
		t.Error("5 should not be allowed")
	}
}
