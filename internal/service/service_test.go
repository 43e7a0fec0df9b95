package service

import (
	"fmt"
	"io"
	"testing"

	"github.com/paylane/installment-service/internal/config"
	"github.com/paylane/installment-service/internal/eligibility"
	"github.com/paylane/installment-service/internal/models"
	"github.com/paylane/installment-service/internal/store"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// fakeEmail records sends per template so tests can assert on delivery
// without SMTP.
type fakeEmail struct {
	sent map[string]int
	err  error
}

func newFakeEmail() *fakeEmail {
	return &fakeEmail{sent: map[string]int{}}
}

func (f *fakeEmail) record(kind string) error {
	f.sent[kind]++
	return f.err
}

func (f *fakeEmail) SendPlanAgreement(to, name string, plan *models.InstallmentPlan) error {
	return f.record("agreement")
}
func (f *fakeEmail) SendUpcomingReminder(to, name string, payment *models.InstallmentPayment) error {
	return f.record("upcoming")
}
func (f *fakeEmail) SendOverdueNotice(to, name string, payment *models.InstallmentPayment, daysOverdue int) error {
	return f.record("overdue")
}
func (f *fakeEmail) SendDefaultNotice(to, name string, plan *models.InstallmentPlan) error {
	return f.record("default")
}
func (f *fakeEmail) SendCompletionNotice(to, name string, plan *models.InstallmentPlan) error {
	return f.record("completion")
}
func (f *fakeEmail) SendPaymentFailure(to, name string, payment *models.InstallmentPayment, reason string) error {
	return f.record("failure")
}

// fakeRates serves a fixed reference rate unless err is set.
type fakeRates struct {
	rate float64
	err  error
}

func (f *fakeRates) GetBaseRate() (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.rate, nil
}

// fakeCharger approves every charge unless err is set.
type fakeCharger struct {
	err     error
	charges int
}

func (f *fakeCharger) Charge(token string, amount decimal.Decimal) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.charges++
	return fmt.Sprintf("auth_test_%d", f.charges), nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:            "test-secret",
		ReminderCooldownDays: 7,
		DefaultAfterDays:     90,
		UpcomingReminderDays: []int{14, 7},
		MaxUpcomingReminders: 2,
	}
}

func testRules() eligibility.StaticRules {
	return eligibility.StaticRules{
		"": {
			MinAmount:    decimal.NewFromInt(100),
			AllowedTerms: []int{2, 3, 6, 12},
			AnnualRate:   decimal.NewFromInt(12),
		},
		"zero-rate": {
			MinAmount:    decimal.NewFromInt(100),
			AllowedTerms: []int{2, 3, 6, 12},
			AnnualRate:   decimal.Zero,
		},
		"market-rate": {
			MinAmount:    decimal.NewFromInt(100),
			AllowedTerms: []int{2, 3, 6, 12},
			AnnualRate:   decimal.NewFromInt(-1),
		},
	}
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type testEnv struct {
	svc     *Service
	store   *store.MemoryStore
	email   *fakeEmail
	charger *fakeCharger
	rates   *fakeRates
	cfg     *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st := store.NewMemoryStore()
	em := newFakeEmail()
	ch := &fakeCharger{}
	rt := &fakeRates{rate: 12}
	cfg := testConfig()
	svc := NewService(st, quietLogger(), cfg, em, ch, testRules(), rt)
	return &testEnv{svc: svc, store: st, email: em, charger: ch, rates: rt, cfg: cfg}
}

// seedCustomer creates a user and an order for them, returning both.
func (e *testEnv) seedCustomer(t *testing.T, total string, productRef string) (*models.User, *models.Order) {
	t.Helper()
	user := &models.User{
		Email:        fmt.Sprintf("customer%d@example.com", len(e.store.Notifications())+e.rand()),
		FirstName:    "Test",
		LastName:     "Customer",
		PasswordHash: "x",
		Role:         models.RoleCustomer,
		PaymentToken: "tok_ok",
	}
	if err := e.store.CreateUser(user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	order := &models.Order{
		CustomerID:  user.ID,
		TotalAmount: mustDecimal(t, total),
		ProductRef:  productRef,
		Status:      "placed",
	}
	if err := e.store.CreateOrder(order); err != nil {
		t.Fatalf("failed to seed order: %v", err)
	}
	return user, order
}

var seedCounter int

func (e *testEnv) rand() int {
	seedCounter++
	return seedCounter
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func assertDecimal(t *testing.T, got decimal.Decimal, want string, label string) {
	t.Helper()
	if got.StringFixed(2) != want {
		t.Errorf("%s: expected %s, got %s", label, want, got.StringFixed(2))
	}
}
