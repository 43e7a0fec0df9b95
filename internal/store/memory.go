package store

import (
	"sort"
	"sync"
	"time"

	"github.com/paylane/installment-service/internal/models"
)

// MemoryStore is an in-memory Storage implementation. It backs the test
// suites and the local development mode; it applies the same version
// checking as the PostgreSQL store and hands out copies so callers cannot
// mutate stored state without going through SavePlan.
type MemoryStore struct {
	mu sync.Mutex

	users         map[int64]*models.User
	orders        map[int64]*models.Order
	plans         map[int64]*models.InstallmentPlan
	transactions  map[string]*models.Transaction
	notifications []*models.Notification
	auditLogs     []*models.AuditLog

	nextUserID    int64
	nextOrderID   int64
	nextPlanID    int64
	nextPaymentID int64
	nextNotifID   int64
	nextAuditID   int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:        make(map[int64]*models.User),
		orders:       make(map[int64]*models.Order),
		plans:        make(map[int64]*models.InstallmentPlan),
		transactions: make(map[string]*models.Transaction),
	}
}

func (m *MemoryStore) CreateUser(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return ErrDuplicate
		}
	}
	m.nextUserID++
	user.ID = m.nextUserID
	user.CreatedAt = time.Now()
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *MemoryStore) FindUserByEmail(email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) FindUserByID(id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MemoryStore) CreateOrder(order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextOrderID++
	order.ID = m.nextOrderID
	order.CreatedAt = time.Now()
	cp := *order
	m.orders[order.ID] = &cp
	return nil
}

func (m *MemoryStore) FindOrderByID(id int64) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func clonePlan(plan *models.InstallmentPlan) *models.InstallmentPlan {
	cp := *plan
	cp.Payments = make([]*models.InstallmentPayment, len(plan.Payments))
	for i, p := range plan.Payments {
		pc := *p
		cp.Payments[i] = &pc
	}
	return &cp
}

func (m *MemoryStore) CreatePlan(plan *models.InstallmentPlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.plans {
		if existing.OrderID == plan.OrderID {
			return ErrDuplicate
		}
	}
	m.nextPlanID++
	plan.ID = m.nextPlanID
	plan.Version = 1
	now := time.Now()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	for _, p := range plan.Payments {
		m.nextPaymentID++
		p.ID = m.nextPaymentID
		p.PlanID = plan.ID
		p.CreatedAt = now
		p.UpdatedAt = now
	}
	m.plans[plan.ID] = clonePlan(plan)
	return nil
}

func (m *MemoryStore) GetPlan(id int64) (*models.InstallmentPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	plan, ok := m.plans[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clonePlan(plan), nil
}

func (m *MemoryStore) FindPlanByOrderID(orderID int64) (*models.InstallmentPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, plan := range m.plans {
		if plan.OrderID == orderID {
			return clonePlan(plan), nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) SavePlan(plan *models.InstallmentPlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.plans[plan.ID]
	if !ok {
		return ErrNotFound
	}
	if stored.Version != plan.Version {
		return ErrVersionConflict
	}
	plan.Version++
	now := time.Now()
	plan.UpdatedAt = now
	for _, p := range plan.Payments {
		if p.ID == 0 {
			m.nextPaymentID++
			p.ID = m.nextPaymentID
			p.PlanID = plan.ID
			p.CreatedAt = now
		}
		p.UpdatedAt = now
	}
	m.plans[plan.ID] = clonePlan(plan)
	return nil
}

func (m *MemoryStore) ListPlans(status models.PlanStatus, limit, offset int) ([]*models.InstallmentPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.InstallmentPlan
	for _, plan := range m.plans {
		if status == "" || plan.Status == status {
			out = append(out, clonePlan(plan))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) CountPlans(status models.PlanStatus) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, plan := range m.plans {
		if status == "" || plan.Status == status {
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) ListPlansByCustomer(customerID int64) ([]*models.InstallmentPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.InstallmentPlan
	for _, plan := range m.plans {
		if plan.CustomerID == customerID {
			out = append(out, clonePlan(plan))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) ListActivePlans() ([]*models.InstallmentPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.InstallmentPlan
	for _, plan := range m.plans {
		if plan.Status == models.PlanStatusActive {
			out = append(out, clonePlan(plan))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) UpdatePayment(payment *models.InstallmentPayment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	plan, ok := m.plans[payment.PlanID]
	if !ok {
		return ErrNotFound
	}
	for i, p := range plan.Payments {
		if p.ID == payment.ID {
			cp := *payment
			cp.UpdatedAt = time.Now()
			plan.Payments[i] = &cp
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryStore) CreateTransaction(t *models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.CreatedAt = time.Now()
	cp := *t
	m.transactions[t.ID] = &cp
	return nil
}

func (m *MemoryStore) UpdateTransactionStatus(id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.transactions[id]
	if !ok {
		return ErrNotFound
	}
	t.Status = status
	return nil
}

func (m *MemoryStore) CreateNotification(n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextNotifID++
	n.ID = m.nextNotifID
	n.CreatedAt = time.Now()
	cp := *n
	m.notifications = append(m.notifications, &cp)
	return nil
}

func (m *MemoryStore) ListNotificationsByUser(userID int64) ([]*models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Notification
	for i := len(m.notifications) - 1; i >= 0; i-- {
		if m.notifications[i].UserID == userID {
			cp := *m.notifications[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MemoryStore) CreateAuditLog(entry *models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextAuditID++
	entry.ID = m.nextAuditID
	entry.CreatedAt = time.Now()
	cp := *entry
	m.auditLogs = append(m.auditLogs, &cp)
	return nil
}

// Notifications returns all stored notifications; test helper.
func (m *MemoryStore) Notifications() []*models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Notification, len(m.notifications))
	copy(out, m.notifications)
	return out
}

// AuditLogs returns all stored audit entries; test helper.
func (m *MemoryStore) AuditLogs() []*models.AuditLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.AuditLog, len(m.auditLogs))
	copy(out, m.auditLogs)
	return out
}

// Transaction returns a stored ledger transaction by id; test helper.
func (m *MemoryStore) Transaction(id string) (*models.Transaction, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.transactions[id]
	if !ok {
		return nil, false
	}
	cp := *t
	return &cp, true
}

func (m *MemoryStore) Close() error { return nil }

var _ Storage = (*MemoryStore)(nil)
