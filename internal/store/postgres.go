package store

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/paylane/installment-service/internal/models"
)

// PostgresStore provides database operations backed by PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore initializes a new store and creates the schema if needed.
func NewPostgresStore(db *sql.DB) (*PostgresStore, error) {
	s := &PostgresStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("could not initialize schema: %w", err)
	}
	return s, nil
}

// initSchema creates the tables if they don't already exist.
// Money columns use NUMERIC so no precision is lost.
func (s *PostgresStore) initSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'customer',
		payment_token TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS orders (
		id BIGSERIAL PRIMARY KEY,
		customer_id BIGINT NOT NULL REFERENCES users(id),
		total_amount NUMERIC(14,2) NOT NULL,
		product_ref TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'placed',
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS installment_plans (
		id BIGSERIAL PRIMARY KEY,
		plan_number TEXT NOT NULL UNIQUE,
		customer_id BIGINT NOT NULL REFERENCES users(id),
		order_id BIGINT NOT NULL UNIQUE REFERENCES orders(id),
		product_ref TEXT NOT NULL,
		total_amount NUMERIC(14,2) NOT NULL,
		down_payment NUMERIC(14,2) NOT NULL,
		installment_amount NUMERIC(14,2) NOT NULL,
		number_of_installments INTEGER NOT NULL,
		interest_rate NUMERIC(8,4) NOT NULL,
		total_interest NUMERIC(14,2) NOT NULL,
		total_payable NUMERIC(14,2) NOT NULL,
		paid_amount NUMERIC(14,2) NOT NULL,
		remaining_amount NUMERIC(14,2) NOT NULL,
		overdue_amount NUMERIC(14,2) NOT NULL,
		start_date TIMESTAMPTZ NOT NULL,
		end_date TIMESTAMPTZ NOT NULL,
		payment_frequency TEXT NOT NULL,
		status TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		completed_at TIMESTAMPTZ,
		defaulted_at TIMESTAMPTZ,
		cancelled_at TIMESTAMPTZ,
		version BIGINT NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS installment_payments (
		id BIGSERIAL PRIMARY KEY,
		plan_id BIGINT NOT NULL REFERENCES installment_plans(id),
		installment_number INTEGER NOT NULL,
		amount NUMERIC(14,2) NOT NULL,
		due_date TIMESTAMPTZ NOT NULL,
		status TEXT NOT NULL,
		paid_date TIMESTAMPTZ,
		transaction_id TEXT NOT NULL DEFAULT '',
		method TEXT NOT NULL DEFAULT '',
		failure_reason TEXT NOT NULL DEFAULT '',
		late_fee NUMERIC(14,2) NOT NULL DEFAULT 0,
		reminder_sent_at TIMESTAMPTZ,
		reminder_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		plan_id BIGINT NOT NULL,
		payment_id BIGINT NOT NULL,
		amount NUMERIC(14,2) NOT NULL,
		method TEXT NOT NULL,
		reference TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS notifications (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL,
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		type TEXT NOT NULL,
		reference TEXT NOT NULL DEFAULT '',
		read BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS audit_logs (
		id BIGSERIAL PRIMARY KEY,
		action TEXT NOT NULL,
		user_id BIGINT NOT NULL,
		module TEXT NOT NULL,
		description TEXT NOT NULL,
		changes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_payments_plan ON installment_payments(plan_id);
	CREATE INDEX IF NOT EXISTS idx_plans_customer ON installment_plans(customer_id);
	CREATE INDEX IF NOT EXISTS idx_plans_status ON installment_plans(status);
	`
	_, err := s.db.Exec(schema)
	return err
}

// CreateUser creates a new user in the database
func (s *PostgresStore) CreateUser(user *models.User) error {
	query := `
		INSERT INTO users (email, first_name, last_name, password_hash, role, payment_token)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	err := s.db.QueryRow(query, user.Email, user.FirstName, user.LastName, user.PasswordHash, user.Role, user.PaymentToken).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByEmail retrieves a user by email
func (s *PostgresStore) FindUserByEmail(email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, email, first_name, last_name, password_hash, role, payment_token, created_at
		FROM users
		WHERE email = $1`
	err := s.db.QueryRow(query, email).
		Scan(&user.ID, &user.Email, &user.FirstName, &user.LastName, &user.PasswordHash, &user.Role, &user.PaymentToken, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// FindUserByID retrieves a user by id
func (s *PostgresStore) FindUserByID(id int64) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, email, first_name, last_name, password_hash, role, payment_token, created_at
		FROM users
		WHERE id = $1`
	err := s.db.QueryRow(query, id).
		Scan(&user.ID, &user.Email, &user.FirstName, &user.LastName, &user.PasswordHash, &user.Role, &user.PaymentToken, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// CreateOrder creates a new order in the database
func (s *PostgresStore) CreateOrder(order *models.Order) error {
	query := `
		INSERT INTO orders (customer_id, total_amount, product_ref, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	err := s.db.QueryRow(query, order.CustomerID, order.TotalAmount, order.ProductRef, order.Status).
		Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// FindOrderByID retrieves an order by id
func (s *PostgresStore) FindOrderByID(id int64) (*models.Order, error) {
	order := &models.Order{}
	query := `
		SELECT id, customer_id, total_amount, product_ref, status, created_at
		FROM orders
		WHERE id = $1`
	err := s.db.QueryRow(query, id).
		Scan(&order.ID, &order.CustomerID, &order.TotalAmount, &order.ProductRef, &order.Status, &order.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	return order, nil
}

// CreatePlan persists the plan and all of its payments in one transaction.
func (s *PostgresStore) CreatePlan(plan *models.InstallmentPlan) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO installment_plans (
			plan_number, customer_id, order_id, product_ref,
			total_amount, down_payment, installment_amount, number_of_installments,
			interest_rate, total_interest, total_payable,
			paid_amount, remaining_amount, overdue_amount,
			start_date, end_date, payment_frequency, status, notes, version)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,1)
		RETURNING id, version, created_at, updated_at`
	err = tx.QueryRow(query,
		plan.PlanNumber, plan.CustomerID, plan.OrderID, plan.ProductRef,
		plan.TotalAmount, plan.DownPayment, plan.InstallmentAmount, plan.NumberOfInstallments,
		plan.InterestRate, plan.TotalInterest, plan.TotalPayable,
		plan.PaidAmount, plan.RemainingAmount, plan.OverdueAmount,
		plan.StartDate, plan.EndDate, plan.PaymentFrequency, plan.Status, plan.Notes).
		Scan(&plan.ID, &plan.Version, &plan.CreatedAt, &plan.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create plan: %w", err)
	}

	for _, p := range plan.Payments {
		p.PlanID = plan.ID
		if err := insertPayment(tx, p); err != nil {
			return err
		}
	}

	return tx.Commit()
}

type execer interface {
	QueryRow(query string, args ...interface{}) *sql.Row
}

func insertPayment(tx execer, p *models.InstallmentPayment) error {
	query := `
		INSERT INTO installment_payments (
			plan_id, installment_number, amount, due_date, status,
			paid_date, transaction_id, method, failure_reason,
			late_fee, reminder_sent_at, reminder_count)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING id, created_at, updated_at`
	err := tx.QueryRow(query,
		p.PlanID, p.InstallmentNumber, p.Amount, p.DueDate, p.Status,
		p.PaidDate, p.TransactionID, p.Method, p.FailureReason,
		p.LateFee, p.ReminderSentAt, p.ReminderCount).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// GetPlan retrieves a plan with its full payment schedule.
func (s *PostgresStore) GetPlan(id int64) (*models.InstallmentPlan, error) {
	return s.findPlan("id = $1", id)
}

// FindPlanByOrderID retrieves the plan created for an order.
func (s *PostgresStore) FindPlanByOrderID(orderID int64) (*models.InstallmentPlan, error) {
	return s.findPlan("order_id = $1", orderID)
}

const planColumns = `
	id, plan_number, customer_id, order_id, product_ref,
	total_amount, down_payment, installment_amount, number_of_installments,
	interest_rate, total_interest, total_payable,
	paid_amount, remaining_amount, overdue_amount,
	start_date, end_date, payment_frequency, status, notes,
	completed_at, defaulted_at, cancelled_at, version, created_at, updated_at`

func (s *PostgresStore) findPlan(where string, arg interface{}) (*models.InstallmentPlan, error) {
	row := s.db.QueryRow(`SELECT `+planColumns+` FROM installment_plans WHERE `+where, arg)
	plan, err := scanPlan(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	if err := s.loadPayments(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPlan(row rowScanner) (*models.InstallmentPlan, error) {
	plan := &models.InstallmentPlan{}
	var completedAt, defaultedAt, cancelledAt sql.NullTime
	err := row.Scan(
		&plan.ID, &plan.PlanNumber, &plan.CustomerID, &plan.OrderID, &plan.ProductRef,
		&plan.TotalAmount, &plan.DownPayment, &plan.InstallmentAmount, &plan.NumberOfInstallments,
		&plan.InterestRate, &plan.TotalInterest, &plan.TotalPayable,
		&plan.PaidAmount, &plan.RemainingAmount, &plan.OverdueAmount,
		&plan.StartDate, &plan.EndDate, &plan.PaymentFrequency, &plan.Status, &plan.Notes,
		&completedAt, &defaultedAt, &cancelledAt, &plan.Version, &plan.CreatedAt, &plan.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		plan.CompletedAt = &completedAt.Time
	}
	if defaultedAt.Valid {
		plan.DefaultedAt = &defaultedAt.Time
	}
	if cancelledAt.Valid {
		plan.CancelledAt = &cancelledAt.Time
	}
	return plan, nil
}

func (s *PostgresStore) loadPayments(plan *models.InstallmentPlan) error {
	rows, err := s.db.Query(`
		SELECT id, plan_id, installment_number, amount, due_date, status,
			paid_date, transaction_id, method, failure_reason,
			late_fee, reminder_sent_at, reminder_count, created_at, updated_at
		FROM installment_payments
		WHERE plan_id = $1
		ORDER BY installment_number ASC, id ASC`, plan.ID)
	if err != nil {
		return fmt.Errorf("failed to load payments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p := &models.InstallmentPayment{}
		var paidDate, reminderSentAt sql.NullTime
		if err := rows.Scan(
			&p.ID, &p.PlanID, &p.InstallmentNumber, &p.Amount, &p.DueDate, &p.Status,
			&paidDate, &p.TransactionID, &p.Method, &p.FailureReason,
			&p.LateFee, &reminderSentAt, &p.ReminderCount, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return fmt.Errorf("failed to scan payment row: %w", err)
		}
		if paidDate.Valid {
			p.PaidDate = &paidDate.Time
		}
		if reminderSentAt.Valid {
			p.ReminderSentAt = &reminderSentAt.Time
		}
		plan.Payments = append(plan.Payments, p)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error during payment rows iteration: %w", err)
	}
	return nil
}

// SavePlan writes the plan row and every payment in one transaction,
// guarded by the optimistic version check.
func (s *PostgresStore) SavePlan(plan *models.InstallmentPlan) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		UPDATE installment_plans SET
			installment_amount = $1, number_of_installments = $2,
			interest_rate = $3, total_interest = $4, total_payable = $5,
			paid_amount = $6, remaining_amount = $7, overdue_amount = $8,
			end_date = $9, status = $10, notes = $11,
			completed_at = $12, defaulted_at = $13, cancelled_at = $14,
			version = version + 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $15 AND version = $16`,
		plan.InstallmentAmount, plan.NumberOfInstallments,
		plan.InterestRate, plan.TotalInterest, plan.TotalPayable,
		plan.PaidAmount, plan.RemainingAmount, plan.OverdueAmount,
		plan.EndDate, plan.Status, plan.Notes,
		plan.CompletedAt, plan.DefaultedAt, plan.CancelledAt,
		plan.ID, plan.Version)
	if err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		// Either the plan is gone or a concurrent writer bumped the version.
		var exists bool
		if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM installment_plans WHERE id = $1)`, plan.ID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check plan existence: %w", err)
		}
		if !exists {
			return ErrNotFound
		}
		return ErrVersionConflict
	}
	plan.Version++

	for _, p := range plan.Payments {
		if p.ID == 0 {
			p.PlanID = plan.ID
			if err := insertPayment(tx, p); err != nil {
				return err
			}
			continue
		}
		if err := updatePayment(tx, p); err != nil {
			return err
		}
	}

	return tx.Commit()
}

type sqlExecer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

func updatePayment(db sqlExecer, p *models.InstallmentPayment) error {
	_, err := db.Exec(`
		UPDATE installment_payments SET
			amount = $1, due_date = $2, status = $3, paid_date = $4,
			transaction_id = $5, method = $6, failure_reason = $7,
			late_fee = $8, reminder_sent_at = $9, reminder_count = $10,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $11`,
		p.Amount, p.DueDate, p.Status, p.PaidDate,
		p.TransactionID, p.Method, p.FailureReason,
		p.LateFee, p.ReminderSentAt, p.ReminderCount,
		p.ID)
	if err != nil {
		return fmt.Errorf("failed to update payment %d: %w", p.ID, err)
	}
	return nil
}

// UpdatePayment writes a single payment row.
func (s *PostgresStore) UpdatePayment(p *models.InstallmentPayment) error {
	return updatePayment(s.db, p)
}

// ListPlans retrieves plans filtered by status ("" for all), newest first.
func (s *PostgresStore) ListPlans(status models.PlanStatus, limit, offset int) ([]*models.InstallmentPlan, error) {
	query := `SELECT ` + planColumns + ` FROM installment_plans`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT %d OFFSET %d`, limit, offset)
	}
	return s.queryPlans(query, args...)
}

// CountPlans counts plans filtered by status ("" for all).
func (s *PostgresStore) CountPlans(status models.PlanStatus) (int, error) {
	query := `SELECT COUNT(*) FROM installment_plans`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	var n int
	if err := s.db.QueryRow(query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count plans: %w", err)
	}
	return n, nil
}

// ListPlansByCustomer retrieves all plans belonging to a customer.
func (s *PostgresStore) ListPlansByCustomer(customerID int64) ([]*models.InstallmentPlan, error) {
	return s.queryPlans(`SELECT `+planColumns+` FROM installment_plans WHERE customer_id = $1 ORDER BY created_at DESC`, customerID)
}

// ListActivePlans retrieves all active plans with their schedules.
func (s *PostgresStore) ListActivePlans() ([]*models.InstallmentPlan, error) {
	return s.queryPlans(`SELECT `+planColumns+` FROM installment_plans WHERE status = $1 ORDER BY id ASC`, models.PlanStatusActive)
}

func (s *PostgresStore) queryPlans(query string, args ...interface{}) ([]*models.InstallmentPlan, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query plans: %w", err)
	}
	defer rows.Close()

	var plans []*models.InstallmentPlan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plan row: %w", err)
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during plan rows iteration: %w", err)
	}
	for _, plan := range plans {
		if err := s.loadPayments(plan); err != nil {
			return nil, err
		}
	}
	return plans, nil
}

// CreateTransaction inserts a ledger transaction.
func (s *PostgresStore) CreateTransaction(t *models.Transaction) error {
	query := `
		INSERT INTO transactions (id, plan_id, payment_id, amount, method, reference, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at`
	err := s.db.QueryRow(query, t.ID, t.PlanID, t.PaymentID, t.Amount, t.Method, t.Reference, t.Status).
		Scan(&t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// UpdateTransactionStatus sets the status of a ledger transaction.
func (s *PostgresStore) UpdateTransactionStatus(id, status string) error {
	result, err := s.db.Exec(`UPDATE transactions SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateNotification inserts an in-app notification.
func (s *PostgresStore) CreateNotification(n *models.Notification) error {
	query := `
		INSERT INTO notifications (user_id, title, message, type, reference)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, created_at`
	err := s.db.QueryRow(query, n.UserID, n.Title, n.Message, n.Type, n.Reference).
		Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ListNotificationsByUser retrieves a user's notifications, newest first.
func (s *PostgresStore) ListNotificationsByUser(userID int64) ([]*models.Notification, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, title, message, type, reference, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var out []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.Reference, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification row: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during notification rows iteration: %w", err)
	}
	return out, nil
}

// CreateAuditLog inserts an audit log entry.
func (s *PostgresStore) CreateAuditLog(entry *models.AuditLog) error {
	query := `
		INSERT INTO audit_logs (action, user_id, module, description, changes)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, created_at`
	err := s.db.QueryRow(query, entry.Action, entry.UserID, entry.Module, entry.Description, entry.Changes).
		Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

var _ Storage = (*PostgresStore)(nil)
