package email

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"
	"github.com/paylane/installment-service/internal/config"
	"github.com/paylane/installment-service/internal/models"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

func (s *Sender) send(to, subject, body string) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, subject)
	return nil
}

// SendPlanAgreement sends the installment agreement after plan creation
func (s *Sender) SendPlanAgreement(to, name string, plan *models.InstallmentPlan) error {
	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Your installment plan %s has been created.\n"+
			"Total payable: %s (down payment %s, %d installments of %s, %s).\n"+
			"First payment due: %s. Final payment due: %s.\n",
		name, plan.PlanNumber,
		plan.TotalPayable.StringFixed(2), plan.DownPayment.StringFixed(2),
		plan.NumberOfInstallments, plan.InstallmentAmount.StringFixed(2), plan.PaymentFrequency,
		firstDueDate(plan), plan.EndDate.Format("2006-01-02"),
	)
	body += "\nBest regards,\nPaylane Billing"
	return s.send(to, "Your Installment Plan Agreement", body)
}

// SendUpcomingReminder sends a reminder for a payment coming due
func (s *Sender) SendUpcomingReminder(to, name string, payment *models.InstallmentPayment) error {
	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"This is a reminder that installment #%d of %s is due on %s.\n"+
			"Please ensure your payment method is up to date.\n",
		name, payment.InstallmentNumber, payment.Amount.StringFixed(2),
		payment.DueDate.Format("2006-01-02"),
	)
	body += "\nBest regards,\nPaylane Billing"
	return s.send(to, "Upcoming Installment Payment Reminder", body)
}

// SendOverdueNotice sends a notice for an overdue payment
func (s *Sender) SendOverdueNotice(to, name string, payment *models.InstallmentPayment, daysOverdue int) error {
	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Installment #%d of %s was due on %s and is now %d day(s) overdue.\n"+
			"Please make the payment as soon as possible to keep your plan in good standing.\n",
		name, payment.InstallmentNumber, payment.Amount.StringFixed(2),
		payment.DueDate.Format("2006-01-02"), daysOverdue,
	)
	body += "\nBest regards,\nPaylane Billing"
	return s.send(to, "Overdue Installment Payment Notification", body)
}

// SendDefaultNotice informs the customer that their plan has defaulted
func (s *Sender) SendDefaultNotice(to, name string, plan *models.InstallmentPlan) error {
	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Your installment plan %s has been marked as defaulted due to long-overdue payments.\n"+
			"Outstanding overdue amount: %s.\n"+
			"Please contact support to discuss repayment options.\n",
		name, plan.PlanNumber, plan.OverdueAmount.StringFixed(2),
	)
	body += "\nBest regards,\nPaylane Billing"
	return s.send(to, "Installment Plan Defaulted", body)
}

// SendCompletionNotice congratulates the customer on completing a plan
func (s *Sender) SendCompletionNotice(to, name string, plan *models.InstallmentPlan) error {
	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Congratulations! All payments for installment plan %s have been completed.\n"+
			"Total paid: %s.\n"+
			"Completion time: %s\n",
		name, plan.PlanNumber, plan.PaidAmount.StringFixed(2),
		time.Now().Format("2006-01-02 15:04:05"),
	)
	body += "\nBest regards,\nPaylane Billing"
	return s.send(to, "Installment Plan Completed", body)
}

// SendPaymentFailure notifies the customer of a failed payment attempt
func (s *Sender) SendPaymentFailure(to, name string, payment *models.InstallmentPayment, reason string) error {
	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Your payment of %s for installment #%d could not be processed.\n"+
			"Reason: %s\n"+
			"Please update your payment method or try again.\n",
		name, payment.Amount.StringFixed(2), payment.InstallmentNumber, reason,
	)
	body += "\nBest regards,\nPaylane Billing"
	return s.send(to, "Installment Payment Failed", body)
}

func firstDueDate(plan *models.InstallmentPlan) string {
	if len(plan.Payments) == 0 {
		return plan.StartDate.Format("2006-01-02")
	}
	return plan.Payments[0].DueDate.Format("2006-01-02")
}
