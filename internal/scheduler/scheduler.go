package scheduler

import (
	"time"

	"github.com/paylane/installment-service/internal/config"
	"github.com/paylane/installment-service/internal/service"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Start registers the two daily scans on a cron runner and starts it in the
// background. The returned cron can be stopped on shutdown.
func Start(cfg *config.Config, svc *service.Service, log *logrus.Logger) (*cron.Cron, error) {
	c := cron.New()

	if _, err := c.AddFunc(cfg.OverdueScanSpec, func() {
		if _, err := svc.RunOverdueScan(time.Now()); err != nil {
			log.Errorf("Overdue scan run failed: %v", err)
		}
	}); err != nil {
		return nil, err
	}

	if _, err := c.AddFunc(cfg.ReminderScanSpec, func() {
		if _, err := svc.RunUpcomingReminders(time.Now()); err != nil {
			log.Errorf("Reminder scan run failed: %v", err)
		}
	}); err != nil {
		return nil, err
	}

	c.Start()
	log.Infof("Scheduler started (overdue: %q, reminders: %q)", cfg.OverdueScanSpec, cfg.ReminderScanSpec)
	return c, nil
}
