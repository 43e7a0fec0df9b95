package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	DBConn    string
	LogLevel  string
	JWTSecret string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string

	RatesURL string

	// Reminder and default policy. Overdue reminders repeat no more often
	// than once per cooldown; upcoming reminders fire at the configured
	// day marks before the due date, capped at MaxUpcomingReminders.
	ReminderCooldownDays int
	DefaultAfterDays     int
	UpcomingReminderDays []int
	MaxUpcomingReminders int

	// Cron specs for the two daily scans.
	OverdueScanSpec  string
	ReminderScanSpec string

	// Installment eligibility defaults, applied to products without an
	// explicit rule. DefaultAnnualRate is a percent, or "market" to follow
	// the live reference rate.
	MinPlanAmount     string
	AllowedTerms      []int
	DefaultAnnualRate string
}

// NewConfig loads configuration from the environment (and .env if present)
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:      getEnv("PORT", "8080"),
		DBConn:    getEnv("DB_CONN", "host=localhost port=5432 user=test password=test dbname=installments sslmode=disable"),
		LogLevel:  getEnv("LOG_LEVEL", "INFO"),
		JWTSecret: getEnv("JWT_SECRET", "secret"),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SenderEmail:  getEnv("SENDER_EMAIL", "billing@paylane.local"),

		RatesURL: getEnv("RATES_URL", "https://www.cbr.ru/DailyInfoWebServ/DailyInfo.asmx"),

		OverdueScanSpec:  getEnv("OVERDUE_SCAN_SPEC", "0 6 * * *"),
		ReminderScanSpec: getEnv("REMINDER_SCAN_SPEC", "0 8 * * *"),

		MinPlanAmount:     getEnv("MIN_PLAN_AMOUNT", "100"),
		DefaultAnnualRate: getEnv("DEFAULT_ANNUAL_RATE", "12"),
	}

	var err error
	if cfg.ReminderCooldownDays, err = getEnvInt("REMINDER_COOLDOWN_DAYS", 7); err != nil {
		return nil, err
	}
	if cfg.DefaultAfterDays, err = getEnvInt("DEFAULT_AFTER_DAYS", 90); err != nil {
		return nil, err
	}
	if cfg.MaxUpcomingReminders, err = getEnvInt("MAX_UPCOMING_REMINDERS", 2); err != nil {
		return nil, err
	}
	if cfg.UpcomingReminderDays, err = getEnvInts("UPCOMING_REMINDER_DAYS", []int{14, 7}); err != nil {
		return nil, err
	}
	if cfg.AllowedTerms, err = getEnvInts("ALLOWED_TERMS", []int{3, 6, 12}); err != nil {
		return nil, err
	}

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvInts(key string, defaultVal []int) ([]int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal, nil
	}
	var out []int
	for _, part := range strings.Split(value, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
		out = append(out, n)
	}
	return out, nil
}
