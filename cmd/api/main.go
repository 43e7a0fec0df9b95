package main

import (
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/paylane/installment-service/internal/config"
	"github.com/paylane/installment-service/internal/eligibility"
	"github.com/paylane/installment-service/internal/gateway"
	"github.com/paylane/installment-service/internal/handler"
	"github.com/paylane/installment-service/internal/integrations/rates"
	"github.com/paylane/installment-service/internal/middleware"
	"github.com/paylane/installment-service/internal/scheduler"
	"github.com/paylane/installment-service/internal/service"
	"github.com/paylane/installment-service/internal/store"
	"github.com/paylane/installment-service/internal/utils/email"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	st, err := store.NewPostgresStore(db)
	if err != nil {
		logger.Fatalf("Failed to initialize store: %v", err)
	}

	// Initialize layers
	rules, err := eligibility.FromConfig(cfg)
	if err != nil {
		logger.Fatalf("Failed to load eligibility rules: %v", err)
	}
	sender := email.NewSender(cfg, logger)
	charger := gateway.NewSimulatedGateway(logger)
	ratesClient := rates.NewClient(cfg, logger)
	svc := service.NewService(st, logger, cfg, sender, charger, rules, ratesClient)
	h := handler.NewHandler(svc, ratesClient, logger)

	// Start the daily overdue/reminder scans
	cronRunner, err := scheduler.Start(cfg, svc, logger)
	if err != nil {
		logger.Fatalf("Failed to start scheduler: %v", err)
	}
	defer cronRunner.Stop()

	// Setup router
	r := mux.NewRouter()
	// Public routes
	r.HandleFunc("/health", h.Health).Methods("GET")
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")

	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	authRouter.HandleFunc("/plans", h.CreatePlan).Methods("POST")
	authRouter.HandleFunc("/plans", h.ListPlans).Methods("GET")
	authRouter.HandleFunc("/plans/{id:[0-9]+}", h.GetPlan).Methods("GET")
	authRouter.HandleFunc("/plans/{id:[0-9]+}/payments/{number:[0-9]+}/pay", h.PayInstallment).Methods("POST")
	authRouter.HandleFunc("/plans/{id:[0-9]+}/payments/{number:[0-9]+}/autopay", h.AutoPayInstallment).Methods("POST")
	authRouter.HandleFunc("/payments/upcoming", h.UpcomingPayments).Methods("GET")
	authRouter.HandleFunc("/payments/overdue", h.OverduePayments).Methods("GET")
	authRouter.HandleFunc("/notifications", h.Notifications).Methods("GET")

	// Admin routes
	adminRouter := authRouter.PathPrefix("/admin").Subrouter()
	adminRouter.Use(middleware.RequireAdmin)
	adminRouter.HandleFunc("/plans", h.AdminListPlans).Methods("GET")
	adminRouter.HandleFunc("/plans/defaulted", h.AdminDefaultedPlans).Methods("GET")
	adminRouter.HandleFunc("/plans/{id:[0-9]+}/cancel", h.AdminCancelPlan).Methods("POST")
	adminRouter.HandleFunc("/plans/{id:[0-9]+}/restructure", h.AdminRestructurePlan).Methods("POST")
	adminRouter.HandleFunc("/plans/{id:[0-9]+}", h.AdminUpdatePlan).Methods("PATCH")
	adminRouter.HandleFunc("/analytics", h.AdminAnalytics).Methods("GET")
	adminRouter.HandleFunc("/payments/overdue", h.AdminOverduePayments).Methods("GET")
	adminRouter.HandleFunc("/scans/run", h.AdminRunScans).Methods("POST")
	adminRouter.HandleFunc("/reports/collection", h.AdminCollectionReport).Methods("GET")
	adminRouter.HandleFunc("/base-rate", h.BaseRate).Methods("GET")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
