package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/paylane/installment-service/internal/integrations/rates"
	"github.com/paylane/installment-service/internal/service"
	"github.com/paylane/installment-service/internal/store"
	"github.com/sirupsen/logrus"
)

// Handler exposes the service over HTTP.
type Handler struct {
	svc   *service.Service
	rates *rates.Client
	log   *logrus.Logger
}

// NewHandler initializes a new handler
func NewHandler(svc *service.Service, ratesClient *rates.Client, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, rates: ratesClient, log: log}
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			h.log.Errorf("Failed to encode response: %v", err)
		}
	}
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	h.respondJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrPlanNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrPaymentNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrOrderAlreadyHasPlan),
		errors.Is(err, service.ErrAlreadyTerminal),
		errors.Is(err, service.ErrPaymentAlreadyProcessed),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, store.ErrVersionConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidPrincipal),
		errors.Is(err, service.ErrInvalidTermCount),
		errors.Is(err, service.ErrInvalidFrequency),
		errors.Is(err, service.ErrInvalidDownPayment),
		errors.Is(err, service.ErrInstallmentNotEligible),
		errors.Is(err, service.ErrBelowMinimumAmount),
		errors.Is(err, service.ErrTermNotAvailable):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrPaymentProcessingFailed),
		errors.Is(err, service.ErrRateUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
