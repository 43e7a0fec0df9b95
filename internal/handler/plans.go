package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/paylane/installment-service/internal/middleware"
	"github.com/paylane/installment-service/internal/models"
	"github.com/paylane/installment-service/internal/service"
	"github.com/shopspring/decimal"
)

type createPlanRequest struct {
	OrderID     int64           `json:"order_id"`
	Terms       int             `json:"terms"`
	DownPayment decimal.Decimal `json:"down_payment"`
	StartDate   *time.Time      `json:"start_date,omitempty"`
	Frequency   string          `json:"frequency,omitempty"`
}

// CreatePlan handles installment plan creation for the authenticated customer
func (h *Handler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		h.respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	var req createPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	plan, err := h.svc.CreatePlan(userID, service.CreatePlanInput{
		OrderID:     req.OrderID,
		Terms:       req.Terms,
		DownPayment: req.DownPayment,
		StartDate:   req.StartDate,
		Frequency:   models.PaymentFrequency(req.Frequency),
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, plan)
}

// GetPlan returns one plan; the requester must own it or be an admin.
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	planID, err := pathID(r, "id")
	if err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid plan id"})
		return
	}

	plan, err := h.svc.GetPlan(planID, userID, middleware.IsAdmin(r.Context()))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, plan)
}

// ListPlans returns the authenticated customer's plans.
func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	plans, err := h.svc.ListPlansByCustomer(userID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, plans)
}

// Notifications returns the authenticated user's notifications.
func (h *Handler) Notifications(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	out, err := h.svc.Notifications(userID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, out)
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}
