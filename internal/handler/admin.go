package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/paylane/installment-service/internal/middleware"
	"github.com/paylane/installment-service/internal/models"
	"github.com/paylane/installment-service/internal/service"
	"github.com/shopspring/decimal"
)

// AdminListPlans returns a page of plans, optionally filtered by ?status=
func (h *Handler) AdminListPlans(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := queryInt(q.Get("limit"), 20)
	offset := queryInt(q.Get("offset"), 0)
	status := models.PlanStatus(q.Get("status"))

	plans, total, err := h.svc.ListPlans(status, limit, offset)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"total": total,
		"plans": plans,
	})
}

// AdminDefaultedPlans returns all defaulted plans
func (h *Handler) AdminDefaultedPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.svc.DefaultedPlans()
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, plans)
}

// AdminAnalytics returns aggregate portfolio statistics
func (h *Handler) AdminAnalytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := h.svc.Analytics()
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, analytics)
}

// AdminOverduePayments lists overdue payments across all customers
func (h *Handler) AdminOverduePayments(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.ListOverduePayments(0)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, out)
}

type cancelPlanRequest struct {
	Reason string `json:"reason"`
}

// AdminCancelPlan cancels a plan
func (h *Handler) AdminCancelPlan(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.UserID(r.Context())
	planID, err := pathID(r, "id")
	if err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid plan id"})
		return
	}

	var req cancelPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	plan, err := h.svc.CancelPlan(planID, req.Reason, actorID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, plan)
}

type restructureRequest struct {
	Terms  int              `json:"terms"`
	Rate   *decimal.Decimal `json:"rate,omitempty"`
	Reason string           `json:"reason"`
}

// AdminRestructurePlan re-amortizes the outstanding balance of a plan
func (h *Handler) AdminRestructurePlan(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.UserID(r.Context())
	planID, err := pathID(r, "id")
	if err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid plan id"})
		return
	}

	var req restructureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	plan, err := h.svc.RestructurePlan(planID, req.Terms, req.Rate, req.Reason, actorID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, plan)
}

type updatePlanRequest struct {
	Status       *string          `json:"status,omitempty"`
	InterestRate *decimal.Decimal `json:"interest_rate,omitempty"`
	Notes        *string          `json:"notes,omitempty"`
}

// AdminUpdatePlan patches plan metadata
func (h *Handler) AdminUpdatePlan(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.UserID(r.Context())
	planID, err := pathID(r, "id")
	if err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid plan id"})
		return
	}

	var req updatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	patch := service.PlanPatch{
		InterestRate: req.InterestRate,
		Notes:        req.Notes,
	}
	if req.Status != nil {
		status := models.PlanStatus(*req.Status)
		patch.Status = &status
	}

	plan, err := h.svc.UpdatePlan(planID, patch, actorID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, plan)
}

// AdminRunScans triggers the overdue and reminder scans immediately
func (h *Handler) AdminRunScans(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	overdue, err := h.svc.RunOverdueScan(now)
	if err != nil {
		h.respondError(w, err)
		return
	}
	reminders, err := h.svc.RunUpcomingReminders(now)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]*service.ScanResult{
		"overdue":   overdue,
		"reminders": reminders,
	})
}

// AdminCollectionReport reports collections within ?from=/&to= (RFC3339 dates)
func (h *Handler) AdminCollectionReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := parseDate(q.Get("from"), time.Now().AddDate(0, -1, 0))
	if err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid from date"})
		return
	}
	to, err := parseDate(q.Get("to"), time.Now())
	if err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid to date"})
		return
	}

	report, err := h.svc.CollectionReport(from, to)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, report)
}

func queryInt(v string, fallback int) int {
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func parseDate(v string, fallback time.Time) (time.Time, error) {
	if v == "" {
		return fallback, nil
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, v)
}
