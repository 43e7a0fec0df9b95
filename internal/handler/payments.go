package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/paylane/installment-service/internal/middleware"
)

type payRequest struct {
	Method    string `json:"method"`
	Reference string `json:"reference,omitempty"`
}

// PayInstallment processes a customer-initiated payment on an installment
func (h *Handler) PayInstallment(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	planID, number, err := planAndNumber(r)
	if err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid path parameters"})
		return
	}

	// Ownership check before touching the payment.
	if _, err := h.svc.GetPlan(planID, userID, middleware.IsAdmin(r.Context())); err != nil {
		h.respondError(w, err)
		return
	}

	var req payRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Method == "" {
		req.Method = "manual"
	}

	plan, err := h.svc.ProcessPayment(planID, number, req.Method, req.Reference)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, plan)
}

// AutoPayInstallment charges the stored payment method for an installment
func (h *Handler) AutoPayInstallment(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	planID, number, err := planAndNumber(r)
	if err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid path parameters"})
		return
	}

	if _, err := h.svc.GetPlan(planID, userID, middleware.IsAdmin(r.Context())); err != nil {
		h.respondError(w, err)
		return
	}

	plan, err := h.svc.ProcessAutoPayment(planID, number)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, plan)
}

// UpcomingPayments lists the customer's payments due within ?days (default 7)
func (h *Handler) UpcomingPayments(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	days := 7
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid days parameter"})
			return
		}
		days = n
	}

	out, err := h.svc.ListUpcomingPayments(userID, days)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, out)
}

// OverduePayments lists the authenticated customer's overdue payments
func (h *Handler) OverduePayments(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	out, err := h.svc.ListOverduePayments(userID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, out)
}

func planAndNumber(r *http.Request) (int64, int, error) {
	vars := mux.Vars(r)
	planID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		return 0, 0, err
	}
	number, err := strconv.Atoi(vars["number"])
	if err != nil {
		return 0, 0, err
	}
	return planID, number, nil
}
