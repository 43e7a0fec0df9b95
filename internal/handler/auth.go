package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type registerRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Email == "" || req.Password == "" || req.FirstName == "" {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "email, first_name and password are required"})
		return
	}

	user, err := h.svc.Register(req.Email, req.FirstName, req.LastName, req.Password)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, user)
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	token, err := h.svc.Login(req.Email, req.Password)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// BaseRate returns the current reference financing rate.
func (h *Handler) BaseRate(w http.ResponseWriter, r *http.Request) {
	rate, err := h.rates.GetBaseRate()
	if err != nil {
		h.respondJSON(w, http.StatusBadGateway, map[string]string{"error": fmt.Sprintf("failed to get base rate: %v", err)})
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]float64{"base_rate": rate})
}
