package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mvidal/gastos/internal/models"
)

func (h *Handler) CreateSavingsGoal(w http.ResponseWriter, r *http.Request) {
	repo := h.repo(w)
	if repo == nil {
		return
	}

	var goal models.SavingsGoal
	if err := readJSON(r, &goal); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if goal.StartDate.IsZero() {
		goal.StartDate = time.Now()
	}

	if err := repo.Savings().Create(r.Context(), &goal); err != nil {
		h.log.Errorf("Failed to create savings goal: %v", err)
		http.Error(w, "failed to create savings goal", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, goal)
}

func (h *Handler) ListSavingsGoals(w http.ResponseWriter, r *http.Request) {
	repo := h.repo(w)
	if repo == nil {
		return
	}

	var (
		goals []models.SavingsGoal
		err   error
	)
	if raw := r.URL.Query().Get("completed"); raw != "" {
		completed, parseErr := strconv.ParseBool(raw)
		if parseErr != nil {
			http.Error(w, "invalid completed value", http.StatusBadRequest)
			return
		}
		goals, err = repo.Savings().FindByStatus(r.Context(), completed)
	} else {
		goals, err = repo.Savings().FindAll(r.Context())
	}
	if err != nil {
		h.log.Errorf("Failed to list savings goals: %v", err)
		http.Error(w, "failed to list savings goals", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, goals)
}

func (h *Handler) GetSavingsGoal(w http.ResponseWriter, r *http.Request) {
	repo := h.repo(w)
	if repo == nil {
		return
	}
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	goal, err := repo.Savings().FindByID(r.Context(), id)
	if err != nil {
		h.log.Errorf("Failed to load savings goal %d: %v", id, err)
		http.Error(w, "failed to load savings goal", http.StatusInternalServerError)
		return
	}
	if goal == nil {
		http.Error(w, "savings goal not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (h *Handler) UpdateSavingsGoal(w http.ResponseWriter, r *http.Request) {
	repo := h.repo(w)
	if repo == nil {
		return
	}
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var goal models.SavingsGoal
	if err := readJSON(r, &goal); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	goal.ID = id

	if err := repo.Savings().Update(r.Context(), &goal); err != nil {
		h.log.Errorf("Failed to update savings goal %d: %v", id, err)
		http.Error(w, "failed to update savings goal", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (h *Handler) DeleteSavingsGoal(w http.ResponseWriter, r *http.Request) {
	repo := h.repo(w)
	if repo == nil {
		return
	}
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !repo.Savings().Delete(r.Context(), id) {
		http.Error(w, "failed to delete savings goal", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateSavingsAmount records progress toward a goal and returns the goal
// with its completion state and target date recomputed.
func (h *Handler) UpdateSavingsAmount(w http.ResponseWriter, r *http.Request) {
	repo := h.repo(w)
	if repo == nil {
		return
	}
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var body struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := readJSON(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	goal, err := repo.Savings().UpdateAmount(r.Context(), id, body.Amount)
	if err != nil {
		h.log.Errorf("Failed to update savings amount for goal %d: %v", id, err)
		http.Error(w, "failed to update savings amount", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}
