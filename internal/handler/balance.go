package handler

import (
	"net/http"
	"time"

	"github.com/mvidal/gastos/internal/models"
)

func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	repo := h.repo(w)
	if repo == nil {
		return
	}

	balance, err := repo.Balance().Current(r.Context())
	if err != nil {
		h.log.Errorf("Failed to load balance: %v", err)
		http.Error(w, "failed to load balance", http.StatusInternalServerError)
		return
	}
	if balance == nil {
		http.Error(w, "no balance recorded yet", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

func (h *Handler) UpsertBalance(w http.ResponseWriter, r *http.Request) {
	repo := h.repo(w)
	if repo == nil {
		return
	}

	var balance models.Balance
	if err := readJSON(r, &balance); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if balance.Date.IsZero() {
		balance.Date = time.Now()
	}

	if err := repo.Balance().Upsert(r.Context(), &balance); err != nil {
		h.log.Errorf("Failed to save balance: %v", err)
		http.Error(w, "failed to save balance", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

// MonthlyBalance answers balance + income - projected expenses for the month
// in the date query parameter (2006-01, defaults to the current month).
func (h *Handler) MonthlyBalance(w http.ResponseWriter, r *http.Request) {
	repo := h.repo(w)
	if repo == nil {
		return
	}

	month := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01", raw)
		if err != nil {
			http.Error(w, "date must be formatted YYYY-MM", http.StatusBadRequest)
			return
		}
		month = parsed
	}

	amount, err := repo.Balance().MonthlyBalance(r.Context(), month)
	if err != nil {
		h.log.Errorf("Failed to compute monthly balance: %v", err)
		http.Error(w, "failed to compute monthly balance", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"month":   month.Format("2006-01"),
		"balance": amount,
	})
}
