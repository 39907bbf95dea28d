package handler

import (
	"net/http"
	"time"

	"github.com/mvidal/gastos/internal/models"
)

// CreateInvestment persists a new position. The maturity date is derived
// from the start date and term here, once; later updates do not re-derive it.
func (h *Handler) CreateInvestment(w http.ResponseWriter, r *http.Request) {
	repo := h.repo(w)
	if repo == nil {
		return
	}

	var inv models.Investment
	if err := readJSON(r, &inv); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if inv.StartDate.IsZero() {
		inv.StartDate = time.Now()
	}
	if inv.MaturityDate.IsZero() {
		inv.MaturityDate = inv.StartDate.AddDate(0, inv.TermMonths, 0)
	}
	if inv.CurrentAmount.IsZero() {
		inv.CurrentAmount = inv.InitialAmount
	}

	if err := repo.Investments().Create(r.Context(), &inv); err != nil {
		h.log.Errorf("Failed to create investment: %v", err)
		http.Error(w, "failed to create investment", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}

func (h *Handler) ListInvestments(w http.ResponseWriter, r *http.Request) {
	repo := h.repo(w)
	if repo == nil {
		return
	}

	var (
		investments []models.Investment
		err         error
	)
	query := r.URL.Query()
	switch {
	case query.Get("type") != "":
		investments, err = repo.Investments().FindByType(r.Context(), models.InvestmentType(query.Get("type")))
	case query.Get("active") == "true":
		investments, err = repo.Investments().FindActive(r.Context())
	default:
		investments, err = repo.Investments().FindAll(r.Context())
	}
	if err != nil {
		h.log.Errorf("Failed to list investments: %v", err)
		http.Error(w, "failed to list investments", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, investments)
}

func (h *Handler) GetInvestment(w http.ResponseWriter, r *http.Request) {
	repo := h.repo(w)
	if repo == nil {
		return
	}
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	inv, err := repo.Investments().FindByID(r.Context(), id)
	if err != nil {
		h.log.Errorf("Failed to load investment %d: %v", id, err)
		http.Error(w, "failed to load investment", http.StatusInternalServerError)
		return
	}
	if inv == nil {
		http.Error(w, "investment not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (h *Handler) UpdateInvestment(w http.ResponseWriter, r *http.Request) {
	repo := h.repo(w)
	if repo == nil {
		return
	}
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var inv models.Investment
	if err := readJSON(r, &inv); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	inv.ID = id

	if err := repo.Investments().Update(r.Context(), &inv); err != nil {
		h.log.Errorf("Failed to update investment %d: %v", id, err)
		http.Error(w, "failed to update investment", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (h *Handler) DeleteInvestment(w http.ResponseWriter, r *http.Request) {
	repo := h.repo(w)
	if repo == nil {
		return
	}
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !repo.Investments().Delete(r.Context(), id) {
		http.Error(w, "failed to delete investment", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RefreshInvestment(w http.ResponseWriter, r *http.Request) {
	repo := h.repo(w)
	if repo == nil {
		return
	}
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	inv, err := repo.Investments().RefreshValue(r.Context(), id)
	if err != nil {
		h.log.Errorf("Failed to refresh investment %d: %v", id, err)
		http.Error(w, "failed to refresh investment", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (h *Handler) RefreshAllInvestments(w http.ResponseWriter, r *http.Request) {
	repo := h.repo(w)
	if repo == nil {
		return
	}

	if err := repo.Investments().RefreshAllValues(r.Context()); err != nil {
		h.log.Errorf("Failed to refresh investments: %v", err)
		http.Error(w, "failed to refresh investments", http.StatusInternalServerError)
		return
	}

	investments, err := repo.Investments().FindActive(r.Context())
	if err != nil {
		h.log.Errorf("Failed to list investments: %v", err)
		http.Error(w, "failed to list investments", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, investments)
}
