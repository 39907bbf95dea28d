package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/mvidal/gastos/internal/models"
)

// CreateExpense persists a new expense. A recurring expense arriving without
// a payment history gets a twelve month schedule pre-populated.
func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	repo := h.repo(w)
	if repo == nil {
		return
	}

	var expense models.Expense
	if err := readJSON(r, &expense); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !expense.Frequency.Valid() {
		http.Error(w, "unknown frequency", http.StatusBadRequest)
		return
	}

	if expense.Frequency != models.FrequencyOneTime && len(expense.PaymentHistory) == 0 {
		start := expense.Date
		if expense.NextPaymentDate != nil {
			start = *expense.NextPaymentDate
		}
		expense.PaymentHistory = models.NewPaymentSchedule(start, expense.Amount)
	}

	if err := repo.Expenses().Create(r.Context(), &expense); err != nil {
		h.log.Errorf("Failed to create expense: %v", err)
		http.Error(w, "failed to create expense", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, expense)
}

func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	repo := h.repo(w)
	if repo == nil {
		return
	}

	var (
		expenses []models.Expense
		err      error
	)
	query := r.URL.Query()
	switch {
	case query.Get("category") != "":
		expenses, err = repo.Expenses().FindByCategory(r.Context(), query.Get("category"))
	case query.Get("frequency") != "":
		expenses, err = repo.Expenses().FindByFrequency(r.Context(), models.Frequency(query.Get("frequency")))
	case query.Get("isPaid") != "":
		isPaid, parseErr := strconv.ParseBool(query.Get("isPaid"))
		if parseErr != nil {
			http.Error(w, "invalid isPaid value", http.StatusBadRequest)
			return
		}
		expenses, err = repo.Expenses().FindByPaidStatus(r.Context(), isPaid)
	default:
		expenses, err = repo.Expenses().FindAll(r.Context())
	}
	if err != nil {
		h.log.Errorf("Failed to list expenses: %v", err)
		http.Error(w, "failed to list expenses", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

// ExpensesByMonth returns the projected view for the month in the date query
// parameter, formatted 2006-01. Missing parameter means the current month.
func (h *Handler) ExpensesByMonth(w http.ResponseWriter, r *http.Request) {
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

	expenses, err := repo.Expenses().FindByMonth(r.Context(), month)
	if err != nil {
		h.log.Errorf("Failed to project expenses: %v", err)
		http.Error(w, "failed to project expenses", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (h *Handler) UpcomingExpenses(w http.ResponseWriter, r *http.Request) {
	repo := h.repo(w)
	if repo == nil {
		return
	}

	months := 1
	if raw := r.URL.Query().Get("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, "months must be a positive integer", http.StatusBadRequest)
			return
		}
		months = parsed
	}

	expenses, err := repo.Expenses().Upcoming(r.Context(), months)
	if err != nil {
		h.log.Errorf("Failed to list upcoming expenses: %v", err)
		http.Error(w, "failed to list upcoming expenses", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (h *Handler) GetExpense(w http.ResponseWriter, r *http.Request) {
	repo := h.repo(w)
	if repo == nil {
		return
	}
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	expense, err := repo.Expenses().FindByID(r.Context(), id)
	if err != nil {
		h.log.Errorf("Failed to load expense %d: %v", id, err)
		http.Error(w, "failed to load expense", http.StatusInternalServerError)
		return
	}
	if expense == nil {
		http.Error(w, "expense not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	repo := h.repo(w)
	if repo == nil {
		return
	}
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var expense models.Expense
	if err := readJSON(r, &expense); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !expense.Frequency.Valid() {
		http.Error(w, "unknown frequency", http.StatusBadRequest)
		return
	}
	expense.ID = id

	if err := repo.Expenses().Update(r.Context(), &expense); err != nil {
		h.log.Errorf("Failed to update expense %d: %v", id, err)
		http.Error(w, "failed to update expense", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	repo := h.repo(w)
	if repo == nil {
		return
	}
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !repo.Expenses().Delete(r.Context(), id) {
		http.Error(w, "failed to delete expense", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
