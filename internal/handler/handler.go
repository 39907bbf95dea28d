// Package handler exposes the HTTP API.
package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/mvidal/gastos/internal/backend"
	"github.com/mvidal/gastos/internal/dbsync"
	"github.com/mvidal/gastos/internal/repository"
	"github.com/mvidal/gastos/internal/sheets"
)

type Handler struct {
	manager *backend.Manager
	sheets  *sheets.Service
	sync    *dbsync.Service
	log     *logrus.Logger
}

func NewHandler(manager *backend.Manager, sheetsSvc *sheets.Service, syncSvc *dbsync.Service, log *logrus.Logger) *Handler {
	return &Handler{manager: manager, sheets: sheetsSvc, sync: syncSvc, log: log}
}

// Routes builds the API router.
func (h *Handler) Routes() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/expenses", h.CreateExpense).Methods("POST")
	api.HandleFunc("/expenses", h.ListExpenses).Methods("GET")
	api.HandleFunc("/expenses/month", h.ExpensesByMonth).Methods("GET")
	api.HandleFunc("/expenses/upcoming", h.UpcomingExpenses).Methods("GET")
	api.HandleFunc("/expenses/{id:[0-9]+}", h.GetExpense).Methods("GET")
	api.HandleFunc("/expenses/{id:[0-9]+}", h.UpdateExpense).Methods("PUT")
	api.HandleFunc("/expenses/{id:[0-9]+}", h.DeleteExpense).Methods("DELETE")

	api.HandleFunc("/balance", h.GetBalance).Methods("GET")
	api.HandleFunc("/balance", h.UpsertBalance).Methods("PUT")
	api.HandleFunc("/balance/monthly", h.MonthlyBalance).Methods("GET")

	api.HandleFunc("/savings", h.CreateSavingsGoal).Methods("POST")
	api.HandleFunc("/savings", h.ListSavingsGoals).Methods("GET")
	api.HandleFunc("/savings/{id:[0-9]+}", h.GetSavingsGoal).Methods("GET")
	api.HandleFunc("/savings/{id:[0-9]+}", h.UpdateSavingsGoal).Methods("PUT")
	api.HandleFunc("/savings/{id:[0-9]+}", h.DeleteSavingsGoal).Methods("DELETE")
	api.HandleFunc("/savings/{id:[0-9]+}/amount", h.UpdateSavingsAmount).Methods("PUT")

	api.HandleFunc("/investments", h.CreateInvestment).Methods("POST")
	api.HandleFunc("/investments", h.ListInvestments).Methods("GET")
	api.HandleFunc("/investments/refresh", h.RefreshAllInvestments).Methods("POST")
	api.HandleFunc("/investments/{id:[0-9]+}", h.GetInvestment).Methods("GET")
	api.HandleFunc("/investments/{id:[0-9]+}", h.UpdateInvestment).Methods("PUT")
	api.HandleFunc("/investments/{id:[0-9]+}", h.DeleteInvestment).Methods("DELETE")
	api.HandleFunc("/investments/{id:[0-9]+}/refresh", h.RefreshInvestment).Methods("POST")

	api.HandleFunc("/sheets/config", h.GetSheetsConfig).Methods("GET")
	api.HandleFunc("/sheets/config", h.SaveSheetsConfig).Methods("PUT")
	api.HandleFunc("/sheets/export", h.ExportToSheets).Methods("POST")
	api.HandleFunc("/sheets/import", h.ImportFromSheets).Methods("POST")

	api.HandleFunc("/database/export", h.ExportDatabase).Methods("GET")
	api.HandleFunc("/database/import", h.ImportDatabase).Methods("POST")
	api.HandleFunc("/database/clear", h.ClearDatabase).Methods("POST")
	api.HandleFunc("/database/backup", h.BackupDatabase).Methods("GET")
	api.HandleFunc("/database/restore", h.RestoreDatabase).Methods("POST")

	api.HandleFunc("/backend", h.GetBackend).Methods("GET")
	api.HandleFunc("/backend", h.SetBackend).Methods("PUT")

	api.HandleFunc("/sync", h.SyncDirectional).Methods("POST")
	api.HandleFunc("/sync/auto", h.SyncAuto).Methods("POST")
	api.HandleFunc("/sync/metadata", h.SyncMetadata).Methods("GET")

	return r
}

// repo resolves the active backend, answering 503 when none can be opened.
func (h *Handler) repo(w http.ResponseWriter) repository.Repository {
	repo, err := h.manager.Current()
	if err != nil {
		h.log.Errorf("No backend available: %v", err)
		http.Error(w, "storage backend unavailable", http.StatusServiceUnavailable)
		return nil
	}
	return repo
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id: %w", err)
	}
	return id, nil
}
