package handler

import (
	"net/http"

	"github.com/mvidal/gastos/internal/models"
)

func (h *Handler) GetSheetsConfig(w http.ResponseWriter, r *http.Request) {
	repo := h.repo(w)
	if repo == nil {
		return
	}

	configs, err := repo.Sheets().FindAll(r.Context())
	if err != nil {
		h.log.Errorf("Failed to load sheets config: %v", err)
		http.Error(w, "failed to load sheets config", http.StatusInternalServerError)
		return
	}
	if len(configs) == 0 {
		http.Error(w, "sheets config not found", http.StatusNotFound)
		return
	}

	config := configs[0]
	config.ClientSecret = ""
	config.AccessToken = ""
	config.RefreshToken = ""
	writeJSON(w, http.StatusOK, config)
}

// SaveSheetsConfig creates or replaces the single spreadsheet config.
func (h *Handler) SaveSheetsConfig(w http.ResponseWriter, r *http.Request) {
	repo := h.repo(w)
	if repo == nil {
		return
	}

	var config models.SheetsConfig
	if err := readJSON(r, &config); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if config.SpreadsheetID == "" || config.SheetName == "" {
		http.Error(w, "spreadsheetId and sheetName are required", http.StatusBadRequest)
		return
	}

	existing, err := repo.Sheets().FindAll(r.Context())
	if err != nil {
		h.log.Errorf("Failed to load sheets config: %v", err)
		http.Error(w, "failed to load sheets config", http.StatusInternalServerError)
		return
	}

	if len(existing) > 0 {
		config.ID = existing[0].ID
		err = repo.Sheets().Update(r.Context(), &config)
	} else {
		err = repo.Sheets().Create(r.Context(), &config)
	}
	if err != nil {
		h.log.Errorf("Failed to save sheets config: %v", err)
		http.Error(w, "failed to save sheets config", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, config)
}

func (h *Handler) ExportToSheets(w http.ResponseWriter, r *http.Request) {
	repo := h.repo(w)
	if repo == nil {
		return
	}

	if err := h.sheets.Export(r.Context(), repo); err != nil {
		h.log.Errorf("Sheets export failed: %v", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ImportFromSheets(w http.ResponseWriter, r *http.Request) {
	repo := h.repo(w)
	if repo == nil {
		return
	}

	if err := h.sheets.Import(r.Context(), repo); err != nil {
		h.log.Errorf("Sheets import failed: %v", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
