package handler

import (
	"io"
	"net/http"

	"github.com/mvidal/gastos/internal/models"
)

func (h *Handler) ExportDatabase(w http.ResponseWriter, r *http.Request) {
	repo := h.repo(w)
	if repo == nil {
		return
	}

	export, err := repo.ExportData(r.Context())
	if err != nil {
		h.log.Errorf("Failed to export database: %v", err)
		http.Error(w, "failed to export database", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, export)
}

func (h *Handler) ImportDatabase(w http.ResponseWriter, r *http.Request) {
	repo := h.repo(w)
	if repo == nil {
		return
	}

	var data models.DataExport
	if err := readJSON(r, &data); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := repo.ImportData(r.Context(), &data); err != nil {
		h.log.Errorf("Failed to import database: %v", err)
		http.Error(w, "failed to import database", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"imported": data.TotalRecords()})
}

func (h *Handler) ClearDatabase(w http.ResponseWriter, r *http.Request) {
	repo := h.repo(w)
	if repo == nil {
		return
	}

	if err := repo.ClearAll(r.Context()); err != nil {
		h.log.Errorf("Failed to clear database: %v", err)
		http.Error(w, "failed to clear database", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BackupDatabase streams the self-describing JSON backup document.
func (h *Handler) BackupDatabase(w http.ResponseWriter, r *http.Request) {
	repo := h.repo(w)
	if repo == nil {
		return
	}

	backup, err := repo.Backup(r.Context())
	if err != nil {
		h.log.Errorf("Failed to back up database: %v", err)
		http.Error(w, "failed to back up database", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="gastos-backup.json"`)
	io.WriteString(w, backup)
}

func (h *Handler) RestoreDatabase(w http.ResponseWriter, r *http.Request) {
	repo := h.repo(w)
	if repo == nil {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read backup", http.StatusBadRequest)
		return
	}

	if err := repo.Restore(r.Context(), string(body)); err != nil {
		h.log.Errorf("Failed to restore database: %v", err)
		http.Error(w, "failed to restore database", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetBackend(w http.ResponseWriter, r *http.Request) {
	repo := h.repo(w)
	if repo == nil {
		return
	}
	writeJSON(w, http.StatusOK, map[string]models.BackendType{"active": repo.Type()})
}

// SetBackend persists the backend preference and switches to it.
func (h *Handler) SetBackend(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Type models.BackendType `json:"type"`
	}
	if err := readJSON(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !body.Type.Valid() {
		http.Error(w, "type must be local or remote", http.StatusBadRequest)
		return
	}

	repo, err := h.manager.SetPreferred(body.Type)
	if err != nil {
		h.log.Errorf("Failed to switch backend: %v", err)
		http.Error(w, "failed to switch backend", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]models.BackendType{"active": repo.Type()})
}

// SyncDirectional copies all data in the direction named by the request.
func (h *Handler) SyncDirectional(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Direction models.SyncStrategy `json:"direction"`
	}
	if err := readJSON(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if body.Direction != models.SyncLocalToRemote && body.Direction != models.SyncRemoteToLocal {
		http.Error(w, "direction must be local-to-remote or remote-to-local", http.StatusBadRequest)
		return
	}

	local, remote, release, err := h.manager.PairForSync()
	if err != nil {
		h.log.Errorf("Failed to open sync pair: %v", err)
		http.Error(w, "failed to open both backends", http.StatusServiceUnavailable)
		return
	}
	defer release()

	var result *models.SyncResult
	if body.Direction == models.SyncLocalToRemote {
		result = h.sync.SyncWithDirection(r.Context(), local, remote)
	} else {
		result = h.sync.SyncWithDirection(r.Context(), remote, local)
	}
	writeJSON(w, http.StatusOK, result)
}

// SyncAuto lets the service pick the direction from both sides' metadata.
func (h *Handler) SyncAuto(w http.ResponseWriter, r *http.Request) {
	local, remote, release, err := h.manager.PairForSync()
	if err != nil {
		h.log.Errorf("Failed to open sync pair: %v", err)
		http.Error(w, "failed to open both backends", http.StatusServiceUnavailable)
		return
	}
	defer release()

	result := h.sync.Sync(r.Context(), local, remote, "")
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) SyncMetadata(w http.ResponseWriter, r *http.Request) {
	local, remote, release, err := h.manager.PairForSync()
	if err != nil {
		h.log.Errorf("Failed to open sync pair: %v", err)
		http.Error(w, "failed to open both backends", http.StatusServiceUnavailable)
		return
	}
	defer release()

	localMeta, err := h.sync.Metadata(r.Context(), local)
	if err != nil {
		h.log.Errorf("Failed to summarize local backend: %v", err)
		http.Error(w, "failed to summarize local backend", http.StatusInternalServerError)
		return
	}
	remoteMeta, err := h.sync.Metadata(r.Context(), remote)
	if err != nil {
		h.log.Errorf("Failed to summarize remote backend: %v", err)
		http.Error(w, "failed to summarize remote backend", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"local":    localMeta,
		"remote":   remoteMeta,
		"strategy": h.sync.CompareMetadata(localMeta, remoteMeta),
	})
}
