package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"domainwatch/internal/settings"
)

// SettingsHandler handles settings-related API requests
type SettingsHandler struct {
	DB *sql.DB
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(database *sql.DB) *SettingsHandler {
	return &SettingsHandler{DB: database}
}

// GetAllSettings handles GET /api/settings
// Returns all settings, optionally grouped by category
func (h *SettingsHandler) GetAllSettings(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("grouped") == "true" {
		grouped, err := settings.GetSettingsGrouped(h.DB)
		if err != nil {
			respondError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		respondJSON(w, grouped)
		return
	}

	all, err := settings.GetAllSettings(h.DB)
	if err != nil {
		respondError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, all)
}

// GetSettingsByCategory handles GET /api/settings/{category}
func (h *SettingsHandler) GetSettingsByCategory(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")
	if category == "" {
		respondError(w, "category is required", http.StatusBadRequest)
		return
	}

	list, err := settings.GetSettingsByCategory(h.DB, category)
	if err != nil {
		respondError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if len(list) == 0 {
		respondError(w, "category not found", http.StatusNotFound)
		return
	}
	respondJSON(w, list)
}

// UpdateSetting handles PUT /api/settings/{category}/{key}
func (h *SettingsHandler) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")
	key := r.PathValue("key")
	if category == "" || key == "" {
		respondError(w, "category and key are required", http.StatusBadRequest)
		return
	}

	var update settings.SettingUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respondError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	if err := settings.UpdateSetting(h.DB, category, key, update.Value); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	setting, err := settings.GetSetting(h.DB, category, key)
	if err != nil {
		respondError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, setting)
}

// ResetCategory handles POST /api/settings/{category}/reset
func (h *SettingsHandler) ResetCategory(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")
	if category == "" {
		respondError(w, "category is required", http.StatusBadRequest)
		return
	}

	if err := settings.ResetCategoryToDefaults(h.DB, category); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	list, err := settings.GetSettingsByCategory(h.DB, category)
	if err != nil {
		respondError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, list)
}
