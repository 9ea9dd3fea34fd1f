package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"testing"

	"domainwatch/internal/settings"

	_ "modernc.org/sqlite"
)

func setupSettingsTest(t *testing.T) *http.ServeMux {
	t.Helper()
	database, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	database.SetMaxOpenConns(1)
	t.Cleanup(func() { database.Close() })

	if err := settings.InitSettingsTable(database); err != nil {
		t.Fatalf("Failed to initialize settings: %v", err)
	}

	h := NewSettingsHandler(database)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/settings", h.GetAllSettings)
	mux.HandleFunc("GET /api/settings/{category}", h.GetSettingsByCategory)
	mux.HandleFunc("PUT /api/settings/{category}/{key}", h.UpdateSetting)
	mux.HandleFunc("POST /api/settings/{category}/reset", h.ResetCategory)
	return mux
}

func TestGetSettingsGroupedQuery(t *testing.T) {
	mux := setupSettingsTest(t)

	rec := doJSON(t, mux, "GET", "/api/settings?grouped=true", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var grouped map[string][]settings.Setting
	if err := json.Unmarshal(rec.Body.Bytes(), &grouped); err != nil {
		t.Fatalf("response not grouped: %v", err)
	}
	if len(grouped["thresholds"]) == 0 {
		t.Error("expected thresholds category in grouped response")
	}
}

func TestUpdateSettingEndpoint(t *testing.T) {
	mux := setupSettingsTest(t)

	rec := doJSON(t, mux, "PUT", "/api/settings/thresholds/ssl_warning_days",
		map[string]string{"value": "14"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var got settings.Setting
	json.Unmarshal(rec.Body.Bytes(), &got)
	if got.Value != "14" {
		t.Errorf("value = %q, want 14", got.Value)
	}
}

func TestUpdateSettingRejectsBadValue(t *testing.T) {
	mux := setupSettingsTest(t)

	rec := doJSON(t, mux, "PUT", "/api/settings/thresholds/ssl_warning_days",
		map[string]string{"value": "soon"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, mux, "PUT", "/api/settings/scheduler/check_interval_hours",
		map[string]string{"value": "0"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("zero interval status = %d, want 400", rec.Code)
	}
}

func TestResetCategoryEndpoint(t *testing.T) {
	mux := setupSettingsTest(t)

	doJSON(t, mux, "PUT", "/api/settings/thresholds/ssl_danger_days",
		map[string]string{"value": "1"})

	rec := doJSON(t, mux, "POST", "/api/settings/thresholds/reset", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var list []settings.Setting
	json.Unmarshal(rec.Body.Bytes(), &list)
	for _, s := range list {
		if s.Key == "ssl_danger_days" && s.Value != "7" {
			t.Errorf("ssl_danger_days = %q after reset, want 7", s.Value)
		}
	}
}

func TestGetUnknownCategory(t *testing.T) {
	mux := setupSettingsTest(t)

	rec := doJSON(t, mux, "GET", "/api/settings/bogus", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
