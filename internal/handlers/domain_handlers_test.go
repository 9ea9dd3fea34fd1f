package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"domainwatch/internal/db"
	"domainwatch/internal/settings"

	_ "modernc.org/sqlite"
)

func setupHandlerTest(t *testing.T) (*sql.DB, *http.ServeMux) {
	t.Helper()
	database, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	database.SetMaxOpenConns(1)
	t.Cleanup(func() { database.Close() })

	if _, err := database.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}
	if err := db.CreateSchema(database); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	if err := settings.InitSettingsTable(database); err != nil {
		t.Fatalf("Failed to initialize settings: %v", err)
	}

	h := NewDomainHandler(database)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/domains", h.ListDomains)
	mux.HandleFunc("POST /api/domains", h.CreateDomain)
	mux.HandleFunc("GET /api/domains/{id}", h.GetDomain)
	mux.HandleFunc("PUT /api/domains/{id}", h.UpdateDomain)
	mux.HandleFunc("DELETE /api/domains/{id}", h.DeleteDomain)
	mux.HandleFunc("GET /api/domains/{id}/history", h.GetDomainHistory)
	return database, mux
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestCreateDomainNormalizesHostname(t *testing.T) {
	_, mux := setupHandlerTest(t)

	rec := doJSON(t, mux, "POST", "/api/domains", map[string]interface{}{
		"hostname": "https://WWW.Example.COM/login",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var got map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &got)
	if got["hostname"] != "example.com" {
		t.Errorf("hostname = %v, want example.com", got["hostname"])
	}
	// Toggles default to enabled.
	if got["monitor_ssl"] != true || got["notify_on_critical"] != true {
		t.Errorf("toggle defaults wrong: %v", got)
	}
}

func TestCreateDomainRejectsEmpty(t *testing.T) {
	_, mux := setupHandlerTest(t)

	rec := doJSON(t, mux, "POST", "/api/domains", map[string]interface{}{"hostname": "https://"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCreateDomainConflict(t *testing.T) {
	_, mux := setupHandlerTest(t)

	doJSON(t, mux, "POST", "/api/domains", map[string]interface{}{"hostname": "example.com"})
	rec := doJSON(t, mux, "POST", "/api/domains", map[string]interface{}{"hostname": "www.example.com"})
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409 for normalized duplicate", rec.Code)
	}
}

func TestGetDomainNotFoundStatus(t *testing.T) {
	_, mux := setupHandlerTest(t)

	rec := doJSON(t, mux, "GET", "/api/domains/99", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}

	rec = doJSON(t, mux, "GET", "/api/domains/abc", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for non-numeric id", rec.Code)
	}
}

func TestUpdateDomainZeroOverride(t *testing.T) {
	_, mux := setupHandlerTest(t)

	doJSON(t, mux, "POST", "/api/domains", map[string]interface{}{"hostname": "example.com"})

	rec := doJSON(t, mux, "PUT", "/api/domains/1", map[string]interface{}{
		"hostname":   "example.com",
		"ssl_danger": 0,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var got map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &got)
	overrides := got["overrides"].(map[string]interface{})
	if overrides["ssl_danger"] != float64(0) {
		t.Errorf("ssl_danger override = %v, want explicit 0", overrides["ssl_danger"])
	}
	if overrides["ssl_warning"] != nil {
		t.Errorf("ssl_warning override = %v, want null", overrides["ssl_warning"])
	}
}

func TestDeleteDomain(t *testing.T) {
	_, mux := setupHandlerTest(t)

	doJSON(t, mux, "POST", "/api/domains", map[string]interface{}{"hostname": "example.com"})

	rec := doJSON(t, mux, "DELETE", "/api/domains/1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	rec = doJSON(t, mux, "DELETE", "/api/domains/1", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

func TestListDomainsEmpty(t *testing.T) {
	_, mux := setupHandlerTest(t)

	rec := doJSON(t, mux, "GET", "/api/domains", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := rec.Body.String(); body == "null\n" {
		t.Errorf("empty list should encode as [], got %q", body)
	}
}

func TestGetDomainHistoryEmpty(t *testing.T) {
	_, mux := setupHandlerTest(t)

	doJSON(t, mux, "POST", "/api/domains", map[string]interface{}{"hostname": "example.com"})

	rec := doJSON(t, mux, "GET", "/api/domains/1/history", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var records []interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
		t.Fatalf("history response not a list: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected empty history, got %d rows", len(records))
	}
}
