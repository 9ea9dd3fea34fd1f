package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"domainwatch/internal/db"
	"domainwatch/internal/models"
)

var errEmptyHostname = errors.New("hostname is required")

// DomainHandler handles domain management API requests
type DomainHandler struct {
	DB *sql.DB
}

// NewDomainHandler creates a new domain handler
func NewDomainHandler(database *sql.DB) *DomainHandler {
	return &DomainHandler{DB: database}
}

type domainRequest struct {
	Hostname       string `json:"hostname"`
	SSLDanger      *int64 `json:"ssl_danger"`
	SSLWarning     *int64 `json:"ssl_warning"`
	DomainDanger   *int64 `json:"domain_danger"`
	DomainWarning  *int64 `json:"domain_warning"`
	MonitorSSL     *bool  `json:"monitor_ssl"`
	MonitorDomain  *bool  `json:"monitor_domain"`
	NotifyWarning  *bool  `json:"notify_on_warning"`
	NotifyCritical *bool  `json:"notify_on_critical"`
}

// ListDomains handles GET /api/domains
func (h *DomainHandler) ListDomains(w http.ResponseWriter, r *http.Request) {
	domains, err := db.ListDomains(h.DB)
	if err != nil {
		respondError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	out := make([]map[string]interface{}, 0, len(domains))
	for i := range domains {
		out = append(out, domainJSON(&domains[i]))
	}
	respondJSON(w, out)
}

// GetDomain handles GET /api/domains/{id}
func (h *DomainHandler) GetDomain(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, "invalid domain id", http.StatusBadRequest)
		return
	}

	domain, err := db.GetDomain(h.DB, id)
	if err != nil {
		respondError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if domain == nil {
		respondError(w, "domain not found", http.StatusNotFound)
		return
	}
	respondJSON(w, domainJSON(domain))
}

// CreateDomain handles POST /api/domains
func (h *DomainHandler) CreateDomain(w http.ResponseWriter, r *http.Request) {
	var req domainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	domain, err := req.toDomain()
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	id, err := db.CreateDomain(h.DB, domain)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			respondError(w, "domain already exists", http.StatusConflict)
			return
		}
		respondError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	domain.ID = id

	respondJSONStatus(w, http.StatusCreated, domainJSON(domain))
}

// UpdateDomain handles PUT /api/domains/{id}
func (h *DomainHandler) UpdateDomain(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, "invalid domain id", http.StatusBadRequest)
		return
	}

	existing, err := db.GetDomain(h.DB, id)
	if err != nil {
		respondError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if existing == nil {
		respondError(w, "domain not found", http.StatusNotFound)
		return
	}

	var req domainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Hostname == "" {
		req.Hostname = existing.Hostname
	}

	domain, err := req.toDomain()
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}
	domain.ID = id

	if err := db.UpdateDomain(h.DB, domain); err != nil {
		respondError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, domainJSON(domain))
}

// DeleteDomain handles DELETE /api/domains/{id}
// History rows for the domain are removed by the cascade.
func (h *DomainHandler) DeleteDomain(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, "invalid domain id", http.StatusBadRequest)
		return
	}

	if err := db.DeleteDomain(h.DB, id); err != nil {
		if strings.Contains(err.Error(), "not found") {
			respondError(w, "domain not found", http.StatusNotFound)
			return
		}
		respondError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, map[string]string{"status": "deleted"})
}

// GetDomainHistory handles GET /api/domains/{id}/history
func (h *DomainHandler) GetDomainHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, "invalid domain id", http.StatusBadRequest)
		return
	}

	limit := 50
	records, err := db.DomainHistory(h.DB, id, limit)
	if err != nil {
		respondError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []models.HistoryRecord{}
	}
	respondJSON(w, records)
}

func (req *domainRequest) toDomain() (*models.Domain, error) {
	hostname := db.NormalizeHostname(req.Hostname)
	if hostname == "" {
		return nil, errEmptyHostname
	}

	d := &models.Domain{
		Hostname:       hostname,
		SSLDanger:      toNullInt(req.SSLDanger),
		SSLWarning:     toNullInt(req.SSLWarning),
		DomainDanger:   toNullInt(req.DomainDanger),
		DomainWarning:  toNullInt(req.DomainWarning),
		MonitorSSL:     boolOr(req.MonitorSSL, true),
		MonitorDomain:  boolOr(req.MonitorDomain, true),
		NotifyWarning:  boolOr(req.NotifyWarning, true),
		NotifyCritical: boolOr(req.NotifyCritical, true),
	}
	return d, nil
}

func domainJSON(d *models.Domain) map[string]interface{} {
	return map[string]interface{}{
		"id":                 d.ID,
		"hostname":           d.Hostname,
		"overrides":          d.Overrides(),
		"monitor_ssl":        d.MonitorSSL,
		"monitor_domain":     d.MonitorDomain,
		"notify_on_warning":  d.NotifyWarning,
		"notify_on_critical": d.NotifyCritical,
		"created_at":         d.CreatedAt,
	}
}

func toNullInt(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func boolOr(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}
