package handlers

import (
	"database/sql"
	"net/http"

	"domainwatch/internal/check"
	"domainwatch/internal/db"
	"domainwatch/internal/models"
)

// CheckHandler exposes the check scheduler and latest statuses
type CheckHandler struct {
	DB        *sql.DB
	Scheduler *check.Scheduler
}

// NewCheckHandler creates a new check handler
func NewCheckHandler(database *sql.DB, scheduler *check.Scheduler) *CheckHandler {
	return &CheckHandler{DB: database, Scheduler: scheduler}
}

// RunNow handles POST /api/check/run
// Queues a run and returns immediately; the run itself happens on the
// scheduler goroutine.
func (h *CheckHandler) RunNow(w http.ResponseWriter, r *http.Request) {
	if h.Scheduler.TriggerNow() {
		respondJSONStatus(w, http.StatusAccepted, map[string]string{"status": "queued"})
		return
	}
	respondJSONStatus(w, http.StatusAccepted, map[string]string{"status": "already queued"})
}

// GetStatus handles GET /api/check/status
func (h *CheckHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.Scheduler.Status())
}

// GetLatestStatuses handles GET /api/status
// Returns the per-domain status derived from each domain's most recent
// history row.
func (h *CheckHandler) GetLatestStatuses(w http.ResponseWriter, r *http.Request) {
	statuses, err := db.LatestStatuses(h.DB)
	if err != nil {
		respondError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if statuses == nil {
		statuses = []models.DomainStatus{}
	}
	respondJSON(w, statuses)
}
