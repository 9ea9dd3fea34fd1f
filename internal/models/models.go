package models

import (
	"database/sql"
	"time"
)

// Domain is a monitored domain with optional per-domain threshold overrides.
// A NULL override means "use the global default"; 0 is a valid override.
type Domain struct {
	ID             int64         `json:"id"`
	Hostname       string        `json:"hostname"`
	SSLDanger      sql.NullInt64 `json:"-"`
	SSLWarning     sql.NullInt64 `json:"-"`
	DomainDanger   sql.NullInt64 `json:"-"`
	DomainWarning  sql.NullInt64 `json:"-"`
	MonitorSSL     bool          `json:"monitor_ssl"`
	MonitorDomain  bool          `json:"monitor_domain"`
	NotifyWarning  bool          `json:"notify_on_warning"`
	NotifyCritical bool          `json:"notify_on_critical"`
	CreatedAt      time.Time     `json:"created_at"`
}

// Overrides returns the per-domain thresholds in JSON-friendly form,
// nil meaning "unset, use the global default".
func (d *Domain) Overrides() map[string]*int64 {
	return map[string]*int64{
		"ssl_danger":     nullableInt(d.SSLDanger),
		"ssl_warning":    nullableInt(d.SSLWarning),
		"domain_danger":  nullableInt(d.DomainDanger),
		"domain_warning": nullableInt(d.DomainWarning),
	}
}

func nullableInt(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

// HistoryRecord is one row of the append-only check history.
type HistoryRecord struct {
	ID            int64     `json:"id"`
	DomainID      int64     `json:"domain_id"`
	RunID         string    `json:"run_id"`
	SSLDays       *int      `json:"ssl_days"`
	DomainDays    *int      `json:"domain_days"`
	SSLStatus     string    `json:"ssl_status"`
	DomainStatus  string    `json:"domain_status"`
	OverallStatus string    `json:"overall_status"`
	CheckedAt     time.Time `json:"checked_at"`
}

// DomainStatus is the latest known state of a domain, derived from its
// most recent history row. Served to the dashboard.
type DomainStatus struct {
	DomainID      int64     `json:"domain_id"`
	Hostname      string    `json:"hostname"`
	SSLDays       *int      `json:"ssl_days"`
	DomainDays    *int      `json:"domain_days"`
	SSLStatus     string    `json:"ssl_status"`
	DomainStatus  string    `json:"domain_status"`
	OverallStatus string    `json:"overall_status"`
	CheckedAt     time.Time `json:"checked_at"`
}

// RunSummary aggregates the outcome of one check run.
type RunSummary struct {
	RunID             string        `json:"run_id"`
	Started           time.Time     `json:"started"`
	Duration          time.Duration `json:"duration"`
	DomainsChecked    int           `json:"domains_checked"`
	NotificationsSent int           `json:"notifications_sent"`
	Failures          int           `json:"failures"`
}

// Config holds server configuration
type Config struct {
	Port         string
	DBPath       string
	CheckOnStart bool
}
