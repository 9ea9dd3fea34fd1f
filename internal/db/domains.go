package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"domainwatch/internal/models"
)

const timeFormat = "2006-01-02 15:04:05"

// NormalizeHostname reduces user input to a bare hostname: scheme, path,
// port and a leading "www." are stripped, and the result is lowercased.
func NormalizeHostname(raw string) string {
	h := strings.TrimSpace(strings.ToLower(raw))
	if i := strings.Index(h, "://"); i != -1 {
		h = h[i+3:]
	}
	if i := strings.IndexAny(h, "/?#"); i != -1 {
		h = h[:i]
	}
	if i := strings.Index(h, ":"); i != -1 {
		h = h[:i]
	}
	h = strings.TrimPrefix(h, "www.")
	return strings.Trim(h, ".")
}

// CreateDomain inserts a new monitored domain. The hostname must already
// be normalized and non-empty.
func CreateDomain(database *sql.DB, d *models.Domain) (int64, error) {
	if d.Hostname == "" {
		return 0, fmt.Errorf("create domain: hostname is empty")
	}
	res, err := database.Exec(`
		INSERT INTO domains
			(hostname, ssl_danger, ssl_warning, domain_danger, domain_warning,
			 monitor_ssl, monitor_domain, notify_on_warning, notify_on_critical)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.Hostname, d.SSLDanger, d.SSLWarning, d.DomainDanger, d.DomainWarning,
		boolInt(d.MonitorSSL), boolInt(d.MonitorDomain),
		boolInt(d.NotifyWarning), boolInt(d.NotifyCritical))
	if err != nil {
		return 0, fmt.Errorf("create domain: %w", err)
	}
	return res.LastInsertId()
}

// GetDomain retrieves a domain by ID, or nil if it does not exist.
func GetDomain(database *sql.DB, id int64) (*models.Domain, error) {
	row := database.QueryRow(`
		SELECT id, hostname, ssl_danger, ssl_warning, domain_danger, domain_warning,
		       monitor_ssl, monitor_domain, notify_on_warning, notify_on_critical, created_at
		FROM domains WHERE id = ?`, id)

	d, err := scanDomain(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get domain %d: %w", id, err)
	}
	return d, nil
}

// ListDomains returns all monitored domains ordered by hostname.
func ListDomains(database *sql.DB) ([]models.Domain, error) {
	rows, err := database.Query(`
		SELECT id, hostname, ssl_danger, ssl_warning, domain_danger, domain_warning,
		       monitor_ssl, monitor_domain, notify_on_warning, notify_on_critical, created_at
		FROM domains ORDER BY hostname`)
	if err != nil {
		return nil, fmt.Errorf("list domains: %w", err)
	}
	defer rows.Close()

	var out []models.Domain
	for rows.Next() {
		d, err := scanDomain(rows)
		if err != nil {
			return nil, fmt.Errorf("scan domain: %w", err)
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// UpdateDomain updates a domain's toggles and threshold overrides.
func UpdateDomain(database *sql.DB, d *models.Domain) error {
	res, err := database.Exec(`
		UPDATE domains SET
			hostname = ?, ssl_danger = ?, ssl_warning = ?,
			domain_danger = ?, domain_warning = ?,
			monitor_ssl = ?, monitor_domain = ?,
			notify_on_warning = ?, notify_on_critical = ?
		WHERE id = ?`,
		d.Hostname, d.SSLDanger, d.SSLWarning, d.DomainDanger, d.DomainWarning,
		boolInt(d.MonitorSSL), boolInt(d.MonitorDomain),
		boolInt(d.NotifyWarning), boolInt(d.NotifyCritical), d.ID)
	if err != nil {
		return fmt.Errorf("update domain: %w", err)
	}
	return expectOneRow(res, "update domain")
}

// DeleteDomain removes a domain; its history rows cascade.
func DeleteDomain(database *sql.DB, id int64) error {
	res, err := database.Exec(`DELETE FROM domains WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete domain: %w", err)
	}
	return expectOneRow(res, "delete domain")
}

// ── helpers ──────────────────────────────────────────────────────────────

type scannable interface {
	Scan(dest ...interface{}) error
}

func scanDomain(s scannable) (*models.Domain, error) {
	var d models.Domain
	var monSSL, monDom, notifyWarn, notifyCrit int
	var createdAt string

	err := s.Scan(&d.ID, &d.Hostname,
		&d.SSLDanger, &d.SSLWarning, &d.DomainDanger, &d.DomainWarning,
		&monSSL, &monDom, &notifyWarn, &notifyCrit, &createdAt)
	if err != nil {
		return nil, err
	}
	d.MonitorSSL = monSSL == 1
	d.MonitorDomain = monDom == 1
	d.NotifyWarning = notifyWarn == 1
	d.NotifyCritical = notifyCrit == 1
	d.CreatedAt = parseTime(createdAt)
	return &d, nil
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeFormat, s)
	return t
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func expectOneRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: not found", op)
	}
	return nil
}
