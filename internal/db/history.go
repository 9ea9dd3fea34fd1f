package db

import (
	"database/sql"
	"fmt"

	"domainwatch/internal/models"
)

// AppendHistory inserts one history row. Rows are append-only; nothing
// updates them after creation.
func AppendHistory(database *sql.DB, rec *models.HistoryRecord) (int64, error) {
	res, err := historyInsert(database, rec)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// AppendHistoryTx inserts one history row inside an existing transaction.
func AppendHistoryTx(tx *sql.Tx, rec *models.HistoryRecord) error {
	_, err := historyInsert(tx, rec)
	return err
}

type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

func historyInsert(e execer, rec *models.HistoryRecord) (sql.Result, error) {
	res, err := e.Exec(`
		INSERT INTO check_history
			(domain_id, run_id, ssl_days, domain_days,
			 ssl_status, domain_status, overall_status)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.DomainID, rec.RunID, intPtr(rec.SSLDays), intPtr(rec.DomainDays),
		rec.SSLStatus, rec.DomainStatus, rec.OverallStatus)
	if err != nil {
		return nil, fmt.Errorf("append history: %w", err)
	}
	return res, nil
}

// DomainHistory returns the latest N history rows for one domain.
func DomainHistory(database *sql.DB, domainID int64, limit int) ([]models.HistoryRecord, error) {
	rows, err := database.Query(`
		SELECT id, domain_id, run_id, ssl_days, domain_days,
		       ssl_status, domain_status, overall_status, checked_at
		FROM check_history
		WHERE domain_id = ?
		ORDER BY checked_at DESC, id DESC LIMIT ?`, domainID, limit)
	if err != nil {
		return nil, fmt.Errorf("domain history: %w", err)
	}
	defer rows.Close()
	return collectHistory(rows)
}

// LatestStatuses returns, for every domain, the status derived from its
// most recent history row. Domains never checked are omitted.
func LatestStatuses(database *sql.DB) ([]models.DomainStatus, error) {
	rows, err := database.Query(`
		SELECT h.domain_id, d.hostname, h.ssl_days, h.domain_days,
		       h.ssl_status, h.domain_status, h.overall_status, h.checked_at
		FROM check_history h
		JOIN domains d ON d.id = h.domain_id
		WHERE h.id = (
			SELECT id FROM check_history
			WHERE domain_id = h.domain_id
			ORDER BY checked_at DESC, id DESC LIMIT 1
		)
		ORDER BY d.hostname`)
	if err != nil {
		return nil, fmt.Errorf("latest statuses: %w", err)
	}
	defer rows.Close()

	var out []models.DomainStatus
	for rows.Next() {
		var s models.DomainStatus
		var sslDays, domDays sql.NullInt64
		var checkedAt string
		if err := rows.Scan(&s.DomainID, &s.Hostname, &sslDays, &domDays,
			&s.SSLStatus, &s.DomainStatus, &s.OverallStatus, &checkedAt); err != nil {
			return nil, fmt.Errorf("scan status: %w", err)
		}
		s.SSLDays = nullableDays(sslDays)
		s.DomainDays = nullableDays(domDays)
		s.CheckedAt = parseTime(checkedAt)
		out = append(out, s)
	}
	return out, rows.Err()
}

// CleanupHistory deletes history rows older than retentionDays and
// returns the number removed.
func CleanupHistory(database *sql.DB, retentionDays int) (int64, error) {
	res, err := database.Exec(`
		DELETE FROM check_history
		WHERE checked_at < datetime('now', ?)`,
		fmt.Sprintf("-%d days", retentionDays))
	if err != nil {
		return 0, fmt.Errorf("cleanup history: %w", err)
	}
	return res.RowsAffected()
}

func collectHistory(rows *sql.Rows) ([]models.HistoryRecord, error) {
	var out []models.HistoryRecord
	for rows.Next() {
		var r models.HistoryRecord
		var sslDays, domDays sql.NullInt64
		var checkedAt string
		if err := rows.Scan(&r.ID, &r.DomainID, &r.RunID, &sslDays, &domDays,
			&r.SSLStatus, &r.DomainStatus, &r.OverallStatus, &checkedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		r.SSLDays = nullableDays(sslDays)
		r.DomainDays = nullableDays(domDays)
		r.CheckedAt = parseTime(checkedAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

func nullableDays(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func intPtr(p *int) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
