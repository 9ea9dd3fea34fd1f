package notify

import (
	"database/sql"
	"fmt"
	"time"
)

const timeFormat = "2006-01-02 15:04:05"

// CreateChannel inserts a new notification channel.
func CreateChannel(db *sql.DB, ch *Channel) (int64, error) {
	if err := ValidateChannel(ch.ChannelType, ch.ConfigJSON); err != nil {
		return 0, err
	}
	res, err := db.Exec(`
		INSERT INTO notification_channels (name, channel_type, config_json, enabled)
		VALUES (?, ?, ?, ?)`,
		ch.Name, ch.ChannelType, ch.ConfigJSON, boolInt(ch.Enabled))
	if err != nil {
		return 0, fmt.Errorf("create channel: %w", err)
	}
	return res.LastInsertId()
}

// GetChannel retrieves a channel by ID, or nil if it does not exist.
func GetChannel(db *sql.DB, id int64) (*Channel, error) {
	row := db.QueryRow(`
		SELECT id, name, channel_type, config_json, enabled, created_at, updated_at
		FROM notification_channels WHERE id = ?`, id)

	ch, err := scanChannel(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get channel %d: %w", id, err)
	}
	return ch, nil
}

// ListChannels returns all notification channels.
func ListChannels(db *sql.DB) ([]Channel, error) {
	return listChannels(db, `
		SELECT id, name, channel_type, config_json, enabled, created_at, updated_at
		FROM notification_channels ORDER BY name`)
}

// ListEnabledChannels returns only channels the dispatcher should use.
func ListEnabledChannels(db *sql.DB) ([]Channel, error) {
	return listChannels(db, `
		SELECT id, name, channel_type, config_json, enabled, created_at, updated_at
		FROM notification_channels WHERE enabled = 1 ORDER BY name`)
}

func listChannels(db *sql.DB, query string) ([]Channel, error) {
	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	defer rows.Close()

	var out []Channel
	for rows.Next() {
		ch, err := scanChannel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan channel: %w", err)
		}
		out = append(out, *ch)
	}
	return out, rows.Err()
}

// UpdateChannel updates a channel's configuration.
func UpdateChannel(db *sql.DB, ch *Channel) error {
	if err := ValidateChannel(ch.ChannelType, ch.ConfigJSON); err != nil {
		return err
	}
	res, err := db.Exec(`
		UPDATE notification_channels SET
			name = ?, channel_type = ?, config_json = ?, enabled = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		ch.Name, ch.ChannelType, ch.ConfigJSON, boolInt(ch.Enabled), ch.ID)
	if err != nil {
		return fmt.Errorf("update channel: %w", err)
	}
	return expectOneRow(res, "update channel")
}

// DeleteChannel removes a notification channel.
func DeleteChannel(db *sql.DB, id int64) error {
	res, err := db.Exec(`DELETE FROM notification_channels WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete channel: %w", err)
	}
	return expectOneRow(res, "delete channel")
}

// ── helpers ──────────────────────────────────────────────────────────────

type scannable interface {
	Scan(dest ...interface{}) error
}

func scanChannel(s scannable) (*Channel, error) {
	var ch Channel
	var enabled int
	var createdAt, updatedAt string

	err := s.Scan(&ch.ID, &ch.Name, &ch.ChannelType, &ch.ConfigJSON,
		&enabled, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	ch.Enabled = enabled == 1
	ch.CreatedAt = parseTime(createdAt)
	ch.UpdatedAt = parseTime(updatedAt)
	return &ch, nil
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
