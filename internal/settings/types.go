package settings

import "time"

// Setting represents a configuration setting in the database
type Setting struct {
	ID          int64     `json:"id"`
	Category    string    `json:"category"`
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	ValueType   string    `json:"value_type"`
	Description string    `json:"description,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SettingUpdate represents a request to update a setting
type SettingUpdate struct {
	Value string `json:"value"`
}

// SettingsGrouped represents settings grouped by category
type SettingsGrouped map[string][]Setting

// Snapshot is the effective global configuration loaded once at the start
// of a check run and passed down the call chain. Mid-run changes to the
// settings table apply to the next run only.
type Snapshot struct {
	SSLDangerDays      int
	SSLWarningDays     int
	DomainDangerDays   int
	DomainWarningDays  int
	CheckIntervalHours int
	RetentionDays      int
	Templates          map[string]string // "ssl_warning", "ssl_expired", ...
}
