package settings

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// setupTestDB creates an in-memory database with the settings table seeded.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := InitSettingsTable(db); err != nil {
		t.Fatalf("Failed to initialize settings table: %v", err)
	}
	return db
}

func TestInitSettingsTableSeedsDefaults(t *testing.T) {
	db := setupTestDB(t)

	settings, err := GetAllSettings(db)
	if err != nil {
		t.Fatalf("GetAllSettings failed: %v", err)
	}
	if len(settings) != len(DefaultSettings) {
		t.Errorf("expected %d seeded settings, got %d", len(DefaultSettings), len(settings))
	}

	val, err := GetIntSetting(db, "thresholds", "ssl_warning_days")
	if err != nil {
		t.Fatalf("GetIntSetting failed: %v", err)
	}
	if val != DefaultSSLWarningDays {
		t.Errorf("ssl_warning_days = %d, want %d", val, DefaultSSLWarningDays)
	}
}

func TestInitSettingsTablePreservesEdits(t *testing.T) {
	db := setupTestDB(t)

	if err := UpdateSetting(db, "thresholds", "ssl_danger_days", "3"); err != nil {
		t.Fatalf("UpdateSetting failed: %v", err)
	}

	// Re-running init must not clobber a user-changed value.
	if err := InitSettingsTable(db); err != nil {
		t.Fatalf("second InitSettingsTable failed: %v", err)
	}

	val, _ := GetIntSetting(db, "thresholds", "ssl_danger_days")
	if val != 3 {
		t.Errorf("ssl_danger_days = %d after re-init, want 3", val)
	}
}

func TestUpdateSettingValidatesType(t *testing.T) {
	db := setupTestDB(t)

	if err := UpdateSetting(db, "thresholds", "ssl_danger_days", "not-a-number"); err == nil {
		t.Error("expected error for non-integer value on an int setting")
	}
	if err := UpdateSetting(db, "thresholds", "ssl_danger_days", "0"); err != nil {
		t.Errorf("zero should be an accepted threshold: %v", err)
	}
}

func TestUpdateSettingRejectsUnknown(t *testing.T) {
	db := setupTestDB(t)

	if err := UpdateSetting(db, "nope", "missing", "1"); err == nil {
		t.Error("expected error for unknown setting")
	}
}

func TestUpdateIntervalRejectsBelowOneHour(t *testing.T) {
	db := setupTestDB(t)

	if err := UpdateSetting(db, "scheduler", "check_interval_hours", "0"); err == nil {
		t.Error("expected error for zero interval")
	}
	if err := UpdateSetting(db, "scheduler", "check_interval_hours", "6"); err != nil {
		t.Errorf("valid interval rejected: %v", err)
	}
}

func TestResetCategoryToDefaults(t *testing.T) {
	db := setupTestDB(t)

	UpdateSetting(db, "thresholds", "ssl_danger_days", "1")
	UpdateSetting(db, "thresholds", "domain_warning_days", "99")

	if err := ResetCategoryToDefaults(db, "thresholds"); err != nil {
		t.Fatalf("ResetCategoryToDefaults failed: %v", err)
	}

	danger, _ := GetIntSetting(db, "thresholds", "ssl_danger_days")
	warning, _ := GetIntSetting(db, "thresholds", "domain_warning_days")
	if danger != DefaultSSLDangerDays || warning != DefaultDomainWarningDays {
		t.Errorf("reset gave ssl_danger=%d domain_warning=%d, want %d/%d",
			danger, warning, DefaultSSLDangerDays, DefaultDomainWarningDays)
	}
}

func TestResetUnknownCategory(t *testing.T) {
	db := setupTestDB(t)

	if err := ResetCategoryToDefaults(db, "bogus"); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestGetSettingsGrouped(t *testing.T) {
	db := setupTestDB(t)

	grouped, err := GetSettingsGrouped(db)
	if err != nil {
		t.Fatalf("GetSettingsGrouped failed: %v", err)
	}
	for _, category := range []string{"thresholds", "scheduler", "templates", "history"} {
		if len(grouped[category]) == 0 {
			t.Errorf("expected settings in category %q", category)
		}
	}
}

func TestLoadSnapshotDefaults(t *testing.T) {
	db := setupTestDB(t)

	snap := LoadSnapshot(db)
	if snap.SSLDangerDays != DefaultSSLDangerDays ||
		snap.SSLWarningDays != DefaultSSLWarningDays ||
		snap.DomainDangerDays != DefaultDomainDangerDays ||
		snap.DomainWarningDays != DefaultDomainWarningDays {
		t.Errorf("snapshot thresholds = %+v, want seeded defaults", snap)
	}
	if snap.CheckIntervalHours != DefaultIntervalHours {
		t.Errorf("interval = %d, want %d", snap.CheckIntervalHours, DefaultIntervalHours)
	}
	if snap.Templates["ssl_expired"] != DefaultTemplateSSLExpired {
		t.Errorf("ssl_expired template = %q", snap.Templates["ssl_expired"])
	}
}

func TestLoadSnapshotReflectsUpdates(t *testing.T) {
	db := setupTestDB(t)

	UpdateSetting(db, "thresholds", "ssl_warning_days", "14")
	UpdateSetting(db, "templates", "ssl_warning", "cert for {domain} has {days} days left")

	snap := LoadSnapshot(db)
	if snap.SSLWarningDays != 14 {
		t.Errorf("ssl_warning_days = %d, want 14", snap.SSLWarningDays)
	}
	if snap.Templates["ssl_warning"] != "cert for {domain} has {days} days left" {
		t.Errorf("template = %q", snap.Templates["ssl_warning"])
	}
}

func TestLoadSnapshotWithoutTable(t *testing.T) {
	// A bare database with no settings table still yields usable defaults.
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer db.Close()

	snap := LoadSnapshot(db)
	if snap.SSLDangerDays != DefaultSSLDangerDays {
		t.Errorf("ssl_danger_days = %d, want built-in default", snap.SSLDangerDays)
	}
	if snap.CheckIntervalHours < 1 {
		t.Errorf("interval = %d, must be at least 1", snap.CheckIntervalHours)
	}
}
