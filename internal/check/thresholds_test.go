package check

import (
	"database/sql"
	"testing"

	"domainwatch/internal/models"
	"domainwatch/internal/settings"
)

func intp(v int) *int { return &v }

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		days    *int
		danger  int
		warning int
		want    Status
	}{
		{"nil means error", nil, 7, 30, StatusError},
		{"well past warning", intp(120), 7, 30, StatusValid},
		{"just above warning", intp(31), 7, 30, StatusValid},
		{"at warning boundary", intp(30), 7, 30, StatusWarning},
		{"between danger and warning", intp(15), 7, 30, StatusWarning},
		{"at danger boundary", intp(7), 7, 30, StatusExpired},
		{"below danger", intp(2), 7, 30, StatusExpired},
		{"zero days", intp(0), 7, 30, StatusExpired},
		{"already expired", intp(-5), 7, 30, StatusExpired},
		{"zero danger threshold", intp(0), 0, 30, StatusExpired},
		{"zero danger, one day left", intp(1), 0, 30, StatusWarning},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.days, tt.danger, tt.warning)
			if got != tt.want {
				t.Errorf("Classify(%v, %d, %d) = %q, want %q", tt.days, tt.danger, tt.warning, got, tt.want)
			}
		})
	}
}

func TestClassifySignalDisabled(t *testing.T) {
	if got := ClassifySignal(false, intp(2), 7, 30); got != StatusDisabled {
		t.Errorf("unmonitored signal = %q, want disabled", got)
	}
	if got := ClassifySignal(false, nil, 7, 30); got != StatusDisabled {
		t.Errorf("unmonitored signal with nil days = %q, want disabled (not error)", got)
	}
	if got := ClassifySignal(true, nil, 7, 30); got != StatusError {
		t.Errorf("monitored failed probe = %q, want error", got)
	}
}

func TestOverall(t *testing.T) {
	tests := []struct {
		name     string
		sslOn    bool
		domainOn bool
		ssl      Status
		domain   Status
		want     Status
	}{
		{"both valid", true, true, StatusValid, StatusValid, StatusValid},
		{"ssl warning wins", true, true, StatusWarning, StatusValid, StatusWarning},
		{"domain expired wins", true, true, StatusWarning, StatusExpired, StatusExpired},
		{"warning outranks error", true, true, StatusError, StatusWarning, StatusWarning},
		{"error outranks valid", true, true, StatusError, StatusValid, StatusError},
		{"ignores unmonitored expired domain", true, false, StatusValid, StatusDisabled, StatusValid},
		{"ignores unmonitored ssl", false, true, StatusDisabled, StatusWarning, StatusWarning},
		{"both off", false, false, StatusDisabled, StatusDisabled, StatusDisabled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overall(tt.sslOn, tt.domainOn, tt.ssl, tt.domain)
			if got != tt.want {
				t.Errorf("Overall = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveThresholdsGlobalDefaults(t *testing.T) {
	snap := settings.Snapshot{
		SSLDangerDays: 7, SSLWarningDays: 30,
		DomainDangerDays: 14, DomainWarningDays: 60,
	}
	d := &models.Domain{Hostname: "example.com"}

	got := ResolveThresholds(d, snap)
	want := Thresholds{SSLDanger: 7, SSLWarning: 30, DomainDanger: 14, DomainWarning: 60}
	if got != want {
		t.Errorf("ResolveThresholds = %+v, want %+v", got, want)
	}
}

func TestResolveThresholdsOverrides(t *testing.T) {
	snap := settings.Snapshot{
		SSLDangerDays: 7, SSLWarningDays: 30,
		DomainDangerDays: 14, DomainWarningDays: 60,
	}
	d := &models.Domain{
		Hostname:     "example.com",
		SSLWarning:   sql.NullInt64{Int64: 45, Valid: true},
		DomainDanger: sql.NullInt64{Int64: 21, Valid: true},
	}

	got := ResolveThresholds(d, snap)
	if got.SSLWarning != 45 || got.DomainDanger != 21 {
		t.Errorf("overrides not applied: %+v", got)
	}
	if got.SSLDanger != 7 || got.DomainWarning != 60 {
		t.Errorf("unset overrides must fall back to globals: %+v", got)
	}
}

func TestResolveThresholdsZeroOverride(t *testing.T) {
	snap := settings.Snapshot{SSLDangerDays: 7, SSLWarningDays: 30}

	// A stored 0 is a real strict threshold, not "unset".
	d := &models.Domain{
		Hostname:  "example.com",
		SSLDanger: sql.NullInt64{Int64: 0, Valid: true},
	}
	got := ResolveThresholds(d, snap)
	if got.SSLDanger != 0 {
		t.Errorf("zero override ignored: ssl_danger = %d, want 0", got.SSLDanger)
	}

	// A NULL column falls back to the global even when 0 appears in Int64.
	d2 := &models.Domain{
		Hostname:  "example.com",
		SSLDanger: sql.NullInt64{Int64: 0, Valid: false},
	}
	got2 := ResolveThresholds(d2, snap)
	if got2.SSLDanger != 7 {
		t.Errorf("NULL override should use the global: ssl_danger = %d, want 7", got2.SSLDanger)
	}
}
