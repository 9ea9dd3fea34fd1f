package check

import (
	"domainwatch/internal/models"
	"domainwatch/internal/settings"
)

// Status is the classification tier for a signal or a whole domain.
type Status string

const (
	StatusValid    Status = "valid"
	StatusWarning  Status = "warning"
	StatusExpired  Status = "expired"
	StatusError    Status = "error"
	StatusDisabled Status = "disabled"
)

// statusRank orders tiers from best to worst:
// expired > warning > error > disabled > valid.
var statusRank = map[Status]int{
	StatusValid:    0,
	StatusDisabled: 1,
	StatusError:    2,
	StatusWarning:  3,
	StatusExpired:  4,
}

// Thresholds are the effective danger/warning cutoffs for one domain,
// in days remaining.
type Thresholds struct {
	SSLDanger     int
	SSLWarning    int
	DomainDanger  int
	DomainWarning int
}

// ResolveThresholds merges per-domain overrides with the global snapshot.
// An override is applied only when its column is non-NULL; a stored 0 is
// a valid strict threshold, not "unset".
func ResolveThresholds(d *models.Domain, snap settings.Snapshot) Thresholds {
	t := Thresholds{
		SSLDanger:     snap.SSLDangerDays,
		SSLWarning:    snap.SSLWarningDays,
		DomainDanger:  snap.DomainDangerDays,
		DomainWarning: snap.DomainWarningDays,
	}
	if d.SSLDanger.Valid {
		t.SSLDanger = int(d.SSLDanger.Int64)
	}
	if d.SSLWarning.Valid {
		t.SSLWarning = int(d.SSLWarning.Int64)
	}
	if d.DomainDanger.Valid {
		t.DomainDanger = int(d.DomainDanger.Int64)
	}
	if d.DomainWarning.Valid {
		t.DomainWarning = int(d.DomainWarning.Int64)
	}
	return t
}

// Classify converts remaining days into a tier. A nil value means the
// expiry could not be determined.
func Classify(days *int, danger, warning int) Status {
	if days == nil {
		return StatusError
	}
	if *days <= danger {
		return StatusExpired
	}
	if *days <= warning {
		return StatusWarning
	}
	return StatusValid
}

// ClassifySignal is Classify with the monitor toggle applied: a signal
// that is not monitored is disabled, which is not the same as a failed
// lookup.
func ClassifySignal(monitored bool, days *int, danger, warning int) Status {
	if !monitored {
		return StatusDisabled
	}
	return Classify(days, danger, warning)
}

// Overall returns the worst tier among the monitored signals only. A
// domain with every signal unmonitored reports disabled.
func Overall(sslMonitored, domainMonitored bool, ssl, domain Status) Status {
	worst := StatusDisabled
	picked := false
	if sslMonitored {
		worst = ssl
		picked = true
	}
	if domainMonitored && (!picked || statusRank[domain] > statusRank[worst]) {
		worst = domain
	}
	return worst
}
