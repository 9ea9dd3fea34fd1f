package events

import "time"

// EventType identifies the kind of event being published.
type EventType string

const (
	// Check run lifecycle
	RunStarted   EventType = "run_started"
	RunCompleted EventType = "run_completed"

	// Per-domain outcomes
	DomainChecked EventType = "domain_checked"
	DomainWarning EventType = "domain_warning"
	DomainExpired EventType = "domain_expired"
	DomainError   EventType = "domain_error"
)

// Severity indicates the urgency of an event.
type Severity int

const (
	SeverityInfo     Severity = 0
	SeverityWarning  Severity = 1
	SeverityCritical Severity = 2
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Event is the payload published through the bus.
type Event struct {
	Type      EventType         `json:"type"`
	Severity  Severity          `json:"severity"`
	Hostname  string            `json:"hostname,omitempty"`
	RunID     string            `json:"run_id,omitempty"`
	Message   string            `json:"message"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}
