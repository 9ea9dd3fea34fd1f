package check

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	store "domainwatch/internal/db"
	"domainwatch/internal/events"
	"domainwatch/internal/models"
	"domainwatch/internal/notify"
	"domainwatch/internal/settings"
)

// defaultMaxInFlight bounds concurrent domain checks within one run.
const defaultMaxInFlight = 16

// Orchestrator executes one full check run: it snapshots the domain set
// and settings, fans out per-domain probes, classifies, notifies and
// records history.
type Orchestrator struct {
	db          *sql.DB
	dispatcher  *notify.Dispatcher
	bus         *events.Bus
	prober      Prober
	maxInFlight int
}

// NewOrchestrator wires an orchestrator. A nil dispatcher or prober
// selects the live implementation; the bus is optional.
func NewOrchestrator(database *sql.DB, dispatcher *notify.Dispatcher, bus *events.Bus, prober Prober) *Orchestrator {
	if dispatcher == nil {
		dispatcher = notify.NewDispatcher(nil)
	}
	if prober == nil {
		prober = NewLiveProber()
	}
	return &Orchestrator{
		db:          database,
		dispatcher:  dispatcher,
		bus:         bus,
		prober:      prober,
		maxInFlight: defaultMaxInFlight,
	}
}

type domainResult struct {
	record      models.HistoryRecord
	sent        int
	failedSends int
}

// RunOnce checks every monitored domain against a consistent snapshot of
// the settings taken at the start of the run. Mid-run configuration
// changes apply to the next run only.
func (o *Orchestrator) RunOnce(ctx context.Context) models.RunSummary {
	summary := models.RunSummary{
		RunID:   uuid.New().String(),
		Started: time.Now().UTC(),
	}
	defer func() {
		summary.Duration = time.Since(summary.Started)
	}()

	snap := settings.LoadSnapshot(o.db)

	domains, err := store.ListDomains(o.db)
	if err != nil {
		log.Printf("[Check] Run %s: list domains: %v", summary.RunID, err)
		summary.Failures++
		return summary
	}
	summary.DomainsChecked = len(domains)
	if len(domains) == 0 {
		return summary
	}

	// No channels configured means "notifications disabled", not an error.
	channels, err := notify.ListEnabledChannels(o.db)
	if err != nil {
		log.Printf("[Check] Run %s: list channels: %v (continuing without notifications)", summary.RunID, err)
		channels = nil
	}

	o.publish(events.Event{
		Type:     events.RunStarted,
		Severity: events.SeverityInfo,
		RunID:    summary.RunID,
		Message:  fmt.Sprintf("Checking %d domains", len(domains)),
	})

	results := make([]domainResult, len(domains))
	sem := make(chan struct{}, o.maxInFlight)
	var wg sync.WaitGroup
	for i := range domains {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = o.checkDomain(ctx, &domains[i], snap, channels, summary.RunID)
		}(i)
	}
	wg.Wait()

	for i := range results {
		summary.NotificationsSent += results[i].sent
		summary.Failures += results[i].failedSends
	}

	// History is the unconditional audit trail: one batch transaction,
	// committed whether or not any notification fired. Notifications
	// already sent are never retracted by a persistence failure.
	summary.Failures += o.persistRun(results, summary.RunID)

	o.publish(events.Event{
		Type:     events.RunCompleted,
		Severity: events.SeverityInfo,
		RunID:    summary.RunID,
		Message: fmt.Sprintf("Checked %d domains, sent %d notifications, %d failures",
			summary.DomainsChecked, summary.NotificationsSent, summary.Failures),
	})
	return summary
}

// checkDomain takes one domain through probe → classify → notify.
// It never fails; probe problems degrade to the error tier.
func (o *Orchestrator) checkDomain(ctx context.Context, d *models.Domain, snap settings.Snapshot, channels []notify.Channel, runID string) domainResult {
	var sslExpiry, domainExpiry *time.Time

	// Only monitored signals are probed; the two probes of one domain
	// run in parallel.
	var wg sync.WaitGroup
	if d.MonitorSSL {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sslExpiry = o.prober.TLSExpiry(ctx, d.Hostname)
		}()
	}
	if d.MonitorDomain {
		wg.Add(1)
		go func() {
			defer wg.Done()
			domainExpiry = o.prober.RegistrationExpiry(ctx, d.Hostname)
		}()
	}
	wg.Wait()

	now := time.Now()
	sslDays := daysUntil(sslExpiry, now)
	domainDays := daysUntil(domainExpiry, now)

	thresholds := ResolveThresholds(d, snap)
	sslStatus := ClassifySignal(d.MonitorSSL, sslDays, thresholds.SSLDanger, thresholds.SSLWarning)
	domainStatus := ClassifySignal(d.MonitorDomain, domainDays, thresholds.DomainDanger, thresholds.DomainWarning)
	overall := Overall(d.MonitorSSL, d.MonitorDomain, sslStatus, domainStatus)

	res := domainResult{
		record: models.HistoryRecord{
			DomainID:      d.ID,
			RunID:         runID,
			SSLDays:       sslDays,
			DomainDays:    domainDays,
			SSLStatus:     string(sslStatus),
			DomainStatus:  string(domainStatus),
			OverallStatus: string(overall),
		},
	}

	if msg := buildMessage(d, snap, sslStatus, domainStatus, sslDays, domainDays); msg != "" && len(channels) > 0 {
		res.sent = o.dispatcher.Dispatch(msg, channels)
		res.failedSends = len(channels) - res.sent
	}

	o.publishDomain(d.Hostname, runID, overall)
	return res
}

// persistRun appends the run's history rows in one transaction and
// returns the number of failures. A failing row is logged and skipped
// without aborting its siblings; a failing commit rolls the whole batch
// back.
func (o *Orchestrator) persistRun(results []domainResult, runID string) int {
	tx, err := o.db.Begin()
	if err != nil {
		log.Printf("[Check] Run %s: begin history transaction: %v", runID, err)
		return 1
	}

	failures := 0
	for i := range results {
		rec := &results[i].record
		if err := store.AppendHistoryTx(tx, rec); err != nil {
			log.Printf("[Check] Run %s: history for domain %d: %v", runID, rec.DomainID, err)
			failures++
		}
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		log.Printf("[Check] Run %s: commit history batch: %v", runID, err)
		return failures + 1
	}
	return failures
}

func (o *Orchestrator) publishDomain(hostname, runID string, overall Status) {
	e := events.Event{
		Hostname: hostname,
		RunID:    runID,
		Metadata: map[string]string{"overall_status": string(overall)},
	}
	switch overall {
	case StatusExpired:
		e.Type = events.DomainExpired
		e.Severity = events.SeverityCritical
		e.Message = fmt.Sprintf("%s is in the expired tier", hostname)
	case StatusWarning:
		e.Type = events.DomainWarning
		e.Severity = events.SeverityWarning
		e.Message = fmt.Sprintf("%s is in the warning tier", hostname)
	case StatusError:
		e.Type = events.DomainError
		e.Severity = events.SeverityInfo
		e.Message = fmt.Sprintf("%s could not be checked", hostname)
	default:
		e.Type = events.DomainChecked
		e.Severity = events.SeverityInfo
		e.Message = fmt.Sprintf("%s checked", hostname)
	}
	o.publish(e)
}

func (o *Orchestrator) publish(e events.Event) {
	if o.bus != nil {
		o.bus.Publish(e)
	}
}

func daysUntil(t *time.Time, now time.Time) *int {
	if t == nil {
		return nil
	}
	days := int(t.Sub(now).Hours() / 24)
	return &days
}
