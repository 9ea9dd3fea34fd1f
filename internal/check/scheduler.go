package check

import (
	"context"
	"database/sql"
	"log"
	"sync"
	"time"

	store "domainwatch/internal/db"
	"domainwatch/internal/models"
	"domainwatch/internal/settings"
)

// Scheduler fires check runs on a fixed interval and on demand. The
// interval is read once at startup; changing it takes effect after a
// restart. Run-level errors never stop the loop.
type Scheduler struct {
	db   *sql.DB
	orch *Orchestrator

	mu      sync.Mutex
	running bool
	active  bool
	lastRun *models.RunSummary

	stopChan    chan struct{}
	triggerChan chan struct{}
	wg          sync.WaitGroup
}

// NewScheduler creates a scheduler around the given orchestrator.
func NewScheduler(database *sql.DB, orch *Orchestrator) *Scheduler {
	return &Scheduler{
		db:          database,
		orch:        orch,
		stopChan:    make(chan struct{}),
		triggerChan: make(chan struct{}, 1),
	}
}

// Start launches the background loop. With checkOnStart an initial run
// is queued immediately.
func (s *Scheduler) Start(checkOnStart bool) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	interval := settings.GetIntSettingWithDefault(s.db, "scheduler", "check_interval_hours", settings.DefaultIntervalHours)
	if interval < 1 {
		interval = settings.DefaultIntervalHours
	}

	if checkOnStart {
		s.TriggerNow()
	}

	s.wg.Add(1)
	go s.loop(time.Duration(interval) * time.Hour)

	log.Printf("[Scheduler] Started with %dh interval", interval)
}

// Stop halts the background loop and waits for it to exit. An in-flight
// run finishes first.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopChan)
	s.wg.Wait()
	log.Println("[Scheduler] Stopped")
}

// TriggerNow queues a manual run. It returns false when a trigger is
// already queued.
func (s *Scheduler) TriggerNow() bool {
	select {
	case s.triggerChan <- struct{}{}:
		return true
	default:
		return false
	}
}

// Status reports the scheduler state and the last run's summary.
func (s *Scheduler) Status() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return map[string]interface{}{
		"running":  s.running,
		"active":   s.active,
		"last_run": s.lastRun,
	}
}

func (s *Scheduler) loop(interval time.Duration) {
	defer s.wg.Done()

	checkTicker := time.NewTicker(interval)
	defer checkTicker.Stop()

	// History retention cleanup runs daily regardless of check interval.
	cleanupTicker := time.NewTicker(24 * time.Hour)
	defer cleanupTicker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-checkTicker.C:
			s.runOnce()
		case <-s.triggerChan:
			s.runOnce()
		case <-cleanupTicker.C:
			s.runCleanup()
		}
	}
}

// runOnce executes one run under the non-reentrant guard: a trigger that
// arrives while a run is active is skipped, not queued behind it.
func (s *Scheduler) runOnce() {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		log.Println("[Scheduler] Run already active, skipping trigger")
		return
	}
	s.active = true
	s.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Scheduler] Run panicked: %v", r)
		}
		s.mu.Lock()
		s.active = false
		s.mu.Unlock()
	}()

	log.Println("[Scheduler] Starting check run")
	summary := s.orch.RunOnce(context.Background())
	log.Printf("[Scheduler] Run %s finished: %d domains, %d notifications, %d failures in %s",
		summary.RunID, summary.DomainsChecked, summary.NotificationsSent,
		summary.Failures, summary.Duration.Round(time.Millisecond))

	s.mu.Lock()
	s.lastRun = &summary
	s.mu.Unlock()
}

func (s *Scheduler) runCleanup() {
	retention := settings.GetIntSettingWithDefault(s.db, "history", "retention_days", settings.DefaultRetentionDays)
	deleted, err := store.CleanupHistory(s.db, retention)
	if err != nil {
		log.Printf("[Scheduler] History cleanup error: %v", err)
	} else if deleted > 0 {
		log.Printf("[Scheduler] Cleaned up %d old history rows", deleted)
	}
}
