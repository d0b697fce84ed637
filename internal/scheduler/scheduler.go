// Package scheduler owns the reconciliation loop: fetch the current statuses,
// diff them against the previous snapshot, notify about flips, escalate after
// repeated failures. It is the only writer of the snapshot and its counters;
// HTTP handlers read them through accessors.
package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"air-alert-monitor/internal/metrics"
	"air-alert-monitor/internal/models"
	"air-alert-monitor/internal/notify"
	"air-alert-monitor/internal/regions"
)

// StatusFetcher acquires one validated set of region statuses. The polling
// strategy behind it (HTTP API, scrape, fixture) is interchangeable.
type StatusFetcher interface {
	FetchStatuses(ctx context.Context) (map[string]models.AlertType, error)
}

// Notifier delivers best-effort notifications. Implementations never return
// errors, only a delivery bool.
type Notifier interface {
	Enabled() bool
	SendMessage(text string) bool
	SendRegionAlert(region string, isAlert bool, previous *bool) bool
	SendSystemAlert(message, priority string) bool
}

// CapitalStore remembers the capital's last announced status across restarts.
type CapitalStore interface {
	SetCapitalStatus(ctx context.Context, isAlert bool) error
	GetCapitalStatus(ctx context.Context) (*bool, error)
}

// Scheduler drives periodic reconciliation cycles.
type Scheduler struct {
	fetcher   StatusFetcher
	notifier  Notifier
	collector *metrics.Collector
	store     CapitalStore // may be nil

	interval    time.Duration
	maxFailures int

	mu             sync.RWMutex
	running        bool
	snapshot       *models.AlertSnapshot
	failureCount   int
	lastUpdateTime *time.Time
	lastCapital    *bool
	cancel         context.CancelFunc
}

// New wires a scheduler. store may be nil when Redis is not configured.
func New(fetcher StatusFetcher, notifier Notifier, collector *metrics.Collector, store CapitalStore, interval time.Duration, maxFailures int) *Scheduler {
	return &Scheduler{
		fetcher:     fetcher,
		notifier:    notifier,
		collector:   collector,
		store:       store,
		interval:    interval,
		maxFailures: maxFailures,
	}
}

// Start runs one reconciliation cycle synchronously, then launches the
// recurring loop in the background. A second Start while running is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		log.Println("[scheduler] already running")
		return
	}
	s.running = true
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	s.seedCapitalStatus(ctx)

	log.Printf("[scheduler] started (interval=%s, max_failures=%d)", s.interval, s.maxFailures)
	s.Reconcile(ctx)

	go s.loop(loopCtx)
}

// Stop requests cooperative termination. An in-flight cycle finishes; the
// loop exits at its next wake-up.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	if s.cancel != nil {
		s.cancel()
	}
	log.Println("[scheduler] stopped")
}

func (s *Scheduler) loop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.IsRunning() {
				return
			}
			s.Reconcile(ctx)
		}
	}
}

// seedCapitalStatus restores the capital's last announced status so a flip
// during downtime still produces a notification on the first diffing cycle.
func (s *Scheduler) seedCapitalStatus(ctx context.Context) {
	if s.store == nil {
		return
	}
	stored, err := s.store.GetCapitalStatus(ctx)
	if err != nil {
		log.Printf("[scheduler] failed to read capital status from cache: %v", err)
		return
	}
	if stored != nil {
		s.mu.Lock()
		s.lastCapital = stored
		s.mu.Unlock()
		log.Printf("[scheduler] restored capital status from cache: %v", *stored)
	}
}

// Reconcile executes one fetch→diff→notify→store cycle. Safe to call
// manually: a cycle whose data matches the stored snapshot notifies nothing.
func (s *Scheduler) Reconcile(ctx context.Context) {
	start := time.Now()

	parsed, err := s.fetcher.FetchStatuses(ctx)
	if err != nil {
		s.handleFailure(err, time.Since(start))
		return
	}

	snap := models.FromRegionMap(parsed)
	prev := s.Snapshot()

	// All notifications are attempted before the snapshot swap so delivery
	// failures never hold data freshness hostage.
	if prev == nil {
		log.Println("[scheduler] first successful cycle, skipping change detection")
	} else {
		s.notifyChanges(prev, snap)
	}
	s.checkCapital(ctx, snap)

	now := time.Now().UTC()
	s.mu.Lock()
	s.snapshot = snap
	s.lastUpdateTime = &now
	s.failureCount = 0
	s.mu.Unlock()

	duration := time.Since(start)
	s.collector.UpdateAlertMetrics(snap.ActiveAlerts, snap.TotalRegions, snap.LastUpdate)
	s.collector.RecordAPIRequest("success", duration)
	s.collector.UpdateSystemStatus(true)

	log.Printf("[scheduler] statuses updated: %d/%d active in %s", snap.ActiveAlerts, snap.TotalRegions, duration.Round(time.Millisecond))
}

// notifyChanges sends one notification per region whose is_alert flipped.
// Region identity is the display name; a region absent from the new snapshot
// is not a change.
func (s *Scheduler) notifyChanges(prev, snap *models.AlertSnapshot) {
	if !s.notifier.Enabled() {
		return
	}

	changed := 0
	for name, st := range snap.Regions {
		old, ok := prev.Regions[name]
		if !ok || old.IsAlert == st.IsAlert {
			continue
		}
		changed++
		previous := old.IsAlert
		if s.notifier.SendRegionAlert(name, st.IsAlert, &previous) {
			s.collector.RecordNotification("success")
		} else {
			s.collector.RecordNotification("error")
		}
	}
	if changed > 0 {
		log.Printf("[scheduler] detected %d status changes", changed)
	}
}

// checkCapital runs the dedicated capital path every successful cycle,
// independently of the generic diff. Both paths may fire for the same
// transition; the duplication is deliberate.
func (s *Scheduler) checkCapital(ctx context.Context, snap *models.AlertSnapshot) {
	st, ok := snap.Regions[regions.Capital]
	if !ok {
		return
	}

	s.mu.RLock()
	last := s.lastCapital
	s.mu.RUnlock()

	if last != nil && *last == st.IsAlert {
		return
	}

	current := st.IsAlert
	s.mu.Lock()
	s.lastCapital = &current
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.SetCapitalStatus(ctx, current); err != nil {
			log.Printf("[scheduler] failed to persist capital status: %v", err)
		}
	}

	// With no previous status (cold start, empty cache) there is no
	// transition to announce; just remember the current state.
	if last == nil {
		return
	}

	if !s.notifier.Enabled() {
		return
	}
	msg := notify.CapitalMessage(current)
	if s.notifier.SendMessage(msg) {
		s.collector.RecordNotification("success")
	} else {
		s.collector.RecordNotification("error")
	}
	log.Printf("[scheduler] capital status change announced: %v", current)
}

// handleFailure counts a failed cycle and escalates once per threshold
// crossing. The counter resets after the escalation attempt whether or not
// the message was delivered; the stale snapshot stays in place.
func (s *Scheduler) handleFailure(err error, duration time.Duration) {
	s.mu.Lock()
	s.failureCount++
	count := s.failureCount
	escalate := count >= s.maxFailures
	if escalate {
		s.failureCount = 0
	}
	s.mu.Unlock()

	s.collector.RecordAPIRequest("error", duration)
	s.collector.UpdateSystemStatus(false)
	log.Printf("[scheduler] cycle failed (consecutive=%d): %v", count, err)

	if !escalate {
		return
	}
	log.Printf("[scheduler] failure threshold reached: %d", count)
	if s.notifier.Enabled() {
		if s.notifier.SendSystemAlert(notify.EscalationMessage(count), "high") {
			s.collector.RecordNotification("success")
		} else {
			s.collector.RecordNotification("error")
		}
	}
}

// ── Read-only accessors ──────────────────────────────────────────────

// IsRunning reports whether the loop is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Snapshot returns the current snapshot, or nil before the first successful
// cycle. Snapshots are immutable once stored, so the pointer is safe to share.
func (s *Scheduler) Snapshot() *models.AlertSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// FailureCount returns the current consecutive-failure count.
func (s *Scheduler) FailureCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.failureCount
}

// LastUpdateTime returns the time of the last successful cycle, or nil.
func (s *Scheduler) LastUpdateTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdateTime
}

// LastCapitalStatus returns the capital's last announced status, or nil.
func (s *Scheduler) LastCapitalStatus() *bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastCapital
}
