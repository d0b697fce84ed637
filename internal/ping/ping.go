// Package ping probes the alert provider's host with ICMP in the background
// so /health can report network reachability separately from API health.
package ping

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	probing "github.com/prometheus-community/pro-bing"
)

// PingHost sends ICMP pings to the target and returns true if reachable.
func PingHost(target string) bool {
	pinger, err := probing.NewPinger(target)
	if err != nil {
		log.Printf("[ping] failed to create pinger for %s: %v", target, err)
		return false
	}
	pinger.Count = 3
	pinger.Timeout = 5 * time.Second
	pinger.SetPrivileged(true)
	if err := pinger.Run(); err != nil {
		return false
	}
	return pinger.Statistics().PacketsRecv > 0
}

// Prober periodically pings a host and exposes the latest result.
type Prober struct {
	target    string
	interval  time.Duration
	reachable atomic.Bool
	probed    atomic.Bool
	onResult  func(reachable bool)
}

// NewProber creates a prober for the given host. onResult may be nil; when
// set it is invoked after every probe (used to update the gauge).
func NewProber(target string, interval time.Duration, onResult func(reachable bool)) *Prober {
	return &Prober{target: target, interval: interval, onResult: onResult}
}

// Start probes immediately, then on every tick. Blocks until ctx is
// cancelled; call as a goroutine.
func (p *Prober) Start(ctx context.Context) {
	log.Printf("[ping] prober started for %s (interval=%s)", p.target, p.interval)
	p.probe()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[ping] prober stopped")
			return
		case <-ticker.C:
			p.probe()
		}
	}
}

func (p *Prober) probe() {
	ok := PingHost(p.target)
	p.reachable.Store(ok)
	p.probed.Store(true)
	if p.onResult != nil {
		p.onResult(ok)
	}
}

// Reachable returns the latest probe result and whether a probe has run yet.
func (p *Prober) Reachable() (ok, known bool) {
	return p.reachable.Load(), p.probed.Load()
}
