package mq

import (
	"context"
	"log"
	"time"

	"air-alert-monitor/internal/regions"
)

// AlertNotifier mirrors the Telegram dispatcher contract by publishing alert
// events to RabbitMQ. Publish failures are logged and swallowed, matching the
// best-effort semantics of notification delivery.
type AlertNotifier struct {
	pub *Publisher
}

// NewAlertNotifier creates a notifier that publishes alert events to RabbitMQ.
func NewAlertNotifier(pub *Publisher) *AlertNotifier {
	return &AlertNotifier{pub: pub}
}

func (n *AlertNotifier) Enabled() bool {
	return n.pub != nil
}

// SendMessage publishes free-form text as a system event.
func (n *AlertNotifier) SendMessage(text string) bool {
	return n.publishSystem(text, "normal")
}

// SendRegionAlert publishes a region status flip. Unchanged statuses are
// suppressed like in the Telegram path.
func (n *AlertNotifier) SendRegionAlert(region string, isAlert bool, previous *bool) bool {
	if !n.Enabled() {
		return false
	}
	if previous != nil && *previous == isAlert {
		return false
	}
	msg := RegionChangeMsg{
		Region:     region,
		IsAlert:    isAlert,
		IsPriority: regions.IsPriority(region),
		When:       time.Now().UTC(),
	}
	if err := n.pub.Publish(context.Background(), RoutingRegionChange, msg); err != nil {
		log.Printf("[mq] failed to publish region change for %s: %v", region, err)
		return false
	}
	return true
}

// SendSystemAlert publishes an operational event.
func (n *AlertNotifier) SendSystemAlert(message, priority string) bool {
	return n.publishSystem(message, priority)
}

func (n *AlertNotifier) publishSystem(message, priority string) bool {
	if !n.Enabled() {
		return false
	}
	msg := SystemEventMsg{Message: message, Priority: priority, When: time.Now().UTC()}
	if err := n.pub.Publish(context.Background(), RoutingSystemEvent, msg); err != nil {
		log.Printf("[mq] failed to publish system event: %v", err)
		return false
	}
	return true
}
