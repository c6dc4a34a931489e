package job

import (
	"context"
	"log"
	"sync"
	"time"

	"macro-pulse/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const (
	notifyLeadMin = 14 * time.Minute
	notifyLeadMax = 15 * time.Minute

	// Sent markers older than this are pruned; by then the event has long
	// since fired and its key can never match again.
	sentRetention = 24 * time.Hour
)

type EventSource interface {
	Snapshot() []domain.EventRecord
}

type DestinationLister interface {
	List() []int64
}

type NotificationSender interface {
	SendEventAlert(chatID int64, ev domain.EventRecord) error
}

// Notifier scans the event cache and pushes an alert to every subscribed
// destination when an event's scheduled time falls inside the lead window.
// Each event fires at most once per destination set; a sent-marker map keyed
// by event identity guards against the scan interval overlapping the window
// more than once.
type Notifier struct {
	tracer       trace.Tracer
	events       EventSource
	destinations DestinationLister
	sender       NotificationSender
	now          func() time.Time

	mu   sync.Mutex
	sent map[string]time.Time
}

func NewNotifier(tracer trace.Tracer, events EventSource, destinations DestinationLister, sender NotificationSender) *Notifier {
	return &Notifier{
		tracer:       tracer,
		events:       events,
		destinations: destinations,
		sender:       sender,
		now:          time.Now,
		sent:         make(map[string]time.Time),
	}
}

// RunOnce performs a single scan. Send failures are logged per destination
// and never abort the scan; the event is still marked sent so a broken chat
// does not cause repeated alerts to the healthy ones.
func (n *Notifier) RunOnce(ctx context.Context) {
	_, span := n.tracer.Start(ctx, "notifier.scan")
	defer span.End()

	if n.sender == nil {
		return
	}

	now := n.now()
	n.prune(now)

	destinations := n.destinations.List()
	if len(destinations) == 0 {
		return
	}

	for _, ev := range n.events.Snapshot() {
		if !ev.HasTime {
			continue
		}
		until := ev.ScheduledAt.Sub(now)
		if until < notifyLeadMin || until > notifyLeadMax {
			continue
		}
		if !n.markSent(ev.Key(), now) {
			continue
		}

		for _, chatID := range destinations {
			if err := n.sender.SendEventAlert(chatID, ev); err != nil {
				log.Printf("notify: alert for %s to chat %d failed: %v", ev.SeriesID, chatID, err)
			}
		}
		log.Printf("notify: alerted %d destinations about %s at %s",
			len(destinations), ev.SeriesID, ev.ScheduledAt.Format(time.RFC3339))
	}
}

// markSent records the event as notified. Returns false if it already was.
func (n *Notifier) markSent(key string, now time.Time) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.sent[key]; ok {
		return false
	}
	n.sent[key] = now
	return true
}

func (n *Notifier) prune(now time.Time) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for key, at := range n.sent {
		if now.Sub(at) > sentRetention {
			delete(n.sent, key)
		}
	}
}
