package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/oskaros/reminder-engine/internal/domain"
	"github.com/oskaros/reminder-engine/internal/infra/notifier"
)

type DispatcherConfig struct {
	// SendDelay spaces consecutive sends within one tick to respect
	// downstream rate limits. It is politeness, not correctness.
	SendDelay time.Duration
	// MissThreshold is the number of consecutive failed deliveries after
	// which a record is surfaced as missed instead of retried.
	MissThreshold int
	// SendTimeout bounds each delivery call so a slow channel cannot
	// stall the tick.
	SendTimeout time.Duration
}

type Dispatcher struct {
	repo     domain.ReminderRepository
	notifier notifier.Notifier
	cfg      DispatcherConfig

	mu       sync.Mutex
	failures map[string]int
}

func NewDispatcher(repo domain.ReminderRepository, n notifier.Notifier, cfg DispatcherConfig) *Dispatcher {
	if cfg.MissThreshold <= 0 {
		cfg.MissThreshold = 3
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 10 * time.Second
	}

	return &Dispatcher{
		repo:     repo,
		notifier: n,
		cfg:      cfg,
		failures: make(map[string]int),
	}
}

// Dispatch sends every due record and marks each instant notified only on
// confirmed delivery. A failed record stays untouched and is re-offered by
// the next scan tick.
func (d *Dispatcher) Dispatch(ctx context.Context, records []DueRecord) {
	for i, record := range records {
		if i > 0 && d.cfg.SendDelay > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(d.cfg.SendDelay):
			}
		}

		d.dispatchOne(ctx, record)
	}
}

func (d *Dispatcher) dispatchOne(ctx context.Context, record DueRecord) {
	sendCtx, cancel := context.WithTimeout(ctx, d.cfg.SendTimeout)
	defer cancel()

	message := formatMessage(record)

	if err := d.notifier.Send(sendCtx, record.Reminder.UserID(), message); err != nil {
		d.recordFailure(ctx, record, err)

		return
	}

	d.resetFailures(record)

	var markErr error
	switch record.Kind {
	case DueMain:
		markErr = d.repo.MarkNotified(ctx, record.Reminder.ID())
	case DuePreAlert:
		markErr = d.repo.MarkPreAlertNotified(ctx, record.Reminder.ID(), domain.PreAlertKey(record.Instant))
	}

	if markErr != nil {
		// The message went out but the flag did not stick; the next tick
		// re-offers the record and the user may see a duplicate.
		slog.Error("failed to mark instant notified",
			"reminder_id", record.Reminder.ID().String(),
			"kind", string(record.Kind),
			"error", markErr,
		)

		return
	}

	slog.Info("notification dispatched",
		"reminder_id", record.Reminder.ID().String(),
		"user_id", record.Reminder.UserID().Int64(),
		"kind", string(record.Kind),
		"instant", record.Instant,
	)
}

func (d *Dispatcher) recordFailure(ctx context.Context, record DueRecord, err error) {
	d.mu.Lock()
	d.failures[record.Key()]++
	count := d.failures[record.Key()]
	d.mu.Unlock()

	slog.Warn("notification delivery failed",
		"reminder_id", record.Reminder.ID().String(),
		"kind", string(record.Kind),
		"consecutive_failures", count,
		"error", err,
	)

	if count < d.cfg.MissThreshold {
		return
	}

	// Repeated failure: surface the reminder as missed rather than retry
	// forever. Pre-alert records are dropped silently, the main time still
	// has its own chance.
	if record.Kind == DueMain {
		if updErr := d.repo.UpdateStatus(ctx, record.Reminder.ID(), domain.StatusMissed); updErr != nil {
			slog.Error("failed to mark reminder missed",
				"reminder_id", record.Reminder.ID().String(),
				"error", updErr,
			)

			return
		}

		slog.Warn("reminder marked missed after repeated delivery failures",
			"reminder_id", record.Reminder.ID().String(),
			"failures", count,
		)
	}

	d.resetFailures(record)
}

func (d *Dispatcher) resetFailures(record DueRecord) {
	d.mu.Lock()
	delete(d.failures, record.Key())
	d.mu.Unlock()
}

func formatMessage(record DueRecord) string {
	if record.Kind == DuePreAlert {
		lead := record.Reminder.OccurrenceTime().Sub(record.Instant)

		return fmt.Sprintf("⏰ Upcoming reminder (%s ahead)\n\n📝 %s", humanizeLead(lead), record.Reminder.Text())
	}

	return fmt.Sprintf("🔔 Reminder\n\n📝 %s", record.Reminder.Text())
}

func humanizeLead(lead time.Duration) string {
	days := int(lead.Hours() / 24)
	if days >= 1 {
		if days == 1 {
			return "1 day"
		}

		return fmt.Sprintf("%d days", days)
	}

	hours := int(lead.Hours())
	if hours >= 1 {
		return fmt.Sprintf("%d hours", hours)
	}

	return fmt.Sprintf("%d minutes", int(lead.Minutes()))
}
