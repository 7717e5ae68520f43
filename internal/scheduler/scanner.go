// Package scheduler drives the periodic due-item scan and notification
// dispatch. One scan pass runs at a time; all state lives in the store, so
// re-running a scan without an intervening dispatch yields the same due set.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/oskaros/reminder-engine/internal/domain"
)

type DueKind string

const (
	DueMain     DueKind = "main"
	DuePreAlert DueKind = "pre_alert"
)

// DueRecord names one (reminder, instant) pair that is due right now. A
// single reminder can surface as several records in one tick when its main
// time and a pre-alert coincide inside the tolerance window.
type DueRecord struct {
	Reminder *domain.Reminder
	Kind     DueKind
	Instant  time.Time
}

// Key identifies the record across ticks, for failure tracking.
func (r DueRecord) Key() string {
	return fmt.Sprintf("%s|%s|%s", r.Reminder.ID().String(), r.Kind, domain.PreAlertKey(r.Instant))
}

type Scanner struct {
	repo      domain.ReminderRepository
	tolerance time.Duration
	lookback  time.Duration
}

// NewScanner builds a scanner whose window reaches tolerance ahead of now
// and lookback behind it. The look-back must cover several tick intervals:
// an instant whose send failed is only re-offered while it stays inside the
// window, so a look-back no larger than the tolerance would drop it after a
// single attempt.
func NewScanner(repo domain.ReminderRepository, tolerance, lookback time.Duration) *Scanner {
	if lookback < tolerance {
		lookback = tolerance
	}

	return &Scanner{
		repo:      repo,
		tolerance: tolerance,
		lookback:  lookback,
	}
}

// Scan decides which notifications are due at now. It performs no writes;
// only a confirmed dispatch retires a record.
func (s *Scanner) Scan(ctx context.Context, now time.Time) ([]DueRecord, error) {
	reminders, err := s.repo.FindPendingInWindow(ctx, now.Add(-s.lookback), now.Add(s.tolerance))
	if err != nil {
		return nil, fmt.Errorf("failed to query pending window: %w", err)
	}

	var due []DueRecord

	for _, reminder := range reminders {
		if !reminder.IsNotified() && s.within(reminder.OccurrenceTime(), now) {
			due = append(due, DueRecord{
				Reminder: reminder,
				Kind:     DueMain,
				Instant:  reminder.OccurrenceTime(),
			})
		}

		for _, alert := range reminder.PreAlerts() {
			if !reminder.IsPreAlertNotified(alert) && s.within(alert, now) {
				due = append(due, DueRecord{
					Reminder: reminder,
					Kind:     DuePreAlert,
					Instant:  alert,
				})
			}
		}
	}

	slog.Debug("scan pass complete",
		"now", now,
		"candidates", len(reminders),
		"due", len(due),
	)

	return due, nil
}

func (s *Scanner) within(instant, now time.Time) bool {
	diff := instant.Sub(now)

	return diff >= -s.lookback && diff <= s.tolerance
}
