package domain

import (
	"context"
	"time"
)

// ReminderRepository is the persistence contract for reminders. Query methods
// never mutate; MarkNotified and MarkPreAlertNotified must be atomic per
// instant and idempotent, since the dispatcher may race a concurrent tick.
type ReminderRepository interface {
	Save(ctx context.Context, reminder *Reminder) error
	FindByID(ctx context.Context, id ReminderID) (*Reminder, error)
	// FindPendingByUser returns pending reminders for the user whose
	// occurrence time lies strictly after the given instant, ordered by
	// occurrence time ascending, at most limit rows.
	FindPendingByUser(ctx context.Context, userID UserID, after time.Time, limit int) ([]*Reminder, error)
	// FindPendingInWindow returns pending reminders whose occurrence time or
	// any pre-alert lies inside [start, end].
	FindPendingInWindow(ctx context.Context, start, end time.Time) ([]*Reminder, error)
	// FindByTextPattern matches pending reminders whose text or original
	// input contains the pattern, case-insensitively.
	FindByTextPattern(ctx context.Context, userID UserID, pattern string) ([]*Reminder, error)
	FindPendingPast(ctx context.Context, before time.Time) ([]*Reminder, error)
	UpdateStatus(ctx context.Context, id ReminderID, status Status) error
	UpdateText(ctx context.Context, id ReminderID, text string) error
	MarkNotified(ctx context.Context, id ReminderID) error
	MarkPreAlertNotified(ctx context.Context, id ReminderID, instantKey string) error
	Delete(ctx context.Context, id ReminderID) error
	WithTx(ctx context.Context, fn func(repo ReminderRepository) error) error
}
