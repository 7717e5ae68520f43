package pubsub

import (
	"context"
	"io"
	"time"
)

const TopicReminderCancelled = "reminder.cancelled"

// ReminderCancelledEvent is emitted whenever reminders are cancelled by an
// explicit deletion or a recurrence-exception edit.
type ReminderCancelledEvent struct {
	UserID        int64     `json:"user_id"`
	TargetPattern string    `json:"target_pattern"`
	ReminderIDs   []string  `json:"reminder_ids"`
	DeletedCount  int64     `json:"deleted_count"`
	CancelledAt   time.Time `json:"cancelled_at"`
}

type Publisher interface {
	PublishReminderCancelled(ctx context.Context, event ReminderCancelledEvent) error
	io.Closer
}
