// Package calendar mirrors reminders into an external CalDAV calendar.
// Sync is strictly best-effort: every failure is logged and swallowed so the
// primary reminder flow is never blocked by calendar availability.
package calendar

import (
	"context"
	"time"
)

type Event struct {
	// UID identifies the event on the remote calendar. Callers derive it
	// from the reminder ID so later deletes address the same resource.
	UID         string
	Title       string
	Description string
	Start       time.Time
	Duration    time.Duration
}

type Calendar interface {
	CreateEvent(ctx context.Context, event Event) error
	DeleteEvent(ctx context.Context, uid string) error
	UpdateEventTitle(ctx context.Context, uid, title string) error
}

// Noop replaces the calendar when none is configured.
type Noop struct{}

func NewNoop() *Noop {
	return &Noop{}
}

func (*Noop) CreateEvent(context.Context, Event) error { return nil }

func (*Noop) DeleteEvent(context.Context, string) error { return nil }

func (*Noop) UpdateEventTitle(context.Context, string, string) error { return nil }
