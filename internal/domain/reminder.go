package domain

import (
	"time"
)

type Reminder struct {
	id               ReminderID
	userID           UserID
	text             string
	originalInput    string
	occurrenceTime   time.Time
	preAlerts        []time.Time
	status           Status
	notified         bool
	preAlertNotified map[string]bool
	createdAt        time.Time
}

// PreAlertKey is the canonical map key for a pre-alert instant.
func PreAlertKey(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// NewReminder validates and builds a pending reminder. The occurrence time
// must be strictly after now; past-dated reminders are rejected, never
// clamped. Pre-alerts must be strictly ascending and inside (now, occurrence).
func NewReminder(
	userID UserID,
	text string,
	originalInput string,
	occurrenceTime time.Time,
	preAlerts []time.Time,
	now time.Time,
) (*Reminder, error) {
	if text == "" {
		return nil, ErrEmptyReminderText
	}

	if !occurrenceTime.After(now) {
		return nil, ErrPastOccurrenceTime
	}

	for i, alert := range preAlerts {
		if !alert.After(now) || !alert.Before(occurrenceTime) {
			return nil, ErrPreAlertOutOfRange
		}

		if i > 0 && !alert.After(preAlerts[i-1]) {
			return nil, ErrPreAlertsNotAscending
		}
	}

	alerts := make([]time.Time, len(preAlerts))
	copy(alerts, preAlerts)

	return &Reminder{
		id:               NewReminderID(),
		userID:           userID,
		text:             text,
		originalInput:    originalInput,
		occurrenceTime:   occurrenceTime.UTC(),
		preAlerts:        alerts,
		status:           StatusPending,
		notified:         false,
		preAlertNotified: make(map[string]bool),
		createdAt:        now.UTC(),
	}, nil
}

// Reconstitute rebuilds a reminder from persisted state without validation.
func Reconstitute(
	id ReminderID,
	userID UserID,
	text string,
	originalInput string,
	occurrenceTime time.Time,
	preAlerts []time.Time,
	status Status,
	notified bool,
	preAlertNotified map[string]bool,
	createdAt time.Time,
) *Reminder {
	if preAlertNotified == nil {
		preAlertNotified = make(map[string]bool)
	}

	return &Reminder{
		id:               id,
		userID:           userID,
		text:             text,
		originalInput:    originalInput,
		occurrenceTime:   occurrenceTime,
		preAlerts:        preAlerts,
		status:           status,
		notified:         notified,
		preAlertNotified: preAlertNotified,
		createdAt:        createdAt,
	}
}

func (r *Reminder) MarkNotified() error {
	if r.notified {
		return ErrAlreadyNotified
	}

	r.notified = true

	return nil
}

// MarkPreAlertNotified records a dispatched pre-alert. Marking an already
// notified instant is harmless; the write is idempotent.
func (r *Reminder) MarkPreAlertNotified(instant time.Time) error {
	key := PreAlertKey(instant)

	found := false
	for _, alert := range r.preAlerts {
		if PreAlertKey(alert) == key {
			found = true

			break
		}
	}

	if !found {
		return ErrUnknownPreAlert
	}

	r.preAlertNotified[key] = true

	return nil
}

// Transition moves the reminder to a new lifecycle status. Terminal states
// never revert.
func (r *Reminder) Transition(next Status) error {
	if r.status.IsTerminal() {
		return ErrTerminalStatus
	}

	r.status = next

	return nil
}

func (r *Reminder) IsPreAlertNotified(instant time.Time) bool {
	return r.preAlertNotified[PreAlertKey(instant)]
}

func (r *Reminder) ID() ReminderID {
	return r.id
}

func (r *Reminder) UserID() UserID {
	return r.userID
}

func (r *Reminder) Text() string {
	return r.text
}

func (r *Reminder) OriginalInput() string {
	return r.originalInput
}

func (r *Reminder) OccurrenceTime() time.Time {
	return r.occurrenceTime
}

func (r *Reminder) PreAlerts() []time.Time {
	alerts := make([]time.Time, len(r.preAlerts))
	copy(alerts, r.preAlerts)

	return alerts
}

func (r *Reminder) Status() Status {
	return r.status
}

func (r *Reminder) IsNotified() bool {
	return r.notified
}

func (r *Reminder) PreAlertNotified() map[string]bool {
	m := make(map[string]bool, len(r.preAlertNotified))
	for k, v := range r.preAlertNotified {
		m[k] = v
	}

	return m
}

func (r *Reminder) CreatedAt() time.Time {
	return r.createdAt
}
