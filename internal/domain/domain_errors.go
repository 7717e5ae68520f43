package domain

import "errors"

var (
	ErrReminderNotFound = errors.New("reminder not found")

	ErrInvalidStatus = errors.New("invalid reminder status")

	ErrPastOccurrenceTime    = errors.New("occurrence time cannot be in the past")
	ErrEmptyReminderText     = errors.New("reminder text cannot be empty")
	ErrPreAlertOutOfRange    = errors.New("pre-alert must lie between now and the occurrence time")
	ErrPreAlertsNotAscending = errors.New("pre-alerts must be strictly ascending")
	ErrAlreadyNotified       = errors.New("reminder is already notified")
	ErrUnknownPreAlert       = errors.New("instant is not a pre-alert of this reminder")
	ErrTerminalStatus        = errors.New("reminder is in a terminal status")

	ErrInvalidReminderID = errors.New("invalid reminder ID")
	ErrInvalidUserID     = errors.New("invalid user ID: must be a positive integer")

	ErrNoFutureOccurrences = errors.New("recurrence produced no future occurrences")
	ErrUnknownWeekday      = errors.New("unknown weekday name")
	ErrUnknownRecurrence   = errors.New("unknown recurrence pattern")
)
