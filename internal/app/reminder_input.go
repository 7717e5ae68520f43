package app

import "time"

type SubmitInput struct {
	UserID  int64
	RawText string
	// Now is the reference instant for all temporal decisions in this
	// request. The handler supplies it once so parsing, validation and
	// expansion agree on a single clock reading.
	Now time.Time
}

type ListPendingInput struct {
	UserID int64
	Limit  int
	// Now bounds the listing: only reminders still ahead of this instant
	// are returned, even when housekeeping has not yet swept past ones.
	Now time.Time
}

type RenameInput struct {
	UserID        int64
	TargetPattern string
	NewText       string
}
