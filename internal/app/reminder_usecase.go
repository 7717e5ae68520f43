package app

import (
	"context"
)

type ReminderUseCase interface {
	// Submit runs the full free-text pipeline: classification, temporal
	// resolution, recurrence expansion and persistence.
	Submit(ctx context.Context, input SubmitInput) (SubmitOutput, error)
	ListPending(ctx context.Context, input ListPendingInput) (RemindersOutput, error)
	Rename(ctx context.Context, input RenameInput) (RemindersOutput, error)
}
