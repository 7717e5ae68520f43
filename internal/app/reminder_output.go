package app

import (
	"time"

	"github.com/oskaros/reminder-engine/internal/domain"
)

type SubmitKind string

const (
	SubmitCreated       SubmitKind = "created"
	SubmitDeleted       SubmitKind = "deleted"
	SubmitException     SubmitKind = "exception"
	SubmitNotActionable SubmitKind = "not_actionable"
)

type ReminderOutput struct {
	ID             string
	UserID         int64
	Text           string
	OriginalInput  string
	OccurrenceTime time.Time
	PreAlerts      []time.Time
	Status         string
	Notified       bool
	CreatedAt      time.Time
}

type RemindersOutput struct {
	Reminders []ReminderOutput
	Count     int32
}

// SubmitOutput is a tagged result: Kind says which of the remaining fields
// carry meaning.
type SubmitOutput struct {
	Kind      SubmitKind
	Reminders []ReminderOutput
	// DeletedCount counts cancelled reminders for deletion and exception
	// results.
	DeletedCount int64
}

func FromEntity(reminder *domain.Reminder) ReminderOutput {
	return ReminderOutput{
		ID:             reminder.ID().String(),
		UserID:         reminder.UserID().Int64(),
		Text:           reminder.Text(),
		OriginalInput:  reminder.OriginalInput(),
		OccurrenceTime: reminder.OccurrenceTime(),
		PreAlerts:      reminder.PreAlerts(),
		Status:         string(reminder.Status()),
		Notified:       reminder.IsNotified(),
		CreatedAt:      reminder.CreatedAt(),
	}
}

func FromEntities(reminders []*domain.Reminder) RemindersOutput {
	outputs := make([]ReminderOutput, 0, len(reminders))
	for _, r := range reminders {
		outputs = append(outputs, FromEntity(r))
	}

	return RemindersOutput{
		Reminders: outputs,
		Count:     int32(len(outputs)),
	}
}
