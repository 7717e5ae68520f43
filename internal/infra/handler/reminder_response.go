package handler

import (
	"time"

	"github.com/oskaros/reminder-engine/internal/app"
)

type ReminderResponse struct {
	ID             string      `json:"id"`
	UserID         int64       `json:"user_id"`
	Text           string      `json:"text"`
	OriginalInput  string      `json:"original_input"`
	OccurrenceTime time.Time   `json:"occurrence_time"`
	PreAlerts      []time.Time `json:"pre_alerts"`
	Status         string      `json:"status"`
	Notified       bool        `json:"notified"`
	CreatedAt      time.Time   `json:"created_at"`
}

type RemindersResponse struct {
	Reminders []ReminderResponse `json:"reminders"`
	Count     int32              `json:"count"`
}

type SubmitResponse struct {
	Result       string             `json:"result"`
	Reminders    []ReminderResponse `json:"reminders,omitempty"`
	DeletedCount int64              `json:"deleted_count,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func FromDTO(output app.ReminderOutput) ReminderResponse {
	return ReminderResponse{
		ID:             output.ID,
		UserID:         output.UserID,
		Text:           output.Text,
		OriginalInput:  output.OriginalInput,
		OccurrenceTime: output.OccurrenceTime,
		PreAlerts:      output.PreAlerts,
		Status:         output.Status,
		Notified:       output.Notified,
		CreatedAt:      output.CreatedAt,
	}
}

func FromDTOs(output app.RemindersOutput) RemindersResponse {
	reminders := make([]ReminderResponse, 0, len(output.Reminders))
	for _, r := range output.Reminders {
		reminders = append(reminders, FromDTO(r))
	}

	return RemindersResponse{
		Reminders: reminders,
		Count:     output.Count,
	}
}

func FromSubmitDTO(output app.SubmitOutput) SubmitResponse {
	reminders := make([]ReminderResponse, 0, len(output.Reminders))
	for _, r := range output.Reminders {
		reminders = append(reminders, FromDTO(r))
	}

	return SubmitResponse{
		Result:       string(output.Kind),
		Reminders:    reminders,
		DeletedCount: output.DeletedCount,
	}
}
