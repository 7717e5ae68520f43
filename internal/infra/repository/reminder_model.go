package repository

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/oskaros/reminder-engine/internal/domain"
)

// PreAlertsJSONB stores the ordered pre-alert instants as a JSONB array of
// RFC 3339 timestamps.
type PreAlertsJSONB []time.Time

func (p *PreAlertsJSONB) Scan(value interface{}) error {
	if value == nil {
		*p = nil

		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan PreAlertsJSONB: expected []byte")
	}

	return json.Unmarshal(bytes, p)
}

func (p PreAlertsJSONB) Value() (driver.Value, error) {
	if p == nil {
		return json.Marshal([]time.Time{})
	}

	return json.Marshal(p)
}

// NotifiedMapJSONB maps a canonical pre-alert key to its notified flag.
// Absence of a key means "not yet notified".
type NotifiedMapJSONB map[string]bool

func (n *NotifiedMapJSONB) Scan(value interface{}) error {
	if value == nil {
		*n = nil

		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan NotifiedMapJSONB: expected []byte")
	}

	return json.Unmarshal(bytes, n)
}

func (n NotifiedMapJSONB) Value() (driver.Value, error) {
	if n == nil {
		return json.Marshal(map[string]bool{})
	}

	return json.Marshal(n)
}

type ReminderModel struct {
	ID               string           `gorm:"column:id;type:uuid;primaryKey"`
	UserID           int64            `gorm:"column:user_id;type:bigint;not null;index:idx_reminders_user_id"`
	Text             string           `gorm:"column:text;type:text;not null"`
	OriginalInput    string           `gorm:"column:original_input;type:text;not null"`
	OccurrenceTime   time.Time        `gorm:"column:occurrence_time;type:timestamptz;not null;index:idx_reminders_occurrence_time"`
	PreAlerts        PreAlertsJSONB   `gorm:"column:pre_alerts;type:jsonb;not null"`
	Status           string           `gorm:"column:status;type:varchar(16);not null;index:idx_reminders_status"`
	Notified         bool             `gorm:"column:notified;type:boolean;not null;default:false"`
	PreAlertNotified NotifiedMapJSONB `gorm:"column:pre_alert_notified;type:jsonb;not null"`
	CreatedAt        time.Time        `gorm:"column:created_at;type:timestamptz;not null"`
}

func (ReminderModel) TableName() string {
	return "reminders"
}

func (m *ReminderModel) ToEntity() (*domain.Reminder, error) {
	reminderID, err := domain.ReminderIDFromString(m.ID)
	if err != nil {
		return nil, err
	}

	userID, err := domain.NewUserID(m.UserID)
	if err != nil {
		return nil, err
	}

	status, err := domain.NewStatus(m.Status)
	if err != nil {
		return nil, err
	}

	return domain.Reconstitute(
		reminderID,
		userID,
		m.Text,
		m.OriginalInput,
		m.OccurrenceTime,
		m.PreAlerts,
		status,
		m.Notified,
		m.PreAlertNotified,
		m.CreatedAt,
	), nil
}

func FromEntity(e *domain.Reminder) *ReminderModel {
	return &ReminderModel{
		ID:               e.ID().String(),
		UserID:           e.UserID().Int64(),
		Text:             e.Text(),
		OriginalInput:    e.OriginalInput(),
		OccurrenceTime:   e.OccurrenceTime(),
		PreAlerts:        e.PreAlerts(),
		Status:           string(e.Status()),
		Notified:         e.IsNotified(),
		PreAlertNotified: e.PreAlertNotified(),
		CreatedAt:        e.CreatedAt(),
	}
}
