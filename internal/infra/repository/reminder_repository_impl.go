package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/oskaros/reminder-engine/internal/domain"
)

type reminderRepositoryImpl struct {
	db *gorm.DB
}

func NewReminderRepository(db *gorm.DB) domain.ReminderRepository {
	return &reminderRepositoryImpl{
		db: db,
	}
}

func (r *reminderRepositoryImpl) Save(ctx context.Context, reminder *domain.Reminder) error {
	slog.Debug("saving reminder to database",
		"reminder_id", reminder.ID().String(),
	)

	m := FromEntity(reminder)

	result := r.db.WithContext(ctx).Create(m)
	if result.Error != nil {
		slog.Error("failed to save reminder to database",
			"reminder_id", reminder.ID().String(),
			"error", result.Error,
		)

		return result.Error
	}

	return nil
}

func (r *reminderRepositoryImpl) FindByID(ctx context.Context, id domain.ReminderID) (*domain.Reminder, error) {
	var m ReminderModel

	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&m)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrReminderNotFound
		}

		slog.Error("failed to find reminder by ID",
			"reminder_id", id.String(),
			"error", result.Error,
		)

		return nil, result.Error
	}

	return m.ToEntity()
}

// FindPendingByUser lists only future reminders; rows already past their
// occurrence time stay hidden until housekeeping retires them.
func (r *reminderRepositoryImpl) FindPendingByUser(ctx context.Context, userID domain.UserID, after time.Time, limit int) ([]*domain.Reminder, error) {
	var models []ReminderModel

	result := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID.Int64(), string(domain.StatusPending)).
		Where("occurrence_time > ?", after).
		Order("occurrence_time ASC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		slog.Error("failed to find pending reminders",
			"user_id", userID.Int64(),
			"error", result.Error,
		)

		return nil, result.Error
	}

	return toEntities(models)
}

// FindPendingInWindow matches reminders whose main time falls inside
// [start, end], plus reminders with at least one pre-alert inside it.
// Pre-alerts live in a JSONB array, so the second leg unnests it in SQL.
func (r *reminderRepositoryImpl) FindPendingInWindow(ctx context.Context, start, end time.Time) ([]*domain.Reminder, error) {
	var models []ReminderModel

	result := r.db.WithContext(ctx).
		Where("status = ?", string(domain.StatusPending)).
		Where(
			"(occurrence_time BETWEEN ? AND ?) OR EXISTS (SELECT 1 FROM jsonb_array_elements_text(pre_alerts) AS pa WHERE (pa.value)::timestamptz BETWEEN ? AND ?)",
			start, end, start, end,
		).
		Order("occurrence_time ASC").
		Find(&models)
	if result.Error != nil {
		slog.Error("failed to find reminders in window",
			"start", start,
			"end", end,
			"error", result.Error,
		)

		return nil, result.Error
	}

	return toEntities(models)
}

func (r *reminderRepositoryImpl) FindByTextPattern(ctx context.Context, userID domain.UserID, pattern string) ([]*domain.Reminder, error) {
	var models []ReminderModel

	like := "%" + pattern + "%"

	result := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID.Int64(), string(domain.StatusPending)).
		Where("text ILIKE ? OR original_input ILIKE ?", like, like).
		Order("occurrence_time ASC").
		Find(&models)
	if result.Error != nil {
		slog.Error("failed to find reminders by text pattern",
			"user_id", userID.Int64(),
			"pattern", pattern,
			"error", result.Error,
		)

		return nil, result.Error
	}

	return toEntities(models)
}

func (r *reminderRepositoryImpl) FindPendingPast(ctx context.Context, before time.Time) ([]*domain.Reminder, error) {
	var models []ReminderModel

	result := r.db.WithContext(ctx).
		Where("status = ? AND occurrence_time < ?", string(domain.StatusPending), before).
		Order("occurrence_time ASC").
		Find(&models)
	if result.Error != nil {
		slog.Error("failed to find past pending reminders",
			"before", before,
			"error", result.Error,
		)

		return nil, result.Error
	}

	return toEntities(models)
}

func (r *reminderRepositoryImpl) UpdateStatus(ctx context.Context, id domain.ReminderID, status domain.Status) error {
	result := r.db.WithContext(ctx).
		Model(&ReminderModel{}).
		Where("id = ?", id.String()).
		Update("status", string(status))
	if result.Error != nil {
		slog.Error("failed to update reminder status",
			"reminder_id", id.String(),
			"status", string(status),
			"error", result.Error,
		)

		return result.Error
	}

	if result.RowsAffected == 0 {
		return domain.ErrReminderNotFound
	}

	return nil
}

func (r *reminderRepositoryImpl) UpdateText(ctx context.Context, id domain.ReminderID, text string) error {
	result := r.db.WithContext(ctx).
		Model(&ReminderModel{}).
		Where("id = ?", id.String()).
		Update("text", text)
	if result.Error != nil {
		slog.Error("failed to update reminder text",
			"reminder_id", id.String(),
			"error", result.Error,
		)

		return result.Error
	}

	if result.RowsAffected == 0 {
		return domain.ErrReminderNotFound
	}

	return nil
}

// MarkNotified sets the main-time flag. Setting a boolean true twice is
// harmless, which is what makes the dispatcher safe to race.
func (r *reminderRepositoryImpl) MarkNotified(ctx context.Context, id domain.ReminderID) error {
	result := r.db.WithContext(ctx).
		Model(&ReminderModel{}).
		Where("id = ?", id.String()).
		Update("notified", true)
	if result.Error != nil {
		slog.Error("failed to mark reminder notified",
			"reminder_id", id.String(),
			"error", result.Error,
		)

		return result.Error
	}

	if result.RowsAffected == 0 {
		return domain.ErrReminderNotFound
	}

	return nil
}

// MarkPreAlertNotified flips one instant key inside the JSONB map in a
// single atomic update.
func (r *reminderRepositoryImpl) MarkPreAlertNotified(ctx context.Context, id domain.ReminderID, instantKey string) error {
	result := r.db.WithContext(ctx).
		Model(&ReminderModel{}).
		Where("id = ?", id.String()).
		Update("pre_alert_notified", gorm.Expr(
			"COALESCE(pre_alert_notified, '{}'::jsonb) || jsonb_build_object(?::text, true)",
			instantKey,
		))
	if result.Error != nil {
		slog.Error("failed to mark pre-alert notified",
			"reminder_id", id.String(),
			"instant_key", instantKey,
			"error", result.Error,
		)

		return result.Error
	}

	if result.RowsAffected == 0 {
		return domain.ErrReminderNotFound
	}

	return nil
}

func (r *reminderRepositoryImpl) Delete(ctx context.Context, id domain.ReminderID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&ReminderModel{})
	if result.Error != nil {
		slog.Error("failed to delete reminder",
			"reminder_id", id.String(),
			"error", result.Error,
		)

		return result.Error
	}

	if result.RowsAffected == 0 {
		return domain.ErrReminderNotFound
	}

	return nil
}

func (r *reminderRepositoryImpl) WithTx(ctx context.Context, fn func(repo domain.ReminderRepository) error) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		slog.Error("failed to begin transaction",
			"error", tx.Error,
		)

		return tx.Error
	}

	txRepo := &reminderRepositoryImpl{db: tx}

	if err := fn(txRepo); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			slog.Error("failed to rollback transaction",
				"error", rbErr,
				"original_error", err,
			)
		}

		return err
	}

	if err := tx.Commit().Error; err != nil {
		slog.Error("failed to commit transaction",
			"error", err,
		)

		return err
	}

	return nil
}

func toEntities(models []ReminderModel) ([]*domain.Reminder, error) {
	reminders := make([]*domain.Reminder, 0, len(models))
	for _, m := range models {
		reminder, err := m.ToEntity()
		if err != nil {
			slog.Error("failed to convert model to entity",
				"reminder_id", m.ID,
				"error", err,
			)

			return nil, err
		}

		reminders = append(reminders, reminder)
	}

	return reminders, nil
}
