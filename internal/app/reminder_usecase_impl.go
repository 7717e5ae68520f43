package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oskaros/reminder-engine/internal/classifier"
	"github.com/oskaros/reminder-engine/internal/domain"
	"github.com/oskaros/reminder-engine/internal/infra/calendar"
	"github.com/oskaros/reminder-engine/internal/infra/interpreter"
	"github.com/oskaros/reminder-engine/internal/infra/pubsub"
	"github.com/oskaros/reminder-engine/internal/timeparse"
)

type reminderUseCaseImpl struct {
	repo        domain.ReminderRepository
	classifier  *classifier.Classifier
	parser      *timeparse.Parser
	preAlerts   *domain.PreAlertCalculator
	expander    *domain.RecurrenceExpander
	offsets     []time.Duration
	interpreter interpreter.Interpreter
	calendar    calendar.Calendar
	publisher   pubsub.Publisher
}

// NewReminderUseCase wires the submit pipeline. interp and cal must be
// non-nil; pass their Noop implementations when unconfigured. publisher may
// be nil, cancellation events are then skipped.
func NewReminderUseCase(
	repo domain.ReminderRepository,
	interp interpreter.Interpreter,
	cal calendar.Calendar,
	publisher pubsub.Publisher,
	preAlertOffsets []time.Duration,
) ReminderUseCase {
	if len(preAlertOffsets) == 0 {
		preAlertOffsets = domain.DefaultPreAlertOffsets
	}

	return &reminderUseCaseImpl{
		repo:        repo,
		classifier:  classifier.NewClassifier(),
		parser:      timeparse.NewParser(),
		preAlerts:   domain.NewPreAlertCalculator(),
		expander:    domain.NewRecurrenceExpander(),
		offsets:     preAlertOffsets,
		interpreter: interp,
		calendar:    cal,
		publisher:   publisher,
	}
}

func (uc *reminderUseCaseImpl) Submit(ctx context.Context, input SubmitInput) (SubmitOutput, error) {
	if input.RawText == "" {
		return SubmitOutput{}, NewValidationError("text", "text is required")
	}

	userID, err := domain.NewUserID(input.UserID)
	if err != nil {
		return SubmitOutput{}, NewValidationError("user_id", err.Error())
	}

	now := input.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	result := uc.classifier.Classify(input.RawText)

	slog.Debug("classified submission",
		"user_id", userID.Int64(),
		"intent", string(result.Intent),
		"signals", result.MatchedSignals,
	)

	switch result.Intent {
	case classifier.IntentCreate:
		return uc.create(ctx, userID, input.RawText, now)
	case classifier.IntentDeleteSpecific:
		return uc.cancelMatching(ctx, userID, result.TargetPattern, now, true)
	case classifier.IntentDeletePattern:
		return uc.cancelMatching(ctx, userID, result.TargetPattern, now, false)
	case classifier.IntentModifyException:
		return uc.applyException(ctx, userID, result, now)
	default:
		return SubmitOutput{Kind: SubmitNotActionable}, nil
	}
}

func (uc *reminderUseCaseImpl) create(ctx context.Context, userID domain.UserID, rawText string, now time.Time) (SubmitOutput, error) {
	text := timeparse.CleanText(rawText)

	if rec, ok := uc.parser.Recurrence(rawText); ok {
		return uc.createRecurring(ctx, userID, rawText, text, rec, now)
	}

	occurrence, err := uc.resolveTime(ctx, rawText, now)
	if err != nil {
		return SubmitOutput{}, err
	}

	reminder, err := uc.newReminder(userID, text, rawText, occurrence, now)
	if err != nil {
		return SubmitOutput{}, err
	}

	if err := uc.repo.Save(ctx, reminder); err != nil {
		slog.Error("failed to save reminder",
			"error", err,
			"user_id", userID.Int64(),
		)

		return SubmitOutput{}, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	uc.syncCalendarCreate(ctx, reminder)

	slog.Info("reminder created",
		"reminder_id", reminder.ID().String(),
		"user_id", userID.Int64(),
		"occurrence_time", reminder.OccurrenceTime(),
		"pre_alerts", len(reminder.PreAlerts()),
	)

	return SubmitOutput{
		Kind:      SubmitCreated,
		Reminders: []ReminderOutput{FromEntity(reminder)},
	}, nil
}

func (uc *reminderUseCaseImpl) createRecurring(
	ctx context.Context,
	userID domain.UserID,
	rawText, text string,
	rec domain.Recurrence,
	now time.Time,
) (SubmitOutput, error) {
	// Expansion anchors on the submission day, so the first occurrence is
	// the next match after now, never a full cycle later. An explicit
	// clock time only shifts the anchor's clock.
	base := now
	if hour, minute, ok := timeparse.ClockTime(rawText); ok {
		base = time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	}

	occurrences, err := uc.expander.Expand(rec, text, base)
	if err != nil {
		return SubmitOutput{}, NewValidationError("recurrence", err.Error())
	}

	reminders := make([]*domain.Reminder, 0, len(occurrences))
	for _, occ := range occurrences {
		if !occ.Time.After(now) {
			continue
		}

		reminder, err := uc.newReminder(userID, occ.Text, rawText, occ.Time, now)
		if err != nil {
			return SubmitOutput{}, err
		}

		reminders = append(reminders, reminder)
	}

	if len(reminders) == 0 {
		return SubmitOutput{}, ErrNoFutureOccurrences
	}

	if err := uc.repo.WithTx(ctx, func(txRepo domain.ReminderRepository) error {
		for _, reminder := range reminders {
			if err := txRepo.Save(ctx, reminder); err != nil {
				return err
			}
		}

		return nil
	}); err != nil {
		slog.Error("failed to save recurring reminders",
			"error", err,
			"user_id", userID.Int64(),
			"count", len(reminders),
		)

		return SubmitOutput{}, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	for _, reminder := range reminders {
		uc.syncCalendarCreate(ctx, reminder)
	}

	slog.Info("recurring reminders created",
		"user_id", userID.Int64(),
		"kind", string(rec.Kind),
		"count", len(reminders),
	)

	return SubmitOutput{
		Kind:      SubmitCreated,
		Reminders: FromEntities(reminders).Reminders,
	}, nil
}

// resolveTime tries the deterministic parser first and falls back to the
// external interpreter. An interpreter that answers "no interpretation"
// degrades to ErrAmbiguousIntent so the caller asks for clarification; a
// transport failure is surfaced as such.
func (uc *reminderUseCaseImpl) resolveTime(ctx context.Context, rawText string, now time.Time) (time.Time, error) {
	if parsed, ok := uc.parser.Parse(rawText, now); ok {
		return parsed, nil
	}

	interpreted, err := uc.interpreter.Interpret(ctx, rawText, now)
	if err != nil {
		if errors.Is(err, interpreter.ErrNoInterpretation) {
			return time.Time{}, ErrAmbiguousIntent
		}

		slog.Warn("external interpretation failed",
			"error", err,
		)

		return time.Time{}, fmt.Errorf("%w: %v", ErrExternalLookupFailed, err)
	}

	return interpreted, nil
}

func (uc *reminderUseCaseImpl) newReminder(userID domain.UserID, text, rawText string, occurrence, now time.Time) (*domain.Reminder, error) {
	alerts := uc.preAlerts.Compute(occurrence, uc.offsets, now)

	reminder, err := domain.NewReminder(userID, text, rawText, occurrence, alerts, now)
	if err != nil {
		if errors.Is(err, domain.ErrPastOccurrenceTime) {
			return nil, fmt.Errorf("%w: %s", ErrPastDateRejected, occurrence.Format(time.RFC3339))
		}

		return nil, NewValidationError("reminder", err.Error())
	}

	return reminder, nil
}

// cancelMatching cancels pending reminders whose text matches the pattern.
// firstOnly narrows a specific deletion to the soonest match; a pattern
// deletion cancels every match.
func (uc *reminderUseCaseImpl) cancelMatching(ctx context.Context, userID domain.UserID, pattern string, now time.Time, firstOnly bool) (SubmitOutput, error) {
	if pattern == "" {
		return SubmitOutput{}, NewValidationError("target", "deletion target is required")
	}

	matches, err := uc.repo.FindByTextPattern(ctx, userID, pattern)
	if err != nil {
		slog.Error("failed to find reminders for deletion",
			"error", err,
			"user_id", userID.Int64(),
			"pattern", pattern,
		)

		return SubmitOutput{}, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	if len(matches) == 0 {
		return SubmitOutput{}, fmt.Errorf("%w: no reminders match %q", ErrNotFound, pattern)
	}

	if firstOnly {
		matches = matches[:1]
	}

	cancelled, err := uc.cancelAll(ctx, matches)
	if err != nil {
		return SubmitOutput{}, err
	}

	uc.publishCancelled(ctx, userID, pattern, cancelled, now)

	slog.Info("reminders cancelled",
		"user_id", userID.Int64(),
		"pattern", pattern,
		"count", len(cancelled),
	)

	return SubmitOutput{
		Kind:         SubmitDeleted,
		DeletedCount: int64(len(cancelled)),
	}, nil
}

// applyException cancels only the occurrences of a recurring series that
// fall on the excepted weekdays or dates; the rest of the series survives.
func (uc *reminderUseCaseImpl) applyException(ctx context.Context, userID domain.UserID, result classifier.Result, now time.Time) (SubmitOutput, error) {
	if result.TargetPattern == "" {
		return SubmitOutput{}, NewValidationError("target", "exception target is required")
	}

	if len(result.ExceptionWeekdays) == 0 && len(result.ExceptionDates) == 0 {
		return SubmitOutput{}, fmt.Errorf("%w: exception names no weekday or date", ErrAmbiguousIntent)
	}

	matches, err := uc.repo.FindByTextPattern(ctx, userID, result.TargetPattern)
	if err != nil {
		slog.Error("failed to find reminders for exception",
			"error", err,
			"user_id", userID.Int64(),
			"pattern", result.TargetPattern,
		)

		return SubmitOutput{}, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	excepted := make([]*domain.Reminder, 0, len(matches))
	for _, reminder := range matches {
		if uc.isExcepted(reminder.OccurrenceTime(), result) {
			excepted = append(excepted, reminder)
		}
	}

	if len(excepted) == 0 {
		return SubmitOutput{}, fmt.Errorf("%w: no occurrences fall on the excepted days", ErrNotFound)
	}

	cancelled, err := uc.cancelAll(ctx, excepted)
	if err != nil {
		return SubmitOutput{}, err
	}

	uc.publishCancelled(ctx, userID, result.TargetPattern, cancelled, now)

	slog.Info("recurrence exception applied",
		"user_id", userID.Int64(),
		"pattern", result.TargetPattern,
		"exception_weekdays", result.ExceptionWeekdays,
		"cancelled", len(cancelled),
	)

	return SubmitOutput{
		Kind:         SubmitException,
		DeletedCount: int64(len(cancelled)),
	}, nil
}

func (uc *reminderUseCaseImpl) isExcepted(occurrence time.Time, result classifier.Result) bool {
	resolver := domain.NewWeekdayResolver()
	occOrdinal := (int(occurrence.Weekday()) + 6) % 7

	for _, name := range result.ExceptionWeekdays {
		ordinal, err := resolver.Ordinal(name)
		if err == nil && ordinal == occOrdinal {
			return true
		}
	}

	for _, date := range result.ExceptionDates {
		if parsed, err := time.ParseInLocation("2/1/2006", date, occurrence.Location()); err == nil {
			if sameDay(parsed, occurrence) {
				return true
			}
		}
	}

	return false
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()

	return ay == by && am == bm && ad == bd
}

func (uc *reminderUseCaseImpl) cancelAll(ctx context.Context, reminders []*domain.Reminder) ([]domain.ReminderID, error) {
	cancelled := make([]domain.ReminderID, 0, len(reminders))

	if err := uc.repo.WithTx(ctx, func(txRepo domain.ReminderRepository) error {
		for _, reminder := range reminders {
			if err := txRepo.UpdateStatus(ctx, reminder.ID(), domain.StatusCancelled); err != nil {
				return err
			}

			cancelled = append(cancelled, reminder.ID())
		}

		return nil
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	for _, id := range cancelled {
		if err := uc.calendar.DeleteEvent(ctx, id.String()); err != nil {
			slog.Warn("calendar event deletion failed",
				"reminder_id", id.String(),
				"error", err,
			)
		}
	}

	return cancelled, nil
}

func (uc *reminderUseCaseImpl) publishCancelled(ctx context.Context, userID domain.UserID, pattern string, cancelled []domain.ReminderID, now time.Time) {
	if uc.publisher == nil || len(cancelled) == 0 {
		return
	}

	ids := make([]string, len(cancelled))
	for i, id := range cancelled {
		ids[i] = id.String()
	}

	event := pubsub.ReminderCancelledEvent{
		UserID:        userID.Int64(),
		TargetPattern: pattern,
		ReminderIDs:   ids,
		DeletedCount:  int64(len(ids)),
		CancelledAt:   now,
	}
	if err := uc.publisher.PublishReminderCancelled(ctx, event); err != nil {
		slog.Error("failed to publish reminder cancelled event",
			"user_id", userID.Int64(),
			"error", err.Error(),
		)
	}
}

func (uc *reminderUseCaseImpl) syncCalendarCreate(ctx context.Context, reminder *domain.Reminder) {
	event := calendar.Event{
		UID:         reminder.ID().String(),
		Title:       reminder.Text(),
		Description: "Original request: " + reminder.OriginalInput(),
		Start:       reminder.OccurrenceTime(),
		Duration:    time.Hour,
	}
	if err := uc.calendar.CreateEvent(ctx, event); err != nil {
		slog.Warn("calendar event creation failed",
			"reminder_id", reminder.ID().String(),
			"error", err,
		)
	}
}

func (uc *reminderUseCaseImpl) ListPending(ctx context.Context, input ListPendingInput) (RemindersOutput, error) {
	userID, err := domain.NewUserID(input.UserID)
	if err != nil {
		return RemindersOutput{}, NewValidationError("user_id", err.Error())
	}

	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	now := input.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	reminders, err := uc.repo.FindPendingByUser(ctx, userID, now, limit)
	if err != nil {
		slog.Error("failed to list pending reminders",
			"error", err,
			"user_id", userID.Int64(),
		)

		return RemindersOutput{}, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	return FromEntities(reminders), nil
}

func (uc *reminderUseCaseImpl) Rename(ctx context.Context, input RenameInput) (RemindersOutput, error) {
	userID, err := domain.NewUserID(input.UserID)
	if err != nil {
		return RemindersOutput{}, NewValidationError("user_id", err.Error())
	}

	if input.TargetPattern == "" {
		return RemindersOutput{}, NewValidationError("target", "rename target is required")
	}

	if input.NewText == "" {
		return RemindersOutput{}, NewValidationError("text", "new text is required")
	}

	matches, err := uc.repo.FindByTextPattern(ctx, userID, input.TargetPattern)
	if err != nil {
		return RemindersOutput{}, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	if len(matches) == 0 {
		return RemindersOutput{}, fmt.Errorf("%w: no reminders match %q", ErrNotFound, input.TargetPattern)
	}

	if err := uc.repo.WithTx(ctx, func(txRepo domain.ReminderRepository) error {
		for _, reminder := range matches {
			if err := txRepo.UpdateText(ctx, reminder.ID(), input.NewText); err != nil {
				return err
			}
		}

		return nil
	}); err != nil {
		return RemindersOutput{}, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	for _, reminder := range matches {
		if err := uc.calendar.UpdateEventTitle(ctx, reminder.ID().String(), input.NewText); err != nil {
			slog.Warn("calendar title update failed",
				"reminder_id", reminder.ID().String(),
				"error", err,
			)
		}
	}

	updated, err := uc.repo.FindByTextPattern(ctx, userID, input.NewText)
	if err != nil {
		return RemindersOutput{}, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	slog.Info("reminders renamed",
		"user_id", userID.Int64(),
		"pattern", input.TargetPattern,
		"count", len(matches),
	)

	return FromEntities(updated), nil
}
