package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oskaros/reminder-engine/internal/domain"
	"github.com/oskaros/reminder-engine/internal/infra/repository"
	"github.com/oskaros/reminder-engine/internal/testutil"
)

func mustUserID(t *testing.T, v int64) domain.UserID {
	t.Helper()

	userID, err := domain.NewUserID(v)
	require.NoError(t, err)

	return userID
}

func newTestReminder(t *testing.T, userID int64, text string, occurrence time.Time, preAlerts []time.Time, now time.Time) *domain.Reminder {
	t.Helper()

	reminder, err := domain.NewReminder(mustUserID(t, userID), text, "original: "+text, occurrence, preAlerts, now)
	require.NoError(t, err)

	return reminder
}

// pastReminder builds a row whose occurrence already passed, which the
// entity constructor refuses; housekeeping queries still have to see them.
func pastReminder(t *testing.T, userID int64, text string, occurrence time.Time, notified bool) *domain.Reminder {
	t.Helper()

	return domain.Reconstitute(
		domain.NewReminderID(),
		mustUserID(t, userID),
		text,
		"original: "+text,
		occurrence,
		nil,
		domain.StatusPending,
		notified,
		nil,
		occurrence.Add(-24*time.Hour),
	)
}

func TestSaveAndFindByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDB(t)
	defer testDB.TeardownTestDB(t)

	repo := repository.NewReminderRepository(testDB.DB)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	occurrence := now.Add(48 * time.Hour)
	preAlerts := []time.Time{occurrence.Add(-24 * time.Hour)}

	reminder := newTestReminder(t, 42, "call the doctor", occurrence, preAlerts, now)
	require.NoError(t, repo.Save(ctx, reminder))

	found, err := repo.FindByID(ctx, reminder.ID())
	require.NoError(t, err)

	assert.Equal(t, reminder.ID(), found.ID())
	assert.Equal(t, int64(42), found.UserID().Int64())
	assert.Equal(t, "call the doctor", found.Text())
	assert.True(t, found.OccurrenceTime().Equal(occurrence))
	require.Len(t, found.PreAlerts(), 1)
	assert.True(t, found.PreAlerts()[0].Equal(preAlerts[0]))
	assert.Equal(t, domain.StatusPending, found.Status())
	assert.False(t, found.IsNotified())
}

func TestFindByIDNotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDB(t)
	defer testDB.TeardownTestDB(t)

	repo := repository.NewReminderRepository(testDB.DB)

	_, err := repo.FindByID(context.Background(), domain.NewReminderID())
	assert.ErrorIs(t, err, domain.ErrReminderNotFound)
}

func TestFindPendingInWindow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDB(t)
	defer testDB.TeardownTestDB(t)

	repo := repository.NewReminderRepository(testDB.DB)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	scanAt := now.Add(24 * time.Hour)
	tolerance := 30 * time.Second

	// Main time inside the window.
	inWindow := newTestReminder(t, 1, "due now", scanAt.Add(10*time.Second), nil, now)
	require.NoError(t, repo.Save(ctx, inWindow))

	// Main time far out, but one pre-alert inside the window.
	preAlertHit := newTestReminder(t, 2, "due later",
		scanAt.Add(48*time.Hour),
		[]time.Time{scanAt.Add(-5 * time.Second)},
		now,
	)
	require.NoError(t, repo.Save(ctx, preAlertHit))

	// Nothing near the window.
	outside := newTestReminder(t, 3, "far away", scanAt.Add(72*time.Hour), nil, now)
	require.NoError(t, repo.Save(ctx, outside))

	found, err := repo.FindPendingInWindow(ctx, scanAt.Add(-tolerance), scanAt.Add(tolerance))
	require.NoError(t, err)

	require.Len(t, found, 2)

	ids := map[string]bool{}
	for _, r := range found {
		ids[r.ID().String()] = true
	}

	assert.True(t, ids[inWindow.ID().String()])
	assert.True(t, ids[preAlertHit.ID().String()])
	assert.False(t, ids[outside.ID().String()])
}

func TestFindPendingInWindowSkipsNonPending(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDB(t)
	defer testDB.TeardownTestDB(t)

	repo := repository.NewReminderRepository(testDB.DB)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	scanAt := now.Add(24 * time.Hour)

	cancelled := newTestReminder(t, 1, "cancelled", scanAt.Add(5*time.Second), nil, now)
	require.NoError(t, repo.Save(ctx, cancelled))
	require.NoError(t, repo.UpdateStatus(ctx, cancelled.ID(), domain.StatusCancelled))

	found, err := repo.FindPendingInWindow(ctx, scanAt.Add(-30*time.Second), scanAt.Add(30*time.Second))
	require.NoError(t, err)

	assert.Empty(t, found)
}

func TestFindPendingByUserOmitsPastReminders(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDB(t)
	defer testDB.TeardownTestDB(t)

	repo := repository.NewReminderRepository(testDB.DB)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)

	// Still pending in the store, but its time already passed. Listing
	// must hide it even before housekeeping sweeps it up.
	overdue := pastReminder(t, 1, "overdue", now.Add(-time.Hour), false)
	require.NoError(t, repo.Save(ctx, overdue))

	upcoming := newTestReminder(t, 1, "upcoming", now.Add(time.Hour), nil, now)
	require.NoError(t, repo.Save(ctx, upcoming))

	found, err := repo.FindPendingByUser(ctx, mustUserID(t, 1), now, 10)
	require.NoError(t, err)

	require.Len(t, found, 1)
	assert.Equal(t, upcoming.ID(), found[0].ID())
}

func TestFindByTextPattern(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDB(t)
	defer testDB.TeardownTestDB(t)

	repo := repository.NewReminderRepository(testDB.DB)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)

	gym := newTestReminder(t, 42, "go to the GYM", now.Add(24*time.Hour), nil, now)
	doctor := newTestReminder(t, 42, "call the doctor", now.Add(48*time.Hour), nil, now)
	otherUser := newTestReminder(t, 99, "gym session", now.Add(24*time.Hour), nil, now)

	for _, r := range []*domain.Reminder{gym, doctor, otherUser} {
		require.NoError(t, repo.Save(ctx, r))
	}

	// Case-insensitive, scoped to the requesting user.
	found, err := repo.FindByTextPattern(ctx, mustUserID(t, 42), "gym")
	require.NoError(t, err)

	require.Len(t, found, 1)
	assert.Equal(t, gym.ID(), found[0].ID())
}

func TestFindPendingPast(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDB(t)
	defer testDB.TeardownTestDB(t)

	repo := repository.NewReminderRepository(testDB.DB)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)

	overdue := pastReminder(t, 1, "overdue", now.Add(-2*time.Hour), false)
	require.NoError(t, repo.Save(ctx, overdue))

	upcoming := newTestReminder(t, 1, "upcoming", now.Add(2*time.Hour), nil, now)
	require.NoError(t, repo.Save(ctx, upcoming))

	found, err := repo.FindPendingPast(ctx, now)
	require.NoError(t, err)

	require.Len(t, found, 1)
	assert.Equal(t, overdue.ID(), found[0].ID())
}

func TestUpdateStatus(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDB(t)
	defer testDB.TeardownTestDB(t)

	repo := repository.NewReminderRepository(testDB.DB)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	reminder := newTestReminder(t, 42, "pay the rent", now.Add(24*time.Hour), nil, now)
	require.NoError(t, repo.Save(ctx, reminder))

	require.NoError(t, repo.UpdateStatus(ctx, reminder.ID(), domain.StatusCompleted))

	found, err := repo.FindByID(ctx, reminder.ID())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, found.Status())

	err = repo.UpdateStatus(ctx, domain.NewReminderID(), domain.StatusCompleted)
	assert.ErrorIs(t, err, domain.ErrReminderNotFound)
}

func TestMarkNotified(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDB(t)
	defer testDB.TeardownTestDB(t)

	repo := repository.NewReminderRepository(testDB.DB)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	reminder := newTestReminder(t, 42, "water the plants", now.Add(24*time.Hour), nil, now)
	require.NoError(t, repo.Save(ctx, reminder))

	require.NoError(t, repo.MarkNotified(ctx, reminder.ID()))

	found, err := repo.FindByID(ctx, reminder.ID())
	require.NoError(t, err)
	assert.True(t, found.IsNotified())
}

func TestMarkPreAlertNotified(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDB(t)
	defer testDB.TeardownTestDB(t)

	repo := repository.NewReminderRepository(testDB.DB)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	occurrence := now.Add(8 * 24 * time.Hour)
	first := occurrence.Add(-7 * 24 * time.Hour)
	second := occurrence.Add(-24 * time.Hour)

	reminder := newTestReminder(t, 42, "hand in the report", occurrence, []time.Time{first, second}, now)
	require.NoError(t, repo.Save(ctx, reminder))

	require.NoError(t, repo.MarkPreAlertNotified(ctx, reminder.ID(), domain.PreAlertKey(first)))

	found, err := repo.FindByID(ctx, reminder.ID())
	require.NoError(t, err)

	// Only the delivered instant flips; the main flag and the second
	// pre-alert stay untouched.
	assert.True(t, found.IsPreAlertNotified(first))
	assert.False(t, found.IsPreAlertNotified(second))
	assert.False(t, found.IsNotified())

	// Marking the same instant again is a no-op, not an error.
	require.NoError(t, repo.MarkPreAlertNotified(ctx, reminder.ID(), domain.PreAlertKey(first)))
}

func TestUpdateText(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDB(t)
	defer testDB.TeardownTestDB(t)

	repo := repository.NewReminderRepository(testDB.DB)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	reminder := newTestReminder(t, 42, "call the doctor", now.Add(24*time.Hour), nil, now)
	require.NoError(t, repo.Save(ctx, reminder))

	require.NoError(t, repo.UpdateText(ctx, reminder.ID(), "call the dentist"))

	found, err := repo.FindByID(ctx, reminder.ID())
	require.NoError(t, err)
	assert.Equal(t, "call the dentist", found.Text())
}

func TestDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDB(t)
	defer testDB.TeardownTestDB(t)

	repo := repository.NewReminderRepository(testDB.DB)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	reminder := newTestReminder(t, 42, "temporary", now.Add(24*time.Hour), nil, now)
	require.NoError(t, repo.Save(ctx, reminder))

	require.NoError(t, repo.Delete(ctx, reminder.ID()))

	_, err := repo.FindByID(ctx, reminder.ID())
	assert.ErrorIs(t, err, domain.ErrReminderNotFound)

	err = repo.Delete(ctx, reminder.ID())
	assert.ErrorIs(t, err, domain.ErrReminderNotFound)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDB(t)
	defer testDB.TeardownTestDB(t)

	repo := repository.NewReminderRepository(testDB.DB)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	reminder := newTestReminder(t, 42, "inside tx", now.Add(24*time.Hour), nil, now)

	err := repo.WithTx(ctx, func(txRepo domain.ReminderRepository) error {
		if err := txRepo.Save(ctx, reminder); err != nil {
			return err
		}

		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	_, err = repo.FindByID(ctx, reminder.ID())
	assert.ErrorIs(t, err, domain.ErrReminderNotFound)
}
