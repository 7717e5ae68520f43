package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oskaros/reminder-engine/internal/domain"
)

func TestRecurrenceExpander_Daily(t *testing.T) {
	expander := domain.NewRecurrenceExpander()
	base := time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC)

	occurrences, err := expander.Expand(domain.Recurrence{Kind: domain.RecurrenceDaily}, "take medication", base)

	require.NoError(t, err)
	require.Len(t, occurrences, 7)

	for i, occ := range occurrences {
		assert.Equal(t, "take medication", occ.Text)
		assert.True(t, occ.Time.After(base))
		assert.Equal(t, base.AddDate(0, 0, i+1), occ.Time)
	}
}

func TestRecurrenceExpander_SpecificWeekday(t *testing.T) {
	expander := domain.NewRecurrenceExpander()

	// 2025-10-01 is a Wednesday; the next Monday is five days later.
	base := time.Date(2025, 10, 1, 10, 0, 0, 0, time.UTC)

	occurrences, err := expander.Expand(
		domain.Recurrence{Kind: domain.RecurrenceWeekday, Weekday: "monday"},
		"team meeting",
		base,
	)

	require.NoError(t, err)
	require.Len(t, occurrences, 4)

	first := base.AddDate(0, 0, 5)
	for i, occ := range occurrences {
		assert.Equal(t, first.AddDate(0, 0, i*7), occ.Time)
		assert.Equal(t, time.Monday, occ.Time.Weekday())
	}
}

func TestRecurrenceExpander_EveryNDays(t *testing.T) {
	expander := domain.NewRecurrenceExpander()
	base := time.Date(2025, 10, 1, 7, 30, 0, 0, time.UTC)

	occurrences, err := expander.Expand(
		domain.Recurrence{Kind: domain.RecurrenceEveryNDays, IntervalDays: 2},
		"water plants",
		base,
	)

	require.NoError(t, err)
	require.Len(t, occurrences, 7)

	for i, occ := range occurrences {
		assert.Equal(t, base.AddDate(0, 0, (i+1)*2), occ.Time)
	}

	// Occurrences span exactly 7 intervals of N days.
	assert.Equal(t, base.AddDate(0, 0, 14), occurrences[len(occurrences)-1].Time)
}

func TestRecurrenceExpander_Weekly(t *testing.T) {
	expander := domain.NewRecurrenceExpander()
	base := time.Date(2025, 10, 1, 16, 0, 0, 0, time.UTC)

	occurrences, err := expander.Expand(domain.Recurrence{Kind: domain.RecurrenceWeekly}, "groceries", base)

	require.NoError(t, err)
	require.Len(t, occurrences, 4)

	for i, occ := range occurrences {
		assert.Equal(t, base.AddDate(0, 0, (i+1)*7), occ.Time)
	}
}

func TestRecurrenceExpander_MonthlyClampsShortMonths(t *testing.T) {
	expander := domain.NewRecurrenceExpander()

	// January 31st: February has no 31st, so the occurrence falls on the
	// last valid day.
	base := time.Date(2025, 1, 31, 9, 0, 0, 0, time.UTC)

	occurrences, err := expander.Expand(domain.Recurrence{Kind: domain.RecurrenceMonthly}, "pay rent", base)

	require.NoError(t, err)
	require.Len(t, occurrences, 3)

	assert.Equal(t, time.Date(2025, 2, 28, 9, 0, 0, 0, time.UTC), occurrences[0].Time)
	assert.Equal(t, time.Date(2025, 3, 31, 9, 0, 0, 0, time.UTC), occurrences[1].Time)
	assert.Equal(t, time.Date(2025, 4, 30, 9, 0, 0, 0, time.UTC), occurrences[2].Time)
}

func TestRecurrenceExpander_BusinessDays(t *testing.T) {
	expander := domain.NewRecurrenceExpander()

	// Thursday: the next five business days are Fri, Mon, Tue, Wed, Thu.
	base := time.Date(2025, 10, 2, 9, 15, 0, 0, time.UTC)

	occurrences, err := expander.Expand(domain.Recurrence{Kind: domain.RecurrenceWeekdayRange}, "standup", base)

	require.NoError(t, err)
	require.Len(t, occurrences, 5)

	expected := []time.Time{
		time.Date(2025, 10, 3, 9, 15, 0, 0, time.UTC),
		time.Date(2025, 10, 6, 9, 15, 0, 0, time.UTC),
		time.Date(2025, 10, 7, 9, 15, 0, 0, time.UTC),
		time.Date(2025, 10, 8, 9, 15, 0, 0, time.UTC),
		time.Date(2025, 10, 9, 9, 15, 0, 0, time.UTC),
	}

	for i, occ := range occurrences {
		assert.Equal(t, expected[i], occ.Time)
		assert.NotEqual(t, time.Saturday, occ.Time.Weekday())
		assert.NotEqual(t, time.Sunday, occ.Time.Weekday())
	}
}

func TestRecurrenceExpander_Weekend(t *testing.T) {
	expander := domain.NewRecurrenceExpander()

	// Saturday base rolls to the following Saturday, never the same day.
	base := time.Date(2025, 10, 4, 11, 0, 0, 0, time.UTC)

	occurrences, err := expander.Expand(domain.Recurrence{Kind: domain.RecurrenceWeekend}, "cleaning", base)

	require.NoError(t, err)
	require.Len(t, occurrences, 4)

	for i, occ := range occurrences {
		assert.Equal(t, time.Saturday, occ.Time.Weekday())
		assert.Equal(t, base.AddDate(0, 0, (i+1)*7), occ.Time)
	}
}

func TestRecurrenceExpander_InvalidDescriptors(t *testing.T) {
	expander := domain.NewRecurrenceExpander()
	base := time.Now()

	tests := []struct {
		name string
		rec  domain.Recurrence
		err  error
	}{
		{
			name: "unknown kind",
			rec:  domain.Recurrence{Kind: "fortnightly"},
			err:  domain.ErrUnknownRecurrence,
		},
		{
			name: "zero interval",
			rec:  domain.Recurrence{Kind: domain.RecurrenceEveryNDays},
			err:  domain.ErrUnknownRecurrence,
		},
		{
			name: "unknown weekday",
			rec:  domain.Recurrence{Kind: domain.RecurrenceWeekday, Weekday: "blursday"},
			err:  domain.ErrUnknownWeekday,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := expander.Expand(tt.rec, "x", base)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}
