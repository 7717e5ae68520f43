package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oskaros/reminder-engine/internal/domain"
)

func TestWeekdayResolver_Ordinal(t *testing.T) {
	resolver := domain.NewWeekdayResolver()

	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{name: "english full name", input: "Monday", expected: 0},
		{name: "english abbreviation", input: "fri", expected: 4},
		{name: "spanish full name", input: "viernes", expected: 4},
		{name: "spanish with diacritics", input: "miércoles", expected: 2},
		{name: "spanish without diacritics", input: "sabado", expected: 5},
		{name: "surrounding whitespace", input: "  sunday  ", expected: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ordinal, err := resolver.Ordinal(tt.input)

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, ordinal)
		})
	}
}

func TestWeekdayResolver_OrdinalUnknown(t *testing.T) {
	resolver := domain.NewWeekdayResolver()

	_, err := resolver.Ordinal("someday")

	assert.ErrorIs(t, err, domain.ErrUnknownWeekday)
}

func TestWeekdayResolver_NextOccurrence(t *testing.T) {
	resolver := domain.NewWeekdayResolver()

	// 2025-10-01 is a Wednesday.
	wednesday := time.Date(2025, 10, 1, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		weekday  string
		expected time.Time
	}{
		{
			name:     "later this week",
			weekday:  "friday",
			expected: time.Date(2025, 10, 3, 18, 0, 0, 0, time.UTC),
		},
		{
			name:     "earlier weekday rolls to next week",
			weekday:  "monday",
			expected: time.Date(2025, 10, 6, 18, 0, 0, 0, time.UTC),
		},
		{
			name:     "same weekday rolls a full week, never today",
			weekday:  "wednesday",
			expected: time.Date(2025, 10, 8, 18, 0, 0, 0, time.UTC),
		},
		{
			name:     "spanish name resolves the same way",
			weekday:  "domingo",
			expected: time.Date(2025, 10, 5, 18, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := resolver.NextOccurrence(tt.weekday, wednesday)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, next)
		})
	}
}

func TestWeekdayResolver_SameDayAlwaysSevenDaysAhead(t *testing.T) {
	resolver := domain.NewWeekdayResolver()

	names := []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

	// Walk one full week so every weekday is exercised as "today".
	for i := 0; i < 7; i++ {
		reference := time.Date(2025, 10, 6, 9, 0, 0, 0, time.UTC).AddDate(0, 0, i)

		next, err := resolver.NextOccurrence(names[i], reference)

		require.NoError(t, err)
		assert.Equal(t, reference.AddDate(0, 0, 7), next, "weekday %s", names[i])
	}
}
