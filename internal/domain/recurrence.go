package domain

import (
	"time"
)

type RecurrenceKind string

const (
	RecurrenceDaily        RecurrenceKind = "daily"
	RecurrenceWeekday      RecurrenceKind = "weekday"
	RecurrenceEveryNDays   RecurrenceKind = "every_n_days"
	RecurrenceWeekly       RecurrenceKind = "weekly"
	RecurrenceMonthly      RecurrenceKind = "monthly"
	RecurrenceWeekdayRange RecurrenceKind = "weekday_range"
	RecurrenceWeekend      RecurrenceKind = "weekend"
)

// Expansion caps per pattern class. Bounded eager expansion keeps the backlog
// finite; a recurring request becomes this many independent reminders.
const (
	dailyOccurrences    = 7
	weekdayOccurrences  = 4
	weeklyOccurrences   = 4
	monthlyOccurrences  = 3
	businessDayRange    = 5
	weekendOccurrences  = 4
	intervalOccurrences = 7
)

// Recurrence describes a recurring request. Weekday is set only for
// RecurrenceWeekday; IntervalDays only for RecurrenceEveryNDays.
type Recurrence struct {
	Kind         RecurrenceKind
	Weekday      string
	IntervalDays int
}

// Occurrence is one materialized instance of a recurring request.
type Occurrence struct {
	Text string
	Time time.Time
}

type RecurrenceExpander struct {
	weekdays *WeekdayResolver
}

func NewRecurrenceExpander() *RecurrenceExpander {
	return &RecurrenceExpander{weekdays: NewWeekdayResolver()}
}

// Expand materializes a bounded list of future occurrences from a recurrence
// descriptor, all strictly after base and at base's clock time. The caller
// validates each occurrence independently; occurrences that fall in the past
// relative to the caller's clock are its concern, not the expander's.
func (e *RecurrenceExpander) Expand(rec Recurrence, text string, base time.Time) ([]Occurrence, error) {
	switch rec.Kind {
	case RecurrenceDaily:
		return e.stepDays(text, base, 1, dailyOccurrences), nil

	case RecurrenceWeekday:
		first, err := e.weekdays.NextOccurrence(rec.Weekday, base)
		if err != nil {
			return nil, err
		}

		return e.weeklyFrom(text, first, weekdayOccurrences), nil

	case RecurrenceEveryNDays:
		if rec.IntervalDays < 1 {
			return nil, ErrUnknownRecurrence
		}

		return e.stepDays(text, base, rec.IntervalDays, intervalOccurrences), nil

	case RecurrenceWeekly:
		return e.stepDays(text, base, 7, weeklyOccurrences), nil

	case RecurrenceMonthly:
		return e.monthly(text, base), nil

	case RecurrenceWeekdayRange:
		return e.businessDays(text, base), nil

	case RecurrenceWeekend:
		first, err := e.weekdays.NextOccurrence("saturday", base)
		if err != nil {
			return nil, err
		}

		return e.weeklyFrom(text, first, weekendOccurrences), nil

	default:
		return nil, ErrUnknownRecurrence
	}
}

func (e *RecurrenceExpander) stepDays(text string, base time.Time, step, count int) []Occurrence {
	occurrences := make([]Occurrence, 0, count)
	for i := 1; i <= count; i++ {
		occurrences = append(occurrences, Occurrence{
			Text: text,
			Time: base.AddDate(0, 0, i*step),
		})
	}

	return occurrences
}

func (e *RecurrenceExpander) weeklyFrom(text string, first time.Time, count int) []Occurrence {
	occurrences := make([]Occurrence, 0, count)
	for i := 0; i < count; i++ {
		occurrences = append(occurrences, Occurrence{
			Text: text,
			Time: first.AddDate(0, 0, i*7),
		})
	}

	return occurrences
}

// monthly keeps the base day-of-month, falling back to the last valid day
// when the target month is shorter.
func (e *RecurrenceExpander) monthly(text string, base time.Time) []Occurrence {
	occurrences := make([]Occurrence, 0, monthlyOccurrences)

	firstOfBase := time.Date(base.Year(), base.Month(), 1, base.Hour(), base.Minute(), base.Second(), 0, base.Location())

	for i := 1; i <= monthlyOccurrences; i++ {
		target := firstOfBase.AddDate(0, i, 0)

		day := base.Day()
		if last := lastDayOfMonth(target.Year(), target.Month()); day > last {
			day = last
		}

		occurrences = append(occurrences, Occurrence{
			Text: text,
			Time: time.Date(target.Year(), target.Month(), day, base.Hour(), base.Minute(), base.Second(), 0, base.Location()),
		})
	}

	return occurrences
}

func (e *RecurrenceExpander) businessDays(text string, base time.Time) []Occurrence {
	occurrences := make([]Occurrence, 0, businessDayRange)

	next := base
	for len(occurrences) < businessDayRange {
		next = next.AddDate(0, 0, 1)
		if wd := next.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}

		occurrences = append(occurrences, Occurrence{Text: text, Time: next})
	}

	return occurrences
}

func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1).Day()
}
