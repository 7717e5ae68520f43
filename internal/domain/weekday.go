package domain

import (
	"strings"
	"time"
)

// weekdayOrdinals maps normalized weekday names and common abbreviations to
// Monday-based ordinals (Monday=0 .. Sunday=6). English and Spanish are
// accepted; diacritics are folded before lookup.
var weekdayOrdinals = map[string]int{
	"monday": 0, "mon": 0, "lunes": 0, "lun": 0,
	"tuesday": 1, "tue": 1, "tues": 1, "martes": 1, "mar": 1,
	"wednesday": 2, "wed": 2, "miercoles": 2, "mie": 2,
	"thursday": 3, "thu": 3, "thur": 3, "thurs": 3, "jueves": 3, "jue": 3,
	"friday": 4, "fri": 4, "viernes": 4, "vie": 4,
	"saturday": 5, "sat": 5, "sabado": 5, "sab": 5,
	"sunday": 6, "sun": 6, "domingo": 6, "dom": 6,
}

var diacriticFolder = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u", "ñ", "n",
)

type WeekdayResolver struct{}

func NewWeekdayResolver() *WeekdayResolver {
	return &WeekdayResolver{}
}

// Ordinal resolves a weekday name to its Monday-based ordinal.
func (r *WeekdayResolver) Ordinal(name string) (int, error) {
	normalized := diacriticFolder.Replace(strings.ToLower(strings.TrimSpace(name)))

	ordinal, ok := weekdayOrdinals[normalized]
	if !ok {
		return 0, ErrUnknownWeekday
	}

	return ordinal, nil
}

// NextOccurrence returns the next date falling on the named weekday after the
// reference time, preserving the reference clock time. A reference already on
// the target weekday rolls to next week's occurrence, never the same day.
func (r *WeekdayResolver) NextOccurrence(name string, reference time.Time) (time.Time, error) {
	target, err := r.Ordinal(name)
	if err != nil {
		return time.Time{}, err
	}

	daysAhead := target - mondayOrdinal(reference.Weekday())
	if daysAhead <= 0 {
		daysAhead += 7
	}

	return reference.AddDate(0, 0, daysAhead), nil
}

// mondayOrdinal converts Go's Sunday-based weekday to a Monday-based ordinal.
func mondayOrdinal(d time.Weekday) int {
	return (int(d) + 6) % 7
}
