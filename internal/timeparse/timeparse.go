// Package timeparse extracts concrete instants and recurrence descriptors
// from free text without calling any external interpreter. The language
// model is consulted only when these deterministic patterns fail.
package timeparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/oskaros/reminder-engine/internal/domain"
)

var accentFolder = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u", "ñ", "n",
)

var spanishMonths = map[string]time.Month{
	"enero": time.January, "febrero": time.February, "marzo": time.March,
	"abril": time.April, "mayo": time.May, "junio": time.June,
	"julio": time.July, "agosto": time.August, "septiembre": time.September,
	"octubre": time.October, "noviembre": time.November, "diciembre": time.December,
}

var (
	relativeRe    = regexp.MustCompile(`\b(?:en|in)\s+(\d+)\s+(segundos?|minutos?|horas?|dias?|semanas?|seconds?|minutes?|hours?|days?|weeks?)\b`)
	numericDateRe = regexp.MustCompile(`\b(\d{1,2})[/.-](\d{1,2})[/.-](\d{4})\b`)
	spanishDateRe = regexp.MustCompile(`\b(\d{1,2})\s+(?:de\s+)?(enero|febrero|marzo|abril|mayo|junio|julio|agosto|septiembre|octubre|noviembre|diciembre)\s+(?:de\s+)?(\d{4})\b`)
	explicitClock = regexp.MustCompile(`\b(?:a las?|at)\s+(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\b|\b(\d{1,2}):(\d{2})\s*(am|pm)?\b|\b(\d{1,2})\s*(am|pm)\b`)
	weekdayWordRe = regexp.MustCompile(`\b(lunes|martes|miercoles|jueves|viernes|sabado|domingo|monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)

	intervalRe      = regexp.MustCompile(`\b(?:cada|every)\s+(\d+)\s+(dias?|days?)\b`)
	everyWeekRe     = regexp.MustCompile(`\b(cada semana|todas las semanas|every week|weekly|semanal(mente)?)\b`)
	everyWeekdayRe  = regexp.MustCompile(`\b(?:todos los|every|cada)\s+(lunes|martes|miercoles|jueves|viernes|sabados?|domingos?|monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)

	temporalPhraseRes = []*regexp.Regexp{
		relativeRe,
		numericDateRe,
		spanishDateRe,
		explicitClock,
		regexp.MustCompile(`\b(pasado manana|manana|tomorrow|ahora|now|hoy|today)\b`),
		regexp.MustCompile(`\b(?:el\s+)?(?:proximo|siguiente|next)\s+\w+\b`),
		regexp.MustCompile(`\b(?:el|los|on|este)\s+(lunes|martes|miercoles|jueves|viernes|sabado|domingo|monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`),
		regexp.MustCompile(`\b(lunes|martes|miercoles|jueves|viernes|sabado|domingo|monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`),
		regexp.MustCompile(`\b(todos? los \w+|todas? las \w+|cada \w+( \w+)?|every \w+( days?)?|daily|weekly|monthly|diario|semanal|mensual|dia por medio|fin de semana|weekends?|weekdays?|lunes a viernes|monday to friday|entre semana|dias? laborables?)\b`),
		regexp.MustCompile(`\b(excepto|menos|salvo|except|but not)\s+[\w, ]+$`),
		regexp.MustCompile(`\b(remind me to|remind me|recuerdame|recuerda|avisame)\b`),
	}
)

// defaultHour is applied to calendar dates given without a clock time.
const defaultHour = 9

type Parser struct {
	weekdays *domain.WeekdayResolver
}

func NewParser() *Parser {
	return &Parser{weekdays: domain.NewWeekdayResolver()}
}

// Parse resolves the first deterministic temporal expression in text against
// now, which must carry the caller's reference instant. The second return is
// false when no pattern matched; the caller then falls back to the external
// interpreter.
func (p *Parser) Parse(text string, now time.Time) (time.Time, bool) {
	normalized := normalize(text)

	if m := relativeRe.FindStringSubmatch(normalized); m != nil {
		n, _ := strconv.Atoi(m[1])

		return now.Add(unitDuration(m[2], n)), true
	}

	if m := numericDateRe.FindStringSubmatch(normalized); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		hour, minute := clockOrDefault(normalized)
		candidate := time.Date(year, time.Month(month), day, hour, minute, 0, 0, now.Location())

		if candidate.Day() != day || candidate.Month() != time.Month(month) {
			return time.Time{}, false
		}

		return candidate, true
	}

	if m := spanishDateRe.FindStringSubmatch(normalized); m != nil {
		day, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[3])
		hour, minute := clockOrDefault(normalized)

		return time.Date(year, spanishMonths[m[2]], day, hour, minute, 0, 0, now.Location()), true
	}

	if strings.Contains(normalized, "pasado manana") {
		return atClock(now.AddDate(0, 0, 2), normalized, now), true
	}

	if strings.Contains(normalized, "manana") || strings.Contains(normalized, "tomorrow") {
		return atClock(now.AddDate(0, 0, 1), normalized, now), true
	}

	if m := weekdayWordRe.FindStringSubmatch(normalized); m != nil {
		next, err := p.weekdays.NextOccurrence(m[1], now)
		if err == nil {
			return atClock(next, normalized, now), true
		}
	}

	if hour, minute, ok := explicitClockTime(normalized); ok {
		candidate := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
		if !candidate.After(now) {
			// A bare clock time already past today means tomorrow.
			candidate = candidate.AddDate(0, 0, 1)
		}

		return candidate, true
	}

	return time.Time{}, false
}

// Recurrence extracts a recurrence descriptor from text. It reports false
// for one-shot requests.
func (p *Parser) Recurrence(text string) (domain.Recurrence, bool) {
	normalized := normalize(text)

	if m := intervalRe.FindStringSubmatch(normalized); m != nil {
		n, _ := strconv.Atoi(m[1])
		if n == 1 {
			return domain.Recurrence{Kind: domain.RecurrenceDaily}, true
		}

		return domain.Recurrence{Kind: domain.RecurrenceEveryNDays, IntervalDays: n}, true
	}

	for _, phrase := range []string{"dia por medio", "dia si dia no", "every other day", "cada dos dias"} {
		if strings.Contains(normalized, phrase) {
			return domain.Recurrence{Kind: domain.RecurrenceEveryNDays, IntervalDays: 2}, true
		}
	}

	for _, phrase := range []string{"lunes a viernes", "monday to friday", "entre semana", "dias laborables", "dias habiles", "weekdays"} {
		if strings.Contains(normalized, phrase) {
			return domain.Recurrence{Kind: domain.RecurrenceWeekdayRange}, true
		}
	}

	for _, phrase := range []string{"fin de semana", "fines de semana", "weekends", "weekend"} {
		if strings.Contains(normalized, phrase) {
			return domain.Recurrence{Kind: domain.RecurrenceWeekend}, true
		}
	}

	if m := everyWeekdayRe.FindStringSubmatch(normalized); m != nil {
		return domain.Recurrence{Kind: domain.RecurrenceWeekday, Weekday: strings.TrimSuffix(m[1], "s")}, true
	}

	for _, phrase := range []string{"todos los dias", "cada dia", "every day", "daily", "diario", "diariamente", "cada manana", "cada tarde", "cada noche", "every morning", "every night"} {
		if strings.Contains(normalized, phrase) {
			return domain.Recurrence{Kind: domain.RecurrenceDaily}, true
		}
	}

	if everyWeekRe.MatchString(normalized) {
		return domain.Recurrence{Kind: domain.RecurrenceWeekly}, true
	}

	for _, phrase := range []string{"cada mes", "every month", "monthly", "mensual"} {
		if strings.Contains(normalized, phrase) {
			return domain.Recurrence{Kind: domain.RecurrenceMonthly}, true
		}
	}

	return domain.Recurrence{}, false
}

// ClockTime reports the explicit clock expression in text, if any. Bare
// small integers without am/pm or a colon do not count.
func ClockTime(text string) (hour, minute int, ok bool) {
	return explicitClockTime(normalize(text))
}

// CleanText strips temporal phrasing so the stored description reads as a
// plain task: "llamar a mama manana a las 10:00" becomes "llamar a mama".
// When stripping would leave nothing, the original text is kept as-is.
func CleanText(text string) string {
	normalized := normalize(text)

	cleaned := normalized
	for _, re := range temporalPhraseRes {
		cleaned = re.ReplaceAllString(cleaned, " ")
	}

	cleaned = strings.Join(strings.Fields(cleaned), " ")
	cleaned = strings.Trim(cleaned, " ,.;:")

	if cleaned == "" {
		return strings.TrimSpace(text)
	}

	return cleaned
}

func unitDuration(unit string, n int) time.Duration {
	switch {
	case strings.HasPrefix(unit, "seg"), strings.HasPrefix(unit, "sec"):
		return time.Duration(n) * time.Second
	case strings.HasPrefix(unit, "min"):
		return time.Duration(n) * time.Minute
	case strings.HasPrefix(unit, "hora"), strings.HasPrefix(unit, "hour"):
		return time.Duration(n) * time.Hour
	case strings.HasPrefix(unit, "dia"), strings.HasPrefix(unit, "day"):
		return time.Duration(n) * 24 * time.Hour
	case strings.HasPrefix(unit, "semana"), strings.HasPrefix(unit, "week"):
		return time.Duration(n) * 7 * 24 * time.Hour
	}

	return 0
}

// explicitClockTime finds an unambiguous clock expression ("a las 10",
// "14:30", "3pm"). Bare small integers without am/pm or a colon are not
// treated as times.
func explicitClockTime(normalized string) (hour, minute int, ok bool) {
	m := explicitClock.FindStringSubmatch(normalized)
	if m == nil {
		return 0, 0, false
	}

	var hs, ms, period string
	switch {
	case m[1] != "":
		hs, ms, period = m[1], m[2], m[3]
	case m[4] != "":
		hs, ms, period = m[4], m[5], m[6]
	default:
		hs, period = m[7], m[8]
	}

	hour, _ = strconv.Atoi(hs)
	if ms != "" {
		minute, _ = strconv.Atoi(ms)
	}

	if period == "pm" && hour != 12 {
		hour += 12
	}
	if period == "am" && hour == 12 {
		hour = 0
	}

	if hour > 23 || minute > 59 {
		return 0, 0, false
	}

	return hour, minute, true
}

func clockOrDefault(normalized string) (hour, minute int) {
	if h, m, ok := explicitClockTime(normalized); ok {
		return h, m
	}

	return defaultHour, 0
}

// atClock places day at the clock time named in the text, or keeps the
// reference clock time when none is named.
func atClock(day time.Time, normalized string, now time.Time) time.Time {
	if h, m, ok := explicitClockTime(normalized); ok {
		return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, now.Location())
	}

	return time.Date(day.Year(), day.Month(), day.Day(), now.Hour(), now.Minute(), 0, 0, now.Location())
}

func normalize(text string) string {
	return accentFolder.Replace(strings.ToLower(strings.TrimSpace(text)))
}
