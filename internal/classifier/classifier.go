// Package classifier decides whether free text denotes reminder creation,
// deletion, or a recurrence-exception edit. It is a deterministic rule
// scorer: every signal is a named predicate so the decision for any input
// can be audited from the matched signal list alone.
package classifier

import (
	"regexp"
	"strings"

	"github.com/oskaros/reminder-engine/internal/domain"
)

type Intent string

const (
	IntentCreate          Intent = "create"
	IntentDeleteSpecific  Intent = "delete_specific"
	IntentDeletePattern   Intent = "delete_pattern"
	IntentModifyException Intent = "modify_exception"
	IntentChat            Intent = "chat"
)

// Result is the ephemeral classification output consumed by the submit path.
type Result struct {
	Intent            Intent
	TargetPattern     string
	ExceptionWeekdays []string
	ExceptionDates    []string
	KeepRecurrence    bool
	MatchedSignals    []string
}

// accent folding so "miércoles" and "miercoles" classify identically
var accentFolder = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u", "ñ", "n",
)

type signal struct {
	name  string
	match func(text string, words int) bool
}

func keywordSignal(name string, re *regexp.Regexp) signal {
	return signal{name: name, match: func(text string, _ int) bool {
		return re.MatchString(text)
	}}
}

var (
	reminderKeywordRe = regexp.MustCompile(`\b(remind me|recuerdame|recordar|avisame|avisar|notificame|alerta|alarma|schedule|agendar|programar|no olvides|no te olvides|acuerdate|don'?t forget|remember to|tomorrow|pasado manana|manana\b)`)
	weekdayMonthRe    = regexp.MustCompile(`\b(lunes|martes|miercoles|jueves|viernes|sabado|domingo|monday|tuesday|wednesday|thursday|friday|saturday|sunday|enero|febrero|marzo|abril|mayo|junio|julio|agosto|septiembre|octubre|noviembre|diciembre|january|february|march|april|june|july|august|september|october|november|december)\b`)
	numericDateRe     = regexp.MustCompile(`\b(\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4}|\d{4}[/-]\d{1,2}[/-]\d{1,2}|\d{1,2}:\d{2}(:\d{2})?\s?(am|pm)?|\d{1,2}h\d{2}|\d{1,2}\s?(am|pm)\b|\d{1,2}hs?\b)`)
	academicRe        = regexp.MustCompile(`(fecha de entrega|fecha limite|fecha tope|entregar? el|para el|hasta el|deadline|due date|vence el|vencimiento|submission|hand\s?in|turn\s?in|\b\d+%\s+\w+|\bra\d+-\d+-\d+|evaluacion\s+\w+|examen\s+\w+|prueba\s+\w+|certamen\s+\w+|tarea\s+\d+|quiz\s+\d+|lab\s+\d+)`)
	relativeTimeRe    = regexp.MustCompile(`\b(en\s+\d+\s+(segundo|minuto|hora|dia|semana|mes|ano)s?|in\s+\d+\s+(second|minute|hour|day|week|month|year)s?|dentro de \d+|pasado manana|el (proximo|siguiente|otro)|la (proxima|siguiente|otra)|next (week|month|monday|tuesday|wednesday|thursday|friday|saturday|sunday)|this (week|afternoon|morning|evening)|este (lunes|martes|miercoles|jueves|viernes|sabado|domingo)|esta (semana|tarde|manana|noche)|al rato|al tiro|a las \d+|at \d+)\b`)
	recurrenceRe      = regexp.MustCompile(`\b(todos? los (dias?|lunes|martes|miercoles|jueves|viernes|sabados?|domingos?)|todas? las (mananas?|tardes?|noches?|semanas?)|cada (dia|manana|tarde|noche|semana|mes|dos dias|tercer dia|dos semanas|otra semana)|cada \d+ (minutos?|horas?|dias?|semanas?|meses?)|every (day|week|month|morning|monday|tuesday|wednesday|thursday|friday|saturday|sunday|other day|\d+ (minutes?|hours?|days?|weeks?|months?))|daily|weekly|monthly|diario|semanal|mensual|dia por medio|dia si dia no|fin de semana|weekends?|weekdays?|dias? (laborables?|habiles?)|entre semana|lunes a viernes|monday to friday)\b`)
	activityRe        = regexp.MustCompile(`\b(trabajo|oficina|office|universidad|colegio|meeting|reunion|junta|proyecto|informe|presentacion|tarea|medico|doctor|dentista|cita|consulta|medicamento|pastilla|tratamiento|ejercicio|gym|deporte|correr|caminar|pagar|cobrar|banco|cuenta|factura|cumpleanos|cumple|aniversario|fiesta|llamar|contactar|escribir|visitar|comprar|supermercado|limpiar|cocinar|almorzar|cenar|desayunar)\b`)
	actionContextRe   = regexp.MustCompile(`\b(hacer|ir|venir|llamar|revisar|estudiar|pagar|comprar|trabajar|terminar|enviar|completar|ejercitar|call|buy|pay|send|finish|review|study)\b`)
	imperativeRe      = regexp.MustCompile(`\b(tengo que|debo|necesito|hay que|me toca|toca|voy a|vamos a|i need to|i have to|i must|should|gonna|going to|plan to)\b`)
	longDateRe        = regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}\b`)
	numberedItemRe    = regexp.MustCompile(`\d+\.`)

	deletionRe       = regexp.MustCompile(`\b(elimina|eliminar|borra|borrar|cancela|cancelar|quita|quitar|remueve|remover|anular|delete|remove|cancel|ya no quiero|no quiero mas)\b`)
	exceptionRe      = regexp.MustCompile(`\b(excepto|menos|salvo|except|but not|a excepcion de|excluding|sin incluir)\b`)
	patternScopeRe   = regexp.MustCompile(`\b(todos|todas|all|every|cada)\b`)
	deletionFillerRe = regexp.MustCompile(`\b(elimina|eliminar|borra|borrar|cancela|cancelar|quita|quitar|remueve|remover|anular|delete|remove|cancel|the|el|la|los|las|mi|mis|de|del|reminder|reminders|recordatorio|recordatorios|todos|todas|all|please|por favor)\b`)
	exceptionLeadRe  = regexp.MustCompile(`\b(excepto|menos|salvo|except|but not|a excepcion de|excluding|sin incluir)\b`)
	dateTokenRe      = regexp.MustCompile(`\b\d{1,2}[/.-]\d{1,2}([/.-]\d{2,4})?\b`)
)

// creationSignals is the named rule table. Order matters only for the
// MatchedSignals report, not for the decision.
var creationSignals = []signal{
	keywordSignal("reminder-keyword", reminderKeywordRe),
	keywordSignal("weekday-or-month", weekdayMonthRe),
	keywordSignal("numeric-date", numericDateRe),
	keywordSignal("academic-deadline", academicRe),
	keywordSignal("relative-time", relativeTimeRe),
	keywordSignal("recurrence-phrase", recurrenceRe),
	keywordSignal("activity-context", activityRe),
	keywordSignal("action-context", actionContextRe),
	keywordSignal("imperative", imperativeRe),
	{name: "long-numeric-date", match: func(text string, _ int) bool {
		return longDateRe.MatchString(text) && len(text) > 15
	}},
	{name: "list-format", match: func(text string, _ int) bool {
		return strings.Count(text, "\n") > 1 ||
			strings.Count(text, "-") > 1 ||
			strings.Contains(text, "•") ||
			len(numberedItemRe.FindAllString(text, -1)) > 1
	}},
}

type Classifier struct {
	weekdays *domain.WeekdayResolver
}

func NewClassifier() *Classifier {
	return &Classifier{weekdays: domain.NewWeekdayResolver()}
}

// Classify maps free text to an intent. Deletion and exception vocabulary
// short-circuit before any creation heuristic: a message that names both a
// new time and a cancellation is treated as the cancellation.
func (c *Classifier) Classify(text string) Result {
	normalized := normalize(text)
	words := len(strings.Fields(normalized))

	if exceptionRe.MatchString(normalized) {
		return c.classifyException(normalized)
	}

	if deletionRe.MatchString(normalized) {
		return c.classifyDeletion(normalized)
	}

	matched := make([]string, 0, len(creationSignals))
	hit := map[string]bool{}

	for _, s := range creationSignals {
		if s.match(normalized, words) {
			matched = append(matched, s.name)
			hit[s.name] = true
		}
	}

	dateSignal := hit["numeric-date"] || hit["relative-time"] || hit["weekday-or-month"]

	actionable := hit["reminder-keyword"] ||
		(hit["numeric-date"] && hit["action-context"]) ||
		hit["academic-deadline"] ||
		(hit["relative-time"] && words >= 2) ||
		hit["long-numeric-date"] ||
		(hit["activity-context"] && dateSignal) ||
		(hit["imperative"] && (dateSignal || len(normalized) > 20)) ||
		(hit["list-format"] && (hit["numeric-date"] || hit["academic-deadline"])) ||
		hit["recurrence-phrase"]

	if !actionable {
		return Result{Intent: IntentChat, MatchedSignals: matched}
	}

	return Result{Intent: IntentCreate, MatchedSignals: matched}
}

func (c *Classifier) classifyDeletion(normalized string) Result {
	res := Result{
		Intent:         IntentDeleteSpecific,
		MatchedSignals: []string{"deletion-vocabulary"},
	}

	if patternScopeRe.MatchString(normalized) {
		res.Intent = IntentDeletePattern
		res.MatchedSignals = append(res.MatchedSignals, "pattern-scope")
	}

	res.TargetPattern = extractTarget(normalized)

	return res
}

func (c *Classifier) classifyException(normalized string) Result {
	res := Result{
		Intent:         IntentModifyException,
		KeepRecurrence: true,
		MatchedSignals: []string{"exception-vocabulary"},
	}

	loc := exceptionLeadRe.FindStringIndex(normalized)
	head, tail := normalized, ""
	if loc != nil {
		head = normalized[:loc[0]]
		tail = normalized[loc[1]:]
	}

	for _, token := range strings.Fields(tail) {
		token = strings.Trim(token, ",.;")
		if token == "y" || token == "and" || token == "ni" || token == "nor" {
			continue
		}
		if _, err := c.weekdays.Ordinal(token); err == nil {
			res.ExceptionWeekdays = append(res.ExceptionWeekdays, token)
			continue
		}
		if dateTokenRe.MatchString(token) {
			res.ExceptionDates = append(res.ExceptionDates, token)
		}
	}

	// The target is whatever precedes the exception clause once the
	// recurrence phrasing itself is stripped away.
	head = recurrenceRe.ReplaceAllString(head, " ")
	res.TargetPattern = strings.Join(strings.Fields(deletionFillerRe.ReplaceAllString(head, " ")), " ")

	return res
}

// extractTarget strips deletion verbs, articles and filler nouns so that
// "delete the dentist reminder" yields "dentist".
func extractTarget(normalized string) string {
	stripped := deletionFillerRe.ReplaceAllString(normalized, " ")

	return strings.Join(strings.Fields(stripped), " ")
}

func normalize(text string) string {
	return accentFolder.Replace(strings.ToLower(strings.TrimSpace(text)))
}
