package classifier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oskaros/reminder-engine/internal/classifier"
)

func TestClassifyCreation(t *testing.T) {
	c := classifier.NewClassifier()

	tests := []struct {
		name string
		text string
	}{
		{name: "explicit verb", text: "remind me to call mom in 2 hours"},
		{name: "spanish explicit verb", text: "recuérdame pagar la cuenta mañana"},
		{name: "relative time", text: "dentist appointment in 3 days"},
		{name: "academic deadline", text: "40% RA1-2-3 due date 15/11/2025"},
		{name: "activity with clock time", text: "gym a las 18:00"},
		{name: "daily recurrence", text: "tomar pastillas todos los días"},
		{name: "weekly recurrence", text: "team meeting every monday"},
		{name: "interval recurrence", text: "water the plants every 3 days"},
		{name: "business day range", text: "standup lunes a viernes"},
		{name: "imperative with date", text: "tengo que enviar el informe el 20/10/2025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := c.Classify(tt.text)
			assert.Equal(t, classifier.IntentCreate, res.Intent)
			assert.NotEmpty(t, res.MatchedSignals)
		})
	}
}

func TestClassifyNotActionable(t *testing.T) {
	c := classifier.NewClassifier()

	tests := []struct {
		name string
		text string
	}{
		{name: "small talk with bare today", text: "the weather is nice today"},
		{name: "greeting", text: "hola como estas"},
		{name: "opinion", text: "that movie was great"},
		{name: "single word", text: "thanks"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := c.Classify(tt.text)
			assert.Equal(t, classifier.IntentChat, res.Intent)
		})
	}
}

func TestClassifyDeletion(t *testing.T) {
	c := classifier.NewClassifier()

	t.Run("specific deletion extracts target", func(t *testing.T) {
		res := c.Classify("delete the dentist reminder")

		assert.Equal(t, classifier.IntentDeleteSpecific, res.Intent)
		assert.Equal(t, "dentist", res.TargetPattern)
	})

	t.Run("spanish specific deletion", func(t *testing.T) {
		res := c.Classify("elimina el recordatorio de pastillas")

		assert.Equal(t, classifier.IntentDeleteSpecific, res.Intent)
		assert.Equal(t, "pastillas", res.TargetPattern)
	})

	t.Run("scope word widens to pattern deletion", func(t *testing.T) {
		res := c.Classify("cancel all gym reminders")

		assert.Equal(t, classifier.IntentDeletePattern, res.Intent)
		assert.Equal(t, "gym", res.TargetPattern)
	})

	t.Run("deletion wins over creation phrasing", func(t *testing.T) {
		// Names a date and a cancellation; deletion-first precedence applies.
		res := c.Classify("cancel the meeting reminder tomorrow")

		assert.Equal(t, classifier.IntentDeleteSpecific, res.Intent)
	})
}

func TestClassifyException(t *testing.T) {
	c := classifier.NewClassifier()

	t.Run("weekday exception keeps recurrence", func(t *testing.T) {
		res := c.Classify("gym every day except friday")

		assert.Equal(t, classifier.IntentModifyException, res.Intent)
		assert.Equal(t, "gym", res.TargetPattern)
		assert.Equal(t, []string{"friday"}, res.ExceptionWeekdays)
		assert.True(t, res.KeepRecurrence)
	})

	t.Run("multiple weekday exceptions", func(t *testing.T) {
		res := c.Classify("pastillas todos los días excepto sábado y domingo")

		assert.Equal(t, classifier.IntentModifyException, res.Intent)
		assert.Equal(t, "pastillas", res.TargetPattern)
		assert.Equal(t, []string{"sabado", "domingo"}, res.ExceptionWeekdays)
	})

	t.Run("date exception", func(t *testing.T) {
		res := c.Classify("standup every day except 25/12/2025")

		assert.Equal(t, classifier.IntentModifyException, res.Intent)
		assert.Equal(t, []string{"25/12/2025"}, res.ExceptionDates)
	})

	t.Run("exception wins over deletion vocabulary", func(t *testing.T) {
		res := c.Classify("cancela el gym pero mantenlo todos los días excepto viernes")

		assert.Equal(t, classifier.IntentModifyException, res.Intent)
		assert.Equal(t, []string{"viernes"}, res.ExceptionWeekdays)
	})
}
