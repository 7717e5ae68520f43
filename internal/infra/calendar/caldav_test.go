package calendar_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oskaros/reminder-engine/internal/infra/calendar"
)

func TestCalDAVCreateEvent(t *testing.T) {
	var gotMethod, gotPath, gotBody string
	var gotUser, gotPass string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()

		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)

		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := calendar.NewCalDAVClient(calendar.CalDAVConfig{
		BaseURL:  srv.URL + "/calendars/home",
		Username: "user",
		Password: "pass",
	})

	err := c.CreateEvent(context.Background(), calendar.Event{
		UID:         "abc-123",
		Title:       "call the doctor",
		Description: "Original request: remind me to call the doctor",
		Start:       time.Date(2025, 10, 2, 17, 0, 0, 0, time.UTC),
		Duration:    time.Hour,
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/calendars/home/abc-123.ics", gotPath)
	assert.Equal(t, "user", gotUser)
	assert.Equal(t, "pass", gotPass)

	assert.Contains(t, gotBody, "BEGIN:VCALENDAR")
	assert.Contains(t, gotBody, "UID:abc-123")
	assert.Contains(t, gotBody, "DTSTART:20251002T170000Z")
	assert.Contains(t, gotBody, "DTEND:20251002T180000Z")
	assert.Contains(t, gotBody, "SUMMARY:call the doctor")
}

func TestCalDAVDeleteEventToleratesMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := calendar.NewCalDAVClient(calendar.CalDAVConfig{BaseURL: srv.URL})

	// A vanished event is not an error, the goal state is reached.
	assert.NoError(t, c.DeleteEvent(context.Background(), "gone"))
}

func TestCalDAVUpdateEventTitle(t *testing.T) {
	stored := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"BEGIN:VEVENT",
		"UID:abc-123",
		"SUMMARY:call the doctor",
		"END:VEVENT",
		"END:VCALENDAR",
		"",
	}, "\r\n")

	var putBody string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(stored))
		case http.MethodPut:
			raw, _ := io.ReadAll(r.Body)
			putBody = string(raw)
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	defer srv.Close()

	c := calendar.NewCalDAVClient(calendar.CalDAVConfig{BaseURL: srv.URL})

	err := c.UpdateEventTitle(context.Background(), "abc-123", "call the dentist")
	require.NoError(t, err)

	assert.Contains(t, putBody, "SUMMARY:call the dentist")
	assert.NotContains(t, putBody, "SUMMARY:call the doctor")
	assert.Contains(t, putBody, "UID:abc-123")
}

func TestCalDAVRejectsUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := calendar.NewCalDAVClient(calendar.CalDAVConfig{BaseURL: srv.URL})

	err := c.CreateEvent(context.Background(), calendar.Event{
		UID:   "abc-123",
		Title: "anything",
		Start: time.Now().Add(time.Hour),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
