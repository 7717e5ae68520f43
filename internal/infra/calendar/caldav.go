package calendar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type CalDAVConfig struct {
	BaseURL  string
	Username string
	Password string
	Timeout  time.Duration
}

// CalDAVClient talks to a CalDAV collection (e.g. iCloud) over plain HTTP.
// Each event lives at {base}/{uid}.ics, so create, update and delete all
// address the same resource.
type CalDAVClient struct {
	cfg    CalDAVConfig
	client *http.Client
}

func NewCalDAVClient(cfg CalDAVConfig) *CalDAVClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &CalDAVClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *CalDAVClient) CreateEvent(ctx context.Context, event Event) error {
	if event.Duration <= 0 {
		event.Duration = time.Hour
	}

	body := renderICS(event)

	return c.put(ctx, event.UID, body)
}

func (c *CalDAVClient) DeleteEvent(ctx context.Context, uid string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.eventURL(uid), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.SetBasicAuth(c.cfg.Username, c.cfg.Password)

	return c.do(req, http.StatusNoContent, http.StatusOK, http.StatusNotFound)
}

// UpdateEventTitle fetches the stored event and re-PUTs it with a new
// summary line. CalDAV has no partial update, the whole resource is replaced.
func (c *CalDAVClient) UpdateEventTitle(ctx context.Context, uid, title string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.eventURL(uid), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.SetBasicAuth(c.cfg.Username, c.cfg.Password)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("calendar request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("calendar request failed: status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read event: %w", err)
	}

	lines := strings.Split(string(raw), "\r\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "SUMMARY:") {
			lines[i] = "SUMMARY:" + escapeICS(title)
		}
	}

	return c.put(ctx, uid, strings.Join(lines, "\r\n"))
}

func (c *CalDAVClient) put(ctx context.Context, uid, body string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.eventURL(uid), strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.SetBasicAuth(c.cfg.Username, c.cfg.Password)
	req.Header.Set("Content-Type", "text/calendar; charset=utf-8")

	return c.do(req, http.StatusCreated, http.StatusNoContent, http.StatusOK)
}

func (c *CalDAVClient) do(req *http.Request, accepted ...int) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("calendar request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	for _, code := range accepted {
		if resp.StatusCode == code {
			return nil
		}
	}

	return fmt.Errorf("calendar request failed: status %d", resp.StatusCode)
}

func (c *CalDAVClient) eventURL(uid string) string {
	return strings.TrimSuffix(c.cfg.BaseURL, "/") + "/" + url.PathEscape(uid) + ".ics"
}

func renderICS(event Event) string {
	var b strings.Builder

	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString("PRODID:-//reminder-engine//EN\r\n")
	b.WriteString("BEGIN:VEVENT\r\n")
	b.WriteString("UID:" + event.UID + "\r\n")
	b.WriteString("DTSTAMP:" + event.Start.UTC().Format("20060102T150405Z") + "\r\n")
	b.WriteString("DTSTART:" + event.Start.UTC().Format("20060102T150405Z") + "\r\n")
	b.WriteString("DTEND:" + event.Start.Add(event.Duration).UTC().Format("20060102T150405Z") + "\r\n")
	b.WriteString("SUMMARY:" + escapeICS(event.Title) + "\r\n")
	if event.Description != "" {
		b.WriteString("DESCRIPTION:" + escapeICS(event.Description) + "\r\n")
	}
	b.WriteString("END:VEVENT\r\n")
	b.WriteString("END:VCALENDAR\r\n")

	return b.String()
}

func escapeICS(s string) string {
	r := strings.NewReplacer("\\", "\\\\", ";", "\\;", ",", "\\,", "\n", "\\n")

	return r.Replace(s)
}
