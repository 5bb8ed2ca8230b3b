package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/mari8i/remind-me-the-hard-way/internal/logger"
)

// ClientConfig selects the calendar and the paging of list requests.
type ClientConfig struct {
	CalendarID string
	PageSize   int64
	RateLimit  RateLimitConfig
}

// Client lists events of a single calendar.
type Client struct {
	service    *gcal.Service
	calendarID string
	pageSize   int64
	limiter    *RateLimiter
}

// NewClient builds the Calendar v3 service. Callers pass the authorized
// transport through opts (option.WithHTTPClient or option.WithTokenSource).
func NewClient(ctx context.Context, cfg ClientConfig, opts ...option.ClientOption) (*Client, error) {
	service, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	calendarID := cfg.CalendarID
	if calendarID == "" {
		calendarID = PrimaryCalendarID
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}

	return &Client{
		service:    service,
		calendarID: calendarID,
		pageSize:   pageSize,
		limiter:    NewRateLimiter(cfg.RateLimit),
	}, nil
}

func (c *Client) CalendarID() string {
	return c.calendarID
}

// ListEvents returns the single (expanded) event instances in
// [timeMin, timeMax] ordered by start time, following every page.
func (c *Client) ListEvents(ctx context.Context, timeMin, timeMax time.Time) ([]Event, error) {
	logger.Info("Retrieving next events from google calendar",
		"calendar_id", c.calendarID, "time_min", timeMin.Format(time.RFC3339), "time_max", timeMax.Format(time.RFC3339))

	call := c.service.Events.List(c.calendarID).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(c.pageSize)

	var events []Event
	pages := 0
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, newQueryError("list_events", c.calendarID, err)
		}

		page, err := call.Context(ctx).Do()
		if err != nil {
			return nil, c.wrapError("list_events", err)
		}
		pages++

		for _, item := range page.Items {
			if item == nil {
				continue
			}
			events = append(events, ConvertEvent(item))
		}

		if page.NextPageToken == "" {
			break
		}
		call.PageToken(page.NextPageToken)
	}

	logger.Debug("fetched events", "calendar_id", c.calendarID, "event_count", len(events), "pages", pages)
	return events, nil
}

// CalendarInfo describes one entry of the user's calendar list.
type CalendarInfo struct {
	ID         string
	Summary    string
	Primary    bool
	AccessRole string
}

// ListCalendars returns every calendar the credential can read.
func (c *Client) ListCalendars(ctx context.Context) ([]CalendarInfo, error) {
	var calendars []CalendarInfo
	call := c.service.CalendarList.List()

	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, newQueryError("list_calendars", "", err)
		}

		page, err := call.Context(ctx).Do()
		if err != nil {
			return nil, c.wrapError("list_calendars", err)
		}

		for _, entry := range page.Items {
			calendars = append(calendars, CalendarInfo{
				ID:         entry.Id,
				Summary:    entry.Summary,
				Primary:    entry.Primary,
				AccessRole: entry.AccessRole,
			})
		}

		if page.NextPageToken == "" {
			return calendars, nil
		}
		call.PageToken(page.NextPageToken)
	}
}

// wrapError keeps credential failures surfacing from the token source as
// they are and turns everything else into a QueryError.
func (c *Client) wrapError(operation string, err error) error {
	var credErr *CredentialError
	if errors.As(err, &credErr) {
		return credErr
	}

	qerr := newQueryError(operation, c.calendarID, err)
	if errors.Is(qerr, ErrRateLimited) {
		c.limiter.RecordRateLimitError(retryAfterSeconds(err))
	}
	return qerr
}
