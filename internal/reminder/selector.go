// Package reminder decides when to open the next video conference: it
// selects the closest qualifying event, applies the lead time and remembers
// which events were already opened.
package reminder

import (
	"context"
	"time"

	"github.com/mari8i/remind-me-the-hard-way/internal/calendar"
	"github.com/mari8i/remind-me-the-hard-way/internal/logger"
)

// EventLister lists calendar events in a time window ordered by start time.
type EventLister interface {
	ListEvents(ctx context.Context, timeMin, timeMax time.Time) ([]calendar.Event, error)
}

// Conference is a qualifying event together with its video link.
type Conference struct {
	Event calendar.Event
	URI   string
	Start time.Time
}

// Finder returns the closest conference, or nil when there is none.
type Finder interface {
	FindClosestConference(ctx context.Context) (*Conference, error)
}

// Selector queries today's events and picks the first one with a video link.
type Selector struct {
	events   EventLister
	leadTime time.Duration
	loc      *time.Location
	now      func() time.Time
}

var _ Finder = (*Selector)(nil)

func NewSelector(events EventLister, leadTime time.Duration, loc *time.Location, now func() time.Time) *Selector {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &Selector{
		events:   events,
		leadTime: leadTime,
		loc:      loc,
		now:      now,
	}
}

// Now is the current time in the configured timezone.
func (s *Selector) Now() time.Time {
	return s.now().In(s.loc)
}

// Window returns [now-leadTime, last instant of now's day]. The lookback
// keeps an event that is about to start visible until it fires.
func Window(now time.Time, leadTime time.Duration) (time.Time, time.Time) {
	start := now.Add(-leadTime)
	end := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), now.Location())
	return start, end
}

func (s *Selector) FindClosestConference(ctx context.Context) (*Conference, error) {
	logger.Info("Retrieving closest conference...")

	from, to := Window(s.Now(), s.leadTime)
	events, err := s.events.ListEvents(ctx, from, to)
	if err != nil {
		return nil, err
	}

	return SelectConference(events, s.loc)
}

// SelectConference returns the first timed, non-cancelled event, in the
// given order, that has a video entry point. No match is (nil, nil).
func SelectConference(events []calendar.Event, loc *time.Location) (*Conference, error) {
	logger.Debug("Filtering out all-day events", "event_count", len(events))

	for i := range events {
		event := events[i]
		if event.IsAllDay() || event.IsCancelled() {
			continue
		}

		uri, ok := event.VideoURI()
		if !ok {
			continue
		}

		if err := event.Validate(); err != nil {
			return nil, err
		}
		start, err := event.StartTime(loc)
		if err != nil {
			return nil, err
		}

		return &Conference{Event: event, URI: uri, Start: start}, nil
	}

	return nil, nil
}
