package calendar

import (
	"time"

	gcal "google.golang.org/api/calendar/v3"
)

// Event is the subset of a Calendar event the reminder works with.
type Event struct {
	ID          string
	Summary     string
	Status      string
	HTMLLink    string
	Start       EventTime
	EntryPoints []EntryPoint
}

// EventTime holds either a timed start (DateTime, RFC3339) or an all-day
// start (Date, YYYY-MM-DD).
type EventTime struct {
	DateTime string
	Date     string
	TimeZone string
}

// EntryPoint is one way to join a conference attached to an event.
type EntryPoint struct {
	Type  string // video, phone, sip, more
	URI   string
	Label string
}

const dateLayout = "2006-01-02"

// ConvertEvent maps an API event onto Event. Missing fields stay empty and
// are reported later by Validate or StartTime.
func ConvertEvent(item *gcal.Event) Event {
	event := Event{
		ID:       item.Id,
		Summary:  item.Summary,
		Status:   item.Status,
		HTMLLink: item.HtmlLink,
	}

	if item.Start != nil {
		event.Start = EventTime{
			DateTime: item.Start.DateTime,
			Date:     item.Start.Date,
			TimeZone: item.Start.TimeZone,
		}
	}

	if item.ConferenceData != nil {
		for _, ep := range item.ConferenceData.EntryPoints {
			if ep == nil {
				continue
			}
			event.EntryPoints = append(event.EntryPoints, EntryPoint{
				Type:  ep.EntryPointType,
				URI:   ep.Uri,
				Label: ep.Label,
			})
		}
	}

	return event
}

// IsAllDay reports whether the event starts on a date with no time of day.
func (e *Event) IsAllDay() bool {
	return e.Start.DateTime == "" && e.Start.Date != ""
}

// VideoURI returns the URI of the first entry point of type "video". A first
// video entry point without a URI means the event has no usable link.
func (e *Event) VideoURI() (string, bool) {
	for _, ep := range e.EntryPoints {
		if ep.Type == EntryPointVideo {
			return ep.URI, ep.URI != ""
		}
	}
	return "", false
}

// StartTime parses the event start and expresses it in loc.
func (e *Event) StartTime(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}

	switch {
	case e.Start.DateTime != "":
		t, err := time.Parse(time.RFC3339, e.Start.DateTime)
		if err != nil {
			return time.Time{}, &MalformedEventError{EventID: e.ID, Field: "start.dateTime", Message: "is not RFC3339", Err: err}
		}
		return t.In(loc), nil
	case e.Start.Date != "":
		t, err := time.ParseInLocation(dateLayout, e.Start.Date, loc)
		if err != nil {
			return time.Time{}, &MalformedEventError{EventID: e.ID, Field: "start.date", Message: "is not a date", Err: err}
		}
		return t, nil
	default:
		return time.Time{}, &MalformedEventError{EventID: e.ID, Field: "start", Message: "is missing"}
	}
}

// Validate checks the fields the reminder logs and deduplicates on.
func (e *Event) Validate() error {
	if e.ID == "" {
		return &MalformedEventError{Field: "id", Message: "is missing"}
	}
	if e.Summary == "" {
		return &MalformedEventError{EventID: e.ID, Field: "summary", Message: "is missing"}
	}
	return nil
}

// IsCancelled reports whether the organizer cancelled the event.
func (e *Event) IsCancelled() bool {
	return e.Status == "cancelled"
}
