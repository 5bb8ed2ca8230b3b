package calendar

// ScopeCalendarReadonly grants read access to every calendar of the user.
const ScopeCalendarReadonly = "https://www.googleapis.com/auth/calendar.readonly"

// CalendarScopes is the default scope list; the reminder never writes.
var CalendarScopes = []string{ScopeCalendarReadonly}

// EntryPointVideo is the conference entry point type that qualifies an event.
const EntryPointVideo = "video"

// PrimaryCalendarID addresses the authenticated user's own calendar.
const PrimaryCalendarID = "primary"
