package reminder

import (
	"sync"
	"time"

	"github.com/mari8i/remind-me-the-hard-way/internal/logger"
)

// TriggerState remembers the IDs of events already opened in this process.
type TriggerState struct {
	mu      sync.Mutex
	handled map[string]struct{}
}

func NewTriggerState() *TriggerState {
	return &TriggerState{handled: make(map[string]struct{})}
}

func (s *TriggerState) Has(eventID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.handled[eventID]
	return ok
}

// Mark records eventID. Once marked an ID stays marked.
func (s *TriggerState) Mark(eventID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.handled[eventID] = struct{}{}
}

func (s *TriggerState) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.handled)
}

// Launcher opens a conference URL.
type Launcher interface {
	Open(url string) error
}

// Decision is the outcome of one trigger evaluation.
type Decision int

const (
	DecisionNone Decision = iota
	DecisionAlreadyHandled
	DecisionWaiting
	DecisionLaunched
)

func (d Decision) String() string {
	switch d {
	case DecisionAlreadyHandled:
		return "already_handled"
	case DecisionWaiting:
		return "waiting"
	case DecisionLaunched:
		return "launched"
	default:
		return "none"
	}
}

// Engine fires the launcher at most once per event, at or after
// start - leadTime.
type Engine struct {
	launcher Launcher
	state    *TriggerState
	leadTime time.Duration
}

func NewEngine(launcher Launcher, state *TriggerState, leadTime time.Duration) *Engine {
	if state == nil {
		state = NewTriggerState()
	}
	return &Engine{
		launcher: launcher,
		state:    state,
		leadTime: leadTime,
	}
}

func (e *Engine) State() *TriggerState {
	return e.state
}

// TriggerTime is when the conference should be opened.
func (e *Engine) TriggerTime(conf *Conference) time.Time {
	return conf.Start.Add(-e.leadTime)
}

// Decide opens conf when now has reached its trigger time and it was not
// opened before. A failed launch leaves the event unmarked.
func (e *Engine) Decide(conf *Conference, now time.Time) (Decision, error) {
	if e.state.Has(conf.Event.ID) {
		logger.Debug("event already handled", "event", conf.Event.Summary, "event_id", conf.Event.ID)
		return DecisionAlreadyHandled, nil
	}

	triggerTime := e.TriggerTime(conf)
	logger.Info("Event has not been handled",
		"event", conf.Event.Summary, "start", conf.Start, "trigger_time", triggerTime)

	if now.Before(triggerTime) {
		return DecisionWaiting, nil
	}

	logger.Info("Opening event in browser", "event", conf.Event.Summary, "url", conf.URI)
	if err := e.launcher.Open(conf.URI); err != nil {
		return DecisionNone, err
	}

	e.state.Mark(conf.Event.ID)
	return DecisionLaunched, nil
}
