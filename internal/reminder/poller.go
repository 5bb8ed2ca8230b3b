package reminder

import (
	"context"
	"time"

	"github.com/mari8i/remind-me-the-hard-way/internal/logger"
)

// Poller drives the engine on a fixed interval.
type Poller struct {
	finder    Finder
	engine    *Engine
	interval  time.Duration
	now       func() time.Time
	supervise bool
	sleep     func(ctx context.Context, d time.Duration) error
}

type PollerOption func(*Poller)

// WithSupervision keeps the loop alive after a failed iteration; the error is
// logged and the next poll retries.
func WithSupervision(enabled bool) PollerOption {
	return func(p *Poller) { p.supervise = enabled }
}

func WithClock(now func() time.Time) PollerOption {
	return func(p *Poller) { p.now = now }
}

func WithSleep(sleep func(ctx context.Context, d time.Duration) error) PollerOption {
	return func(p *Poller) { p.sleep = sleep }
}

func NewPoller(finder Finder, engine *Engine, interval time.Duration, opts ...PollerOption) *Poller {
	p := &Poller{
		finder:   finder,
		engine:   engine,
		interval: interval,
		now:      time.Now,
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Poll runs a single query-and-decide step.
func (p *Poller) Poll(ctx context.Context) (Decision, error) {
	logger.Info("Finding closest conference")

	conf, err := p.finder.FindClosestConference(ctx)
	if err != nil {
		return DecisionNone, err
	}
	if conf == nil {
		logger.Info("There are no events scheduled at the moment..")
		return DecisionNone, nil
	}

	logger.Info("Closest conference found", "event", conf.Event.Summary, "start", conf.Start)
	return p.engine.Decide(conf, p.now())
}

// Run polls until ctx is done. Without supervision the first failing
// iteration ends the loop with its error.
func (p *Poller) Run(ctx context.Context) error {
	logger.Info("Starting main loop", "interval", p.interval, "supervised", p.supervise)

	for {
		if _, err := p.Poll(ctx); err != nil {
			if !p.supervise {
				return err
			}
			logger.Error("poll failed, retrying on the next iteration", "error", err)
		}

		if err := p.sleep(ctx, p.interval); err != nil {
			return err
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
