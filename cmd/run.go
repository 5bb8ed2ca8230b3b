package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/api/option"

	"github.com/mari8i/remind-me-the-hard-way/internal/browser"
	"github.com/mari8i/remind-me-the-hard-way/internal/calendar"
	"github.com/mari8i/remind-me-the-hard-way/internal/config"
	"github.com/mari8i/remind-me-the-hard-way/internal/logger"
	"github.com/mari8i/remind-me-the-hard-way/internal/reminder"
	"github.com/mari8i/remind-me-the-hard-way/internal/security"
)

func runReminder(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	loc, err := cfg.Calendar.Location()
	if err != nil {
		return err
	}
	now := func() time.Time { return time.Now().In(loc) }

	authManager, err := newAuthManager()
	if err != nil {
		return err
	}
	// Bootstrap credentials before the first poll so a consent prompt shows
	// up at startup rather than minutes later.
	if _, err := authManager.Credentials(ctx); err != nil {
		return err
	}

	client, err := newCalendarClient(ctx, authManager)
	if err != nil {
		return err
	}

	leadTime := cfg.Reminder.LeadTime()
	selector := reminder.NewSelector(client, leadTime, loc, now)
	finder := reminder.NewCachedFinder(selector, cfg.Reminder.CacheTTL(), now)
	engine := reminder.NewEngine(browser.New(cfg.Browser.Name, cfg.Browser.Path), reminder.NewTriggerState(), leadTime)
	poller := reminder.NewPoller(finder, engine, cfg.Reminder.PollInterval(),
		reminder.WithClock(now),
		reminder.WithSupervision(cfg.Reminder.Supervise),
	)

	logger.Info("Reminder started",
		"calendar_id", client.CalendarID(),
		"timezone", loc.String(),
		"lead_time", leadTime,
		"browser", cfg.Browser.Name)

	return poller.Run(ctx)
}

// newAuthManager wires the credential store and the interactive flow from
// the loaded configuration. Every Google request goes through the host
// allowlist client.
func newAuthManager() (*calendar.AuthManager, error) {
	oauthConfig, err := calendar.LoadOAuthConfig(cfg.Auth.ClientSecretsFile, cfg.Auth.Scopes...)
	if err != nil {
		return nil, err
	}

	httpClient := security.NewHTTPClient(security.GoogleHosts...)
	store, err := calendar.NewFileCredentialStore(cfg.Auth.TokenFile, oauthConfig, httpClient, cfg.Auth.EncryptToken)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize credential store: %w", err)
	}
	logger.Debug("credential store ready", "token_file", store.Path(), "encrypted", cfg.Auth.EncryptToken)

	return calendar.NewAuthManager(oauthConfig, store, newInteractiveFlow(cfg.Auth.Flow), httpClient), nil
}

func newInteractiveFlow(name string) calendar.InteractiveFlow {
	if name == config.FlowDevice {
		return &calendar.DeviceFlow{Out: os.Stderr}
	}
	return &calendar.LoopbackFlow{
		Open: browser.OpenDefault,
		Out:  os.Stderr,
	}
}

func newCalendarClient(ctx context.Context, authManager *calendar.AuthManager) (*calendar.Client, error) {
	clientConfig := calendar.ClientConfig{
		CalendarID: cfg.Calendar.ID,
		PageSize:   cfg.Calendar.PageSize,
		RateLimit: calendar.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstSize:         cfg.RateLimit.Burst,
		},
	}

	client, err := calendar.NewClient(ctx, clientConfig, option.WithHTTPClient(authManager.HTTPClient(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize calendar client: %w", err)
	}
	return client, nil
}
