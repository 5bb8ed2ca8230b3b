package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mari8i/remind-me-the-hard-way/internal/nerdfonts"
	"github.com/mari8i/remind-me-the-hard-way/internal/reminder"
)

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show the closest video conference",
	Long: `Query the calendar once and print the conference the reminder would open
next, with the time it would be opened. Nothing is launched.`,
	RunE: runNext,
}

func runNext(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	loc, err := cfg.Calendar.Location()
	if err != nil {
		return err
	}

	authManager, err := newAuthManager()
	if err != nil {
		return err
	}
	if !authManager.HasValidToken() {
		return fmt.Errorf("authentication required. Run '%s auth' first", rootCmd.Name())
	}

	client, err := newCalendarClient(ctx, authManager)
	if err != nil {
		return err
	}

	now := func() time.Time { return time.Now().In(loc) }
	leadTime := cfg.Reminder.LeadTime()
	conf, err := reminder.NewSelector(client, leadTime, loc, now).FindClosestConference(ctx)
	if err != nil {
		return fmt.Errorf("failed to find the closest conference: %w", err)
	}

	if conf == nil {
		fmt.Printf("%s No video conferences left today\n", nerdfonts.Calendar)
		return nil
	}

	triggerTime := conf.Start.Add(-leadTime)
	fmt.Printf("%s %s\n", nerdfonts.CalendarClock, conf.Event.Summary)
	fmt.Printf("  %s Starts: %s\n", nerdfonts.Clock, conf.Start.Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("  %s Opens:  %s", nerdfonts.Hourglass, triggerTime.Format("15:04:05"))
	if until := triggerTime.Sub(now()); until > 0 {
		fmt.Printf(" (in %s)\n", until.Truncate(time.Second))
	} else {
		fmt.Println(" (due)")
	}
	fmt.Printf("  %s Link:   %s\n", nerdfonts.Video, conf.URI)
	if conf.Event.HTMLLink != "" {
		fmt.Printf("  %s Event:  %s\n", nerdfonts.Calendar, conf.Event.HTMLLink)
	}
	return nil
}
