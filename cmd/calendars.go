package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mari8i/remind-me-the-hard-way/internal/nerdfonts"
)

var calendarsCmd = &cobra.Command{
	Use:   "calendars",
	Short: "List available calendars",
	Long: `List all calendars accessible with your Google account.

Use one of the printed IDs as calendar.id in the configuration file to watch a
calendar other than your primary one.`,
	RunE: runCalendars,
}

func runCalendars(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

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

	calendars, err := client.ListCalendars(ctx)
	if err != nil {
		return fmt.Errorf("failed to list calendars: %w", err)
	}

	fmt.Println("=== Available Calendars ===")
	for _, cal := range calendars {
		icon := nerdfonts.Calendar
		if cal.Primary {
			icon = nerdfonts.CheckCircle + " " + nerdfonts.Calendar
		}

		fmt.Printf("%s %s\n", icon, cal.Summary)
		fmt.Printf("  ID: %s\n", cal.ID)
		fmt.Printf("  Access Role: %s\n", cal.AccessRole)
		if cal.Primary {
			fmt.Printf("  Primary: Yes\n")
		}
		fmt.Println()
	}

	fmt.Printf("Total calendars: %d\n", len(calendars))
	if cal := client.CalendarID(); cal != "" {
		fmt.Printf("Currently watching: %s\n", cal)
	}
	return nil
}
