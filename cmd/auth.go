package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mari8i/remind-me-the-hard-way/internal/config"
	"github.com/mari8i/remind-me-the-hard-way/internal/nerdfonts"
)

var (
	clearFlag  bool
	statusOnly bool
	deviceFlag bool
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Google Calendar authentication",
	Long: `Authorize read-only access to Google Calendar.

The consent page opens in your default browser and the authorization is received
on a temporary local port. You need an OAuth client of type "Desktop app"; point
auth.client_secrets_file at its JSON file.

Examples:
  remind-me-the-hard-way auth             # Authenticate
  remind-me-the-hard-way auth --device    # Authenticate from a machine without a browser
  remind-me-the-hard-way auth --status    # Check authentication status
  remind-me-the-hard-way auth --clear     # Remove the stored token`,
	RunE: runAuth,
}

func init() {
	authCmd.Flags().BoolVar(&clearFlag, "clear", false, "remove the stored token")
	authCmd.Flags().BoolVar(&statusOnly, "status", false, "check authentication status only")
	authCmd.Flags().BoolVar(&deviceFlag, "device", false, "use the device code flow instead of a local browser")
}

func runAuth(cmd *cobra.Command, args []string) error {
	if deviceFlag {
		cfg.Auth.Flow = config.FlowDevice
	}

	authManager, err := newAuthManager()
	if err != nil {
		return err
	}

	if statusOnly {
		if authManager.HasValidToken() {
			fmt.Printf("%s Authentication: Valid\n", nerdfonts.CheckCircle)
		} else {
			fmt.Printf("%s Authentication: Required\n", nerdfonts.ExclamationCircle)
		}
		return nil
	}

	if clearFlag {
		fmt.Printf("%s Clearing authentication...\n", nerdfonts.InfoCircle)
		if err := authManager.Logout(); err != nil {
			return fmt.Errorf("failed to clear authentication: %w", err)
		}
		fmt.Printf("%s Authentication cleared successfully\n", nerdfonts.CheckCircle)
		return nil
	}

	if authManager.HasValidToken() {
		fmt.Printf("%s Already authenticated with Google Calendar\n", nerdfonts.CheckCircle)
		fmt.Println("Use --clear to re-authenticate or --status to check status")
		return nil
	}

	fmt.Printf("%s Starting authorization...\n", nerdfonts.InfoCircle)
	if _, err := authManager.Login(cmd.Context()); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	fmt.Printf("%s Authentication successful!\n", nerdfonts.CheckCircle)
	fmt.Printf("You can now run '%s' to start the reminder.\n", rootCmd.Name())
	return nil
}
