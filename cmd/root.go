package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mari8i/remind-me-the-hard-way/internal/config"
	"github.com/mari8i/remind-me-the-hard-way/internal/logger"
)

var (
	verbose   bool
	supervise bool
	cfgFile   string
	cfg       *config.Config

	// Version information
	version    string
	commitHash string
	buildTime  string
)

var rootCmd = &cobra.Command{
	Use:   config.AppName,
	Short: "Opens your next video meeting in the browser right before it starts",
	Long: `Polls your Google Calendar for today's events, picks the closest one with a
video conference link and opens that link in your browser a few minutes before
the meeting starts. Each meeting is opened at most once per run.

Run without a subcommand to start the reminder loop, ideally as a systemd user
service or from your session autostart.`,
	SilenceUsage: true,
	RunE:         runReminder,
}

func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, commit, buildTimeStr string) {
	version = v
	commitHash = commit
	buildTime = buildTimeStr

	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commitHash, buildTime)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config directory holding config.toml (default is $HOME/.config/remind-me-the-hard-way)")
	rootCmd.Flags().BoolVar(&supervise, "supervise", false, "keep polling after a failed iteration instead of exiting")

	// Add subcommands
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(calendarsCmd)
}

func initConfig() {
	logger.Init(verbose, "")

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(verbose, cfg.Log.Format)
	if supervise {
		cfg.Reminder.Supervise = true
	}
}
