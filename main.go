package main

import (
	"os"
	"path/filepath"

	"github.com/subosito/gotenv"

	"github.com/mari8i/remind-me-the-hard-way/cmd"
	"github.com/mari8i/remind-me-the-hard-way/internal/config"
	"github.com/mari8i/remind-me-the-hard-way/internal/logger"
)

// Build-time variables injected by ldflags
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildTime  = "unknown"
)

func main() {
	// Load .env from the working directory, then from the config dir; the
	// first one found wins. REMIND_* variables override config.toml.
	tryPaths := []string{".env"}
	if cfgDir, err := config.GetDefaultConfigDir(); err == nil {
		tryPaths = append(tryPaths, filepath.Join(cfgDir, ".env"))
	}
	for _, p := range tryPaths {
		if _, err := os.Stat(p); err == nil {
			if loadErr := gotenv.Load(p); loadErr == nil {
				break
			}
		}
	}

	cmd.SetVersionInfo(Version, CommitHash, BuildTime)

	if err := cmd.Execute(); err != nil {
		logger.Error("Command execution failed", "error", err)
		os.Exit(1)
	}
}
