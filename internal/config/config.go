package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mari8i/remind-me-the-hard-way/internal/calendar"
)

// AppName names the config directory and the environment prefix.
const AppName = "remind-me-the-hard-way"

// Interactive authorization flows.
const (
	FlowLoopback = "loopback"
	FlowDevice   = "device"
)

type Config struct {
	Calendar  CalendarConfig  `mapstructure:"calendar"`
	Reminder  ReminderConfig  `mapstructure:"reminder"`
	Browser   BrowserConfig   `mapstructure:"browser"`
	Auth      AuthConfig      `mapstructure:"auth"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Log       LogConfig       `mapstructure:"log"`
}

type CalendarConfig struct {
	ID       string `mapstructure:"id"`
	Timezone string `mapstructure:"timezone"`
	PageSize int64  `mapstructure:"page_size"`
}

type ReminderConfig struct {
	LeadTimeSeconds     int  `mapstructure:"lead_time_seconds"`
	PollIntervalSeconds int  `mapstructure:"poll_interval_seconds"`
	CacheTTLSeconds     int  `mapstructure:"cache_ttl_seconds"`
	Supervise           bool `mapstructure:"supervise"`
}

type BrowserConfig struct {
	Name string `mapstructure:"name"`
	Path string `mapstructure:"path"`
}

type AuthConfig struct {
	ClientSecretsFile string   `mapstructure:"client_secrets_file"`
	TokenFile         string   `mapstructure:"token_file"`
	EncryptToken      bool     `mapstructure:"encrypt_token"`
	Flow              string   `mapstructure:"flow"`
	Scopes            []string `mapstructure:"scopes"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type LogConfig struct {
	Format string `mapstructure:"format"`
}

var defaultConfig = Config{
	Calendar: CalendarConfig{
		ID:       "primary",
		Timezone: "Europe/Rome",
		PageSize: 10,
	},
	Reminder: ReminderConfig{
		LeadTimeSeconds:     480,
		PollIntervalSeconds: 10,
		CacheTTLSeconds:     60,
		Supervise:           false,
	},
	Browser: BrowserConfig{
		Name: "chrome",
		Path: "/usr/bin/google-chrome-stable",
	},
	Auth: AuthConfig{
		ClientSecretsFile: "credentials.json",
		TokenFile:         "token.json",
		EncryptToken:      true,
		Flow:              FlowLoopback,
		Scopes:            []string{calendar.ScopeCalendarReadonly},
	},
	RateLimit: RateLimitConfig{
		RequestsPerSecond: 5,
		Burst:             10,
	},
	Log: LogConfig{
		Format: "text",
	},
}

// Default returns a copy of the built-in configuration.
func Default() *Config {
	cfg := defaultConfig
	cfg.Auth.Scopes = append([]string(nil), defaultConfig.Auth.Scopes...)
	return &cfg
}

// Load reads config.toml from configPath (or the default config directory),
// applies REMIND_* environment overrides and validates the result.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetConfigName("config")

	if configPath == "" {
		configDir, err := getDefaultConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get config directory: %w", err)
		}
		configPath = configDir
	}

	v.AddConfigPath(configPath)
	v.AddConfigPath(".")

	v.SetEnvPrefix("REMIND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := createDefaultConfig(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		// A second miss leaves defaults and environment in effect.
		_ = v.ReadInConfig()
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()

	// Calendar
	v.SetDefault("calendar.id", d.Calendar.ID)
	v.SetDefault("calendar.timezone", d.Calendar.Timezone)
	v.SetDefault("calendar.page_size", d.Calendar.PageSize)

	// Reminder
	v.SetDefault("reminder.lead_time_seconds", d.Reminder.LeadTimeSeconds)
	v.SetDefault("reminder.poll_interval_seconds", d.Reminder.PollIntervalSeconds)
	v.SetDefault("reminder.cache_ttl_seconds", d.Reminder.CacheTTLSeconds)
	v.SetDefault("reminder.supervise", d.Reminder.Supervise)

	// Browser
	v.SetDefault("browser.name", d.Browser.Name)
	v.SetDefault("browser.path", d.Browser.Path)

	// Auth
	v.SetDefault("auth.client_secrets_file", d.Auth.ClientSecretsFile)
	v.SetDefault("auth.token_file", d.Auth.TokenFile)
	v.SetDefault("auth.encrypt_token", d.Auth.EncryptToken)
	v.SetDefault("auth.flow", d.Auth.Flow)
	v.SetDefault("auth.scopes", d.Auth.Scopes)

	v.SetDefault("ratelimit.requests_per_second", d.RateLimit.RequestsPerSecond)
	v.SetDefault("ratelimit.burst", d.RateLimit.Burst)
	v.SetDefault("log.format", d.Log.Format)
}

func createDefaultConfig(configPath string) error {
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := filepath.Join(configPath, "config.toml")
	if _, err := os.Stat(configFile); err == nil {
		return nil
	}

	configContent := `# remind-me-the-hard-way configuration

[calendar]
id = "primary"            # calendar to watch, see 'remind-me-the-hard-way calendars'
timezone = "Europe/Rome"
page_size = 10

[reminder]
lead_time_seconds = 480    # open the meeting this long before it starts
poll_interval_seconds = 10
cache_ttl_seconds = 60
supervise = false          # keep polling after errors instead of exiting

[browser]
name = "chrome"
path = "/usr/bin/google-chrome-stable"

[auth]
client_secrets_file = "credentials.json"
token_file = "token.json"
encrypt_token = true
flow = "loopback"          # loopback (local browser) or device (enter a code elsewhere)
scopes = ["https://www.googleapis.com/auth/calendar.readonly"]

[ratelimit]
requests_per_second = 5
burst = 10

[log]
format = "text"            # text or json
`

	if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func getDefaultConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, AppName), nil
}

func GetDefaultConfigDir() (string, error) {
	return getDefaultConfigDir()
}

func (r ReminderConfig) LeadTime() time.Duration {
	return time.Duration(r.LeadTimeSeconds) * time.Second
}

func (r ReminderConfig) PollInterval() time.Duration {
	return time.Duration(r.PollIntervalSeconds) * time.Second
}

func (r ReminderConfig) CacheTTL() time.Duration {
	return time.Duration(r.CacheTTLSeconds) * time.Second
}

// Location resolves the configured IANA timezone.
func (c CalendarConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, NewValidationError("calendar.timezone", c.Timezone, "unknown timezone").WithCause(err)
	}
	return loc, nil
}
