package commands

import (
	"bannerreg/lib/chrono"
	"bannerreg/lib/configutil"
	"bannerreg/lib/report"
	"bannerreg/lib/scrapers/banner"
	"fmt"
	"log/slog"
	"os"
	"time"
)

const (
	configName      = "bannerreg.json5"
	defaultTimezone = "America/New_York"
	// registration times without an offset are read in the configured zone
	registrationTimeLayout = "2006-01-02 15:04:05"
)

type Config struct {
	BaseUrl   string `json:"base_url"`
	Term      string `json:"term"`
	StudentId string `json:"student_id"`
	Pin       string `json:"pin"`

	RegistrationTime string   `json:"registration_time"`
	Timezone         string   `json:"timezone"`
	Crns             []string `json:"crns"`

	PollIntervalMs   int              `json:"poll_interval_ms"`
	TimeoutMs        int              `json:"timeout_ms"`
	UserAgent        string           `json:"user_agent"`
	CloudflareBypass bool             `json:"cloudflare_bypass"`
	Selectors        banner.Selectors `json:"selectors"`

	Email report.EmailConfig `json:"email"`
}

// loadConfig reads path (or searches upward for bannerreg.json5 when path
// is empty), then lets the environment override the credentials. A
// missing config file is not an error, flags and environment may supply
// everything.
func loadConfig(path string, envFiles ...string) (Config, error) {
	var (
		cfg Config
		err error
	)
	if path == "" {
		cfg, err = configutil.ReadRecursively[Config](configName)
	} else {
		cfg, err = configutil.ReadConfig[Config](path)
	}
	if os.IsNotExist(err) {
		slog.Warn("no config file found, relying on flags and environment", "name", configName)
		err = nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	err = configutil.LoadDotenv(envFiles...)
	if err != nil {
		return Config{}, err
	}
	configutil.EnvOverride(&cfg.StudentId, "BANNER_STUDENT_ID")
	configutil.EnvOverride(&cfg.Pin, "BANNER_PIN")

	if cfg.Timezone == "" {
		cfg.Timezone = defaultTimezone
	}
	return cfg, nil
}

// ParseRegistrationTime accepts RFC3339 or "2006-01-02 15:04:05" in loc.
// An empty value is the zero time, which submits without waiting.
func ParseRegistrationTime(value string, loc *time.Location) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err == nil {
		return t, nil
	}
	t, err = time.ParseInLocation(registrationTimeLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf(
			"registration time %q is neither RFC3339 nor %q", value, registrationTimeLayout,
		)
	}
	return t, nil
}

func (c Config) clientOptions(clock chrono.API, target time.Time) banner.ClientOptions {
	return banner.ClientOptions{
		BaseUrl: c.BaseUrl,
		Term:    c.Term,
		Credentials: banner.Credentials{
			StudentID: c.StudentId,
			PIN:       c.Pin,
		},
		RegistrationTime: target,
		Clock:            clock,
		PollInterval:     time.Duration(c.PollIntervalMs) * time.Millisecond,
		Timeout:          time.Duration(c.TimeoutMs) * time.Millisecond,
		UserAgent:        c.UserAgent,
		Selectors:        c.Selectors,
		CloudflareBypass: c.CloudflareBypass,
	}
}
