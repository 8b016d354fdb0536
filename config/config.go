package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	golobby "github.com/golobby/config/v3"
	"github.com/golobby/config/v3/pkg/feeder"

	"github.com/nordlys/portfolio/utils"
)

type Config struct {
	Portfolio PortfolioConfig
	Pushover  PushoverConfig
	Spotify   SpotifyConfig
}

type PortfolioConfig struct {
	Addr                   string `env:"ADDR"`
	AllowedOrigins         string `env:"ALLOWED_ORIGINS"`
	BackgroundJobsEnabled  bool   `env:"BACKGROUND_JOBS_ENABLED"`
	DbPath                 string `env:"DB_PATH"`
	LogFormat              string `env:"LOG_FORMAT"`
	LogLevel               string `env:"LOG_LEVEL"`
	NowPlayingDemo         bool   `env:"NOW_PLAYING_DEMO"`
	NowPlayingPollInterval string `env:"NOW_PLAYING_POLL_INTERVAL"`
	SiteURL                string `env:"SITE_URL"`
}

type PushoverConfig struct {
	Recipient string `env:"PUSHOVER_RECIPIENT"`
	Token     string `env:"PUSHOVER_TOKEN"`
}

// SpotifyConfig values are optional at startup. Each endpoint reports the
// values it is missing when it is called.
type SpotifyConfig struct {
	ClientId     string `env:"SPOTIFY_CLIENT_ID"`
	ClientSecret string `env:"SPOTIFY_CLIENT_SECRET"`
	RedirectUri  string `env:"SPOTIFY_REDIRECT_URI"`
	RefreshToken string `env:"SPOTIFY_REFRESH_TOKEN"`
}

func Default() Config {
	return Config{
		Portfolio: PortfolioConfig{
			Addr:                   ":8080",
			AllowedOrigins:         "http://localhost:8080",
			BackgroundJobsEnabled:  true,
			LogFormat:              "text",
			LogLevel:               "info",
			NowPlayingPollInterval: "10s",
			SiteURL:                "http://localhost:8080",
		},
	}
}

// Load reads configuration from the environment on top of Default. Variables
// that are unset keep their default value.
func Load() (Config, error) {
	cfg := Default()
	err := golobby.New().
		AddFeeder(feeder.Env{}).
		AddStruct(&cfg).
		Feed()
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}
	interval, err := time.ParseDuration(cfg.Portfolio.NowPlayingPollInterval)
	if err != nil {
		return cfg, fmt.Errorf("invalid NOW_PLAYING_POLL_INTERVAL: %w", err)
	}
	if interval < time.Second {
		return cfg, fmt.Errorf("NOW_PLAYING_POLL_INTERVAL must be at least 1s, got %s", interval)
	}
	return cfg, nil
}

// PollInterval is only meaningful on a Config returned by Load without error
func (c *Config) PollInterval() time.Duration {
	interval, err := time.ParseDuration(c.Portfolio.NowPlayingPollInterval)
	if err != nil {
		return 10 * time.Second
	}
	return interval
}

func (c *Config) Origins() []string {
	return utils.SplitList(c.Portfolio.AllowedOrigins)
}

func (c *Config) PushoverEnabled() bool {
	return c.Pushover.Token != "" && c.Pushover.Recipient != ""
}

func (c *Config) GetLogLevel() slog.Leveler {
	logLevel := strings.ToLower(c.Portfolio.LogLevel)
	if logLevel == "error" {
		return slog.LevelError
	}
	if logLevel == "warning" {
		return slog.LevelWarn
	}
	if logLevel == "info" {
		return slog.LevelInfo
	}
	if logLevel == "debug" {
		return slog.LevelDebug
	}
	// default to info if unknown
	slog.With(slog.String("log_level", logLevel)).Info("Received invalid log level. Defaulting to INFO.")
	return slog.LevelInfo
}
