package utils

import (
	"log/slog"
	"os"
	"time"
)

type Config struct {
	port         string
	databasePath string
	feedsFile    string

	location    *time.Location
	refreshCron string

	notifyWindow             time.Duration
	metricCollectionInterval time.Duration

	discordAppToken  string
	discordChannelID string
}

func NewConfig() *Config {
	return &Config{
		port: func() string {
			port := os.Getenv("PORT")
			if port == "" {
				port = "8080"
			}
			slog.Debug("env", "PORT", port)
			return port
		}(),

		databasePath: func() string {
			databasePath := os.Getenv("DATABASE_PATH")
			if databasePath == "" {
				databasePath = "./sqlite.db"
			}
			slog.Debug("env", "DATABASE_PATH", databasePath)
			return databasePath
		}(),

		feedsFile: func() string {
			feedsFile := os.Getenv("FEEDS_FILE")
			if feedsFile == "" {
				slog.Warn("FEEDS_FILE is not set, no feeds will be seeded at startup")
			}
			slog.Debug("env", "FEEDS_FILE", feedsFile)
			return feedsFile
		}(),

		location: func() *time.Location {
			timezoneStr := os.Getenv("TIMEZONE")
			var loc *time.Location
			var err error
			switch timezoneStr {
			case "":
				slog.Warn("TIMEZONE is not set, using local timezone", "timezone", time.Local)
				loc = time.Local
			case "UTC":
				loc = time.UTC
			default:
				loc, err = time.LoadLocation(timezoneStr)
				if err != nil {
					slog.Error("invalid timezone", "timezone", timezoneStr, "error", err)
					os.Exit(1)
				}
			}
			slog.Debug("env", "TIMEZONE", timezoneStr)
			return loc
		}(),

		refreshCron: func() string {
			refreshCron := os.Getenv("REFRESH_CRON")
			if refreshCron == "" {
				refreshCron = "*/15 * * * *"
			}
			slog.Debug("env", "REFRESH_CRON", refreshCron)
			return refreshCron
		}(),

		notifyWindow: func() time.Duration {
			notifyWindow := os.Getenv("NOTIFY_WINDOW")
			if notifyWindow == "" {
				notifyWindow = "15m"
			}
			duration, err := time.ParseDuration(notifyWindow)
			if err != nil {
				slog.Error("invalid NOTIFY_WINDOW", "error", err)
				os.Exit(1)
			}
			slog.Debug("env", "NOTIFY_WINDOW", notifyWindow, "duration", duration)
			return duration
		}(),

		metricCollectionInterval: func() time.Duration {
			metricCollectionInterval := os.Getenv("METRIC_COLLECTION_INTERVAL")
			if metricCollectionInterval == "" {
				metricCollectionInterval = "1m"
			}
			duration, err := time.ParseDuration(metricCollectionInterval)
			if err != nil {
				slog.Error("invalid METRIC_COLLECTION_INTERVAL", "error", err)
				os.Exit(1)
			}
			slog.Debug("env", "METRIC_COLLECTION_INTERVAL", metricCollectionInterval, "duration", duration)
			return duration
		}(),

		discordAppToken: func() string {
			discordAppToken := os.Getenv("DISCORD_APP_TOKEN")
			if discordAppToken == "" {
				slog.Warn("DISCORD_APP_TOKEN is not set, alarm notifications are disabled")
				return ""
			}
			slog.Debug("env", "DISCORD_APP_TOKEN", discordAppToken[0:3]+"...")
			return discordAppToken
		}(),
		discordChannelID: func() string {
			discordChannelID := os.Getenv("DISCORD_CHANNEL_ID")
			if discordChannelID == "" {
				slog.Warn("DISCORD_CHANNEL_ID is not set, alarm notifications are disabled")
				return ""
			}
			slog.Debug("env", "DISCORD_CHANNEL_ID", discordChannelID)
			return discordChannelID
		}(),
	}
}

// Get PORT env, default to 8080
func (c *Config) GetPort() string {
	return c.port
}

// Get DATABASE_PATH env, default to ./sqlite.db
func (c *Config) GetDatabasePath() string {
	return c.databasePath
}

// Get FEEDS_FILE env, blank when no seed file is configured
func (c *Config) GetFeedsFile() string {
	return c.feedsFile
}

// Get TIMEZONE env
func (c *Config) GetLocation() *time.Location {
	return c.location
}

// Get REFRESH_CRON env, default to every 15 minutes
func (c *Config) GetRefreshCron() string {
	return c.refreshCron
}

// Get NOTIFY_WINDOW env, default to 15 minutes
func (c *Config) GetNotifyWindow() time.Duration {
	return c.notifyWindow
}

// Get METRIC_COLLECTION_INTERVAL env, default to 1 minute
func (c *Config) GetMetricCollectionInterval() time.Duration {
	return c.metricCollectionInterval
}

// Get DISCORD_APP_TOKEN env, blank when notifications are disabled
func (c *Config) GetDiscordAppToken() string {
	return c.discordAppToken
}

// Get DISCORD_CHANNEL_ID env, blank when notifications are disabled
func (c *Config) GetDiscordChannelID() string {
	return c.discordChannelID
}
