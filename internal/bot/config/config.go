// Package config handles configuration for the bot process, layering
// defaults, an optional JSON file, environment variables, and command-line
// flags (later layers win).
package config

import (
	"errors"
	"time"
)

// Config holds runtime settings for the filekeeper bot.
//
// Fields:
//   - TelegramBotToken: bot API token (required).
//   - OperatorUsernames: Telegram usernames that are always authorized and
//     may rotate the shared secret.
//   - DefaultSecret: the shared secret installed on first run.
//   - AuthStoreKind: where the auth document lives, "file" or "bucket".
//   - AuthDir: data directory for the file auth store.
//   - HealthAddr: bind address of the health-check endpoint.
//   - PageSize: entries per file-list page.
//   - PresignTTL: lifetime of presigned download links.
//   - PublicBucket: when true, share direct public URLs instead of presigned ones.
//   - S3RootUser / S3RootPassword: credentials for the S3-compatible backend.
//   - S3Bucket / S3Region / S3BaseEndpoint / S3PublicBaseURL: object storage settings.
type Config struct {
	TelegramBotToken  string
	OperatorUsernames []string
	DefaultSecret     string
	AuthStoreKind     string
	AuthDir           string
	HealthAddr        string
	PageSize          int
	PresignTTL        time.Duration
	PublicBucket      bool
	S3RootUser        string
	S3RootPassword    string
	S3Bucket          string
	S3Region          string
	S3BaseEndpoint    string
	S3PublicBaseURL   string
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.OperatorUsernames = []string{"btcwv"}
	c.DefaultSecret = "btcwv"
	c.AuthStoreKind = "bucket"
	c.AuthDir = "data"
	c.HealthAddr = ":8080"
	c.PageSize = 8
	c.PresignTTL = 15 * time.Minute
	c.PublicBucket = true
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "public-files"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, environment variables, and finally
// command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

// Validate checks the settings without which the process cannot run at all.
// Everything else is recoverable per event; these are fail-fast at startup.
func (c *Config) Validate() error {
	if c.TelegramBotToken == "" {
		return errors.New("telegram bot token is required (TELEGRAM_BOT_TOKEN)")
	}
	if c.S3Bucket == "" {
		return errors.New("s3 bucket is required (S3_BUCKET)")
	}
	if c.S3RootUser == "" || c.S3RootPassword == "" {
		return errors.New("s3 credentials are required (S3_ROOT_USER, S3_ROOT_PASSWORD)")
	}
	if c.AuthStoreKind != "file" && c.AuthStoreKind != "bucket" {
		return errors.New(`auth store kind must be "file" or "bucket"`)
	}
	if c.PageSize <= 0 {
		return errors.New("page size must be positive")
	}
	return nil
}
