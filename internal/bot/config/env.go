package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// parseEnv overlays configuration from environment variables. A .env file in
// the working directory is loaded first if present, which is how container
// deployments usually supply these values.
//
// Recognized variables:
//
//	TELEGRAM_BOT_TOKEN        bot API token
//	FILEKEEPER_OPERATORS      comma-separated operator usernames
//	FILEKEEPER_DEFAULT_SECRET initial shared secret
//	FILEKEEPER_AUTH_STORE     "file" or "bucket"
//	FILEKEEPER_AUTH_DIR       data directory for the file auth store
//	FILEKEEPER_PAGE_SIZE      entries per list page
//	FILEKEEPER_PUBLIC_BUCKET  "true"/"false": share public vs presigned URLs
//	PORT                      health endpoint port (":<PORT>")
//	S3_ROOT_USER, S3_ROOT_PASSWORD, S3_BUCKET, S3_REGION,
//	S3_BASE_ENDPOINT, S3_PUBLIC_BASE_URL
func parseEnv(config *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		config.TelegramBotToken = v
	}
	if v := os.Getenv("FILEKEEPER_OPERATORS"); v != "" {
		var names []string
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
		config.OperatorUsernames = names
	}
	if v := os.Getenv("FILEKEEPER_DEFAULT_SECRET"); v != "" {
		config.DefaultSecret = v
	}
	if v := os.Getenv("FILEKEEPER_AUTH_STORE"); v != "" {
		config.AuthStoreKind = v
	}
	if v := os.Getenv("FILEKEEPER_AUTH_DIR"); v != "" {
		config.AuthDir = v
	}
	if v := os.Getenv("FILEKEEPER_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.PageSize = n
		}
	}
	if v := os.Getenv("FILEKEEPER_PUBLIC_BUCKET"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.PublicBucket = b
		}
	}
	if v := os.Getenv("PORT"); v != "" {
		config.HealthAddr = ":" + v
	}
	if v := os.Getenv("S3_ROOT_USER"); v != "" {
		config.S3RootUser = v
	}
	if v := os.Getenv("S3_ROOT_PASSWORD"); v != "" {
		config.S3RootPassword = v
	}
	if v := os.Getenv("S3_BUCKET"); v != "" {
		config.S3Bucket = v
	}
	if v := os.Getenv("S3_REGION"); v != "" {
		config.S3Region = v
	}
	if v := os.Getenv("S3_BASE_ENDPOINT"); v != "" {
		config.S3BaseEndpoint = v
	}
	if v := os.Getenv("S3_PUBLIC_BASE_URL"); v != "" {
		config.S3PublicBaseURL = v
	}
}
