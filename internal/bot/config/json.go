package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/filekeeper/internal/flagx"
	"github.com/dmitrijs2005/filekeeper/internal/timex"
)

// JsonConfig is the intermediate DTO for reading JSON configuration files.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "15m" and integer nanoseconds. After unmarshalling,
// its fields are copied into the runtime Config struct.
type JsonConfig struct {
	TelegramBotToken  string         `json:"telegram_bot_token"`
	OperatorUsernames []string       `json:"operator_usernames"`
	DefaultSecret     string         `json:"default_secret"`
	AuthStoreKind     string         `json:"auth_store"`
	AuthDir           string         `json:"auth_dir"`
	HealthAddr        string         `json:"health_addr"`
	PageSize          int            `json:"page_size"`
	PresignTTL        timex.Duration `json:"presign_ttl"`
	PublicBucket      *bool          `json:"public_bucket"`
	S3RootUser        string         `json:"s3_root_user"`
	S3RootPassword    string         `json:"s3_root_password"`
	S3Bucket          string         `json:"s3_bucket"`
	S3Region          string         `json:"s3_region"`
	S3BaseEndpoint    string         `json:"s3_base_endpoint"`
	S3PublicBaseURL   string         `json:"s3_public_base_url"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags into the provided Config. If no file is named, nothing
// happens; if the named file cannot be read or parsed, the function panics
// (startup-time misconfiguration is fatal by design).
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.TelegramBotToken != "" {
		config.TelegramBotToken = c.TelegramBotToken
	}
	if len(c.OperatorUsernames) > 0 {
		config.OperatorUsernames = c.OperatorUsernames
	}
	if c.DefaultSecret != "" {
		config.DefaultSecret = c.DefaultSecret
	}
	if c.AuthStoreKind != "" {
		config.AuthStoreKind = c.AuthStoreKind
	}
	if c.AuthDir != "" {
		config.AuthDir = c.AuthDir
	}
	if c.HealthAddr != "" {
		config.HealthAddr = c.HealthAddr
	}
	if c.PageSize > 0 {
		config.PageSize = c.PageSize
	}
	if c.PresignTTL.Duration > 0 {
		config.PresignTTL = time.Duration(c.PresignTTL.Duration)
	}
	if c.PublicBucket != nil {
		config.PublicBucket = *c.PublicBucket
	}
	if c.S3RootUser != "" {
		config.S3RootUser = c.S3RootUser
	}
	if c.S3RootPassword != "" {
		config.S3RootPassword = c.S3RootPassword
	}
	if c.S3Bucket != "" {
		config.S3Bucket = c.S3Bucket
	}
	if c.S3Region != "" {
		config.S3Region = c.S3Region
	}
	if c.S3BaseEndpoint != "" {
		config.S3BaseEndpoint = c.S3BaseEndpoint
	}
	if c.S3PublicBaseURL != "" {
		config.S3PublicBaseURL = c.S3PublicBaseURL
	}
}
