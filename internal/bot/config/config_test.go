package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetArgs(t *testing.T) {
	t.Helper()
	orig := os.Args
	os.Args = []string{"filekeeper"}
	t.Cleanup(func() { os.Args = orig })
}

func TestLoadConfig_Defaults(t *testing.T) {
	resetArgs(t)

	cfg := LoadConfig()

	assert.Equal(t, []string{"btcwv"}, cfg.OperatorUsernames)
	assert.Equal(t, "btcwv", cfg.DefaultSecret)
	assert.Equal(t, "bucket", cfg.AuthStoreKind)
	assert.Equal(t, ":8080", cfg.HealthAddr)
	assert.Equal(t, 8, cfg.PageSize)
	assert.Equal(t, 15*time.Minute, cfg.PresignTTL)
	assert.True(t, cfg.PublicBucket)
	assert.Equal(t, "public-files", cfg.S3Bucket)
}

func TestLoadConfig_EnvOverridesDefaults(t *testing.T) {
	resetArgs(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("FILEKEEPER_OPERATORS", "alice, bob ,")
	t.Setenv("FILEKEEPER_PAGE_SIZE", "5")
	t.Setenv("FILEKEEPER_PUBLIC_BUCKET", "false")
	t.Setenv("PORT", "9090")
	t.Setenv("S3_BUCKET", "drop")

	cfg := LoadConfig()

	assert.Equal(t, "123:abc", cfg.TelegramBotToken)
	assert.Equal(t, []string{"alice", "bob"}, cfg.OperatorUsernames)
	assert.Equal(t, 5, cfg.PageSize)
	assert.False(t, cfg.PublicBucket)
	assert.Equal(t, ":9090", cfg.HealthAddr)
	assert.Equal(t, "drop", cfg.S3Bucket)
}

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	orig := os.Args
	os.Args = []string{"filekeeper", "-b", "flag-bucket", "-l", ":7070"}
	t.Cleanup(func() { os.Args = orig })
	t.Setenv("S3_BUCKET", "env-bucket")

	cfg := LoadConfig()

	assert.Equal(t, "flag-bucket", cfg.S3Bucket)
	assert.Equal(t, ":7070", cfg.HealthAddr)
}

func TestLoadConfig_JsonFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"telegram_bot_token": "json-token",
		"operator_usernames": ["root"],
		"page_size": 12,
		"presign_ttl": "30m",
		"public_bucket": false,
		"s3_bucket": "json-bucket"
	}`), 0o600))

	orig := os.Args
	os.Args = []string{"filekeeper", "-c", path}
	t.Cleanup(func() { os.Args = orig })

	cfg := LoadConfig()

	assert.Equal(t, "json-token", cfg.TelegramBotToken)
	assert.Equal(t, []string{"root"}, cfg.OperatorUsernames)
	assert.Equal(t, 12, cfg.PageSize)
	assert.Equal(t, 30*time.Minute, cfg.PresignTTL)
	assert.False(t, cfg.PublicBucket)
	assert.Equal(t, "json-bucket", cfg.S3Bucket)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.LoadDefaults()
		cfg.TelegramBotToken = "123:abc"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing token", func(c *Config) { c.TelegramBotToken = "" }, true},
		{"missing bucket", func(c *Config) { c.S3Bucket = "" }, true},
		{"missing credentials", func(c *Config) { c.S3RootPassword = "" }, true},
		{"bad auth store", func(c *Config) { c.AuthStoreKind = "redis" }, true},
		{"bad page size", func(c *Config) { c.PageSize = 0 }, true},
		{"file auth store", func(c *Config) { c.AuthStoreKind = "file" }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
