package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			App:       AppConfig{Environment: "development"},
			Logger:    LoggerConfig{Level: "info"},
			Data:      DataConfig{Dir: "/tmp/foundershelf"},
			Server:    ServerConfig{Port: "8080", ReadTimeout: 15 * time.Second},
			RateLimit: RateLimitConfig{PerMinute: 30, Burst: 10},
			Recommend: RecommendConfig{DefaultLimit: 10},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(*Config) {},
		},
		{
			name:    "invalid environment",
			mutate:  func(c *Config) { c.App.Environment = "testing" },
			wantErr: "invalid environment",
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Logger.Level = "verbose" },
			wantErr: "invalid log level",
		},
		{
			name:    "invalid log format",
			mutate:  func(c *Config) { c.Logger.Format = "xml" },
			wantErr: "invalid log format",
		},
		{
			name:    "empty data dir",
			mutate:  func(c *Config) { c.Data.Dir = "" },
			wantErr: "data dir",
		},
		{
			name:    "zero rate limit",
			mutate:  func(c *Config) { c.RateLimit.PerMinute = 0 },
			wantErr: "rate limit per minute",
		},
		{
			name:    "negative recommendation limit",
			mutate:  func(c *Config) { c.Recommend.DefaultLimit = -1 },
			wantErr: "recommendation limit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDataPaths(t *testing.T) {
	cfg := &Config{Data: DataConfig{Dir: "/srv/foundershelf"}}

	assert.Equal(t, filepath.Join("/srv/foundershelf", "db"), cfg.StorePath())
	assert.Equal(t, filepath.Join("/srv/foundershelf", "search"), cfg.SearchPath())
	assert.Equal(t, filepath.Join("/srv/foundershelf", "reclog.db"), cfg.RecLogPath())
}

func TestGetConfigValue(t *testing.T) {
	t.Setenv("FOUNDERSHELF_TEST_KEY", "from-env")

	assert.Equal(t, "from-flag", getConfigValue("from-flag", "FOUNDERSHELF_TEST_KEY", "default"))
	assert.Equal(t, "from-env", getConfigValue("", "FOUNDERSHELF_TEST_KEY", "default"))
	assert.Equal(t, "default", getConfigValue("", "FOUNDERSHELF_MISSING_KEY", "default"))
}

func TestGetBoolConfigValue(t *testing.T) {
	t.Setenv("FOUNDERSHELF_TEST_BOOL", "false")

	assert.False(t, getBoolConfigValue("", "FOUNDERSHELF_TEST_BOOL", true))
	assert.True(t, getBoolConfigValue("true", "FOUNDERSHELF_TEST_BOOL", false))
	assert.True(t, getBoolConfigValue("", "FOUNDERSHELF_MISSING_BOOL", true))
	assert.True(t, getBoolConfigValue("not-a-bool", "FOUNDERSHELF_MISSING_BOOL", true))
}

func TestGetIntConfigValue(t *testing.T) {
	t.Setenv("FOUNDERSHELF_TEST_INT", "42")

	assert.Equal(t, 42, getIntConfigValue("", "FOUNDERSHELF_TEST_INT", 7))
	assert.Equal(t, 9, getIntConfigValue("9", "FOUNDERSHELF_TEST_INT", 7))
	assert.Equal(t, 7, getIntConfigValue("", "FOUNDERSHELF_MISSING_INT", 7))
	assert.Equal(t, 7, getIntConfigValue("nope", "FOUNDERSHELF_MISSING_INT", 7))
}

func TestSplitOrigins(t *testing.T) {
	assert.Equal(t, []string{"*"}, splitOrigins("*"))
	assert.Equal(t, []string{"https://a.example", "https://b.example"},
		splitOrigins("https://a.example, https://b.example"))
	assert.Equal(t, []string{"*"}, splitOrigins("  ,  "))
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\nFOUNDERSHELF_ENVFILE_A=hello\nFOUNDERSHELF_ENVFILE_B=\"quoted\"\nnot a pair\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("FOUNDERSHELF_ENVFILE_A", "already-set")
	defer os.Unsetenv("FOUNDERSHELF_ENVFILE_B")

	require.NoError(t, loadEnvFile(path))

	// Real environment wins over the file.
	assert.Equal(t, "already-set", os.Getenv("FOUNDERSHELF_ENVFILE_A"))
	assert.Equal(t, "quoted", os.Getenv("FOUNDERSHELF_ENVFILE_B"))
}

func TestLoadEnvFileMissing(t *testing.T) {
	err := loadEnvFile(filepath.Join(t.TempDir(), "does-not-exist.env"))
	assert.Error(t, err)
}
