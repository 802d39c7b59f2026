package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Data:   DataConfig{BasePath: "/some/path", DatabaseFile: "readlog.db"},
		Import: ImportConfig{MaxUploadBytes: 1024},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_LogLevels(t *testing.T) {
	for _, level := range []string{"debug", "INFO", "warn", "error"} {
		cfg := validConfig()
		cfg.Logger.Level = level
		assert.NoError(t, cfg.Validate(), level)
	}

	cfg := validConfig()
	cfg.Logger.Level = "verbose"
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsNonPositiveUploadLimit(t *testing.T) {
	cfg := validConfig()
	cfg.Import.MaxUploadBytes = 0
	assert.Error(t, cfg.Validate())
}

func TestDataConfig_Paths(t *testing.T) {
	d := DataConfig{BasePath: "/data", DatabaseFile: "readlog.db"}
	assert.Equal(t, "/data/readlog.db", d.DatabasePath())
	assert.Equal(t, "/data/search", d.SearchIndexPath())
	assert.Equal(t, "/data/auth.key", d.AuthKeyPath())

	d.DatabaseFile = "/elsewhere/x.db"
	assert.Equal(t, "/elsewhere/x.db", d.DatabasePath())
}

func TestLoad_FlagsBeatEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ENV", "staging")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("DATA_PATH", filepath.Join(dir, "from-env"))

	cfg, err := Load([]string{
		"--env-file", filepath.Join(dir, "missing.env"),
		"--data-path", filepath.Join(dir, "from-flag"),
		"--port", "9090",
	})
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.App.Environment)
	assert.Equal(t, "warn", cfg.Logger.Level)
	assert.Equal(t, filepath.Join(dir, "from-flag"), cfg.Data.BasePath)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 24*time.Hour, cfg.Auth.AccessTokenDuration)
	assert.Equal(t, int64(10485760), cfg.Import.MaxUploadBytes)
}

func TestLoad_EnvFileDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("LOG_LEVEL=debug\nSERVER_PORT=7000\n"), 0o600))

	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("SERVER_PORT", "unset")
	require.NoError(t, os.Unsetenv("SERVER_PORT"))
	t.Setenv("DATA_PATH", dir)

	cfg, err := Load([]string{"--env-file", envFile})
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Logger.Level)
	assert.Equal(t, "7000", cfg.Server.Port)
}

func TestLoad_InvalidDuration(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_PATH", dir)

	_, err := Load([]string{"--env-file", filepath.Join(dir, "none"), "--read-timeout", "soon"})
	assert.Error(t, err)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandPath("~/books", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "books"), got)

	got, err = expandPath("", "/default")
	require.NoError(t, err)
	assert.Equal(t, "/default", got)
}
