package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "aws-ec2-4", cfg.Hostname)
	assert.Equal(t, "model_path", cfg.ModelPath)
	assert.Equal(t, "x86_64-unknown-linux-gnu", cfg.BuildTarget)
	assert.Equal(t, []string{"config.bot.yaml", "config.yaml"}, cfg.ConfigFiles)
	assert.Equal(t, "cron-settings.crontab", cfg.CrontabFile)
	assert.Equal(t, "ec2-user", cfg.RemoteUser)
	assert.Equal(t, "/usr/local/bot", cfg.RemoteDir)
	assert.NoError(t, cfg.Validate())
}

func TestBotBinaryPath(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "target/x86_64-unknown-linux-gnu/release/bot",
		cfg.BotBinaryPath("x86_64-unknown-linux-gnu"))
	assert.Equal(t, "target/aarch64-unknown-linux-gnu/release/bot",
		cfg.BotBinaryPath("aarch64-unknown-linux-gnu"))
}

func TestRemoteDest(t *testing.T) {
	cfg := Default()
	cfg.Hostname = "h1"

	assert.Equal(t, "h1:~/", cfg.RemoteDest())
}

func TestValidateHostname(t *testing.T) {
	tests := []struct {
		name        string
		hostname    string
		expectError bool
	}{
		{"ssh alias", "aws-ec2-4", false},
		{"dns name", "bot.example.com", false},
		{"underscore", "bot_host", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"leading dash", "-oProxyCommand=x", true},
		{"embedded space", "host name", true},
		{"path traversal", "../host", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHostname(tt.hostname)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"empty hostname", func(c *Config) { c.Hostname = "" }, "hostname"},
		{"empty model path", func(c *Config) { c.ModelPath = "" }, "model path"},
		{"empty build target", func(c *Config) { c.BuildTarget = "" }, "build target"},
		{"empty crontab file", func(c *Config) { c.CrontabFile = "" }, "crontab"},
		{"empty remote user", func(c *Config) { c.RemoteUser = "" }, "remote user"},
		{"relative remote dir", func(c *Config) { c.RemoteDir = "bot" }, "remote dir"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "botdeploy.yaml")

	content := `hostname: trading-1
model_path: models/latest.bin
region: ap-northeast-1
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path, false)
	require.NoError(t, err)

	// Overridden keys
	assert.Equal(t, "trading-1", cfg.Hostname)
	assert.Equal(t, "models/latest.bin", cfg.ModelPath)
	assert.Equal(t, "ap-northeast-1", cfg.Region)

	// Absent keys keep defaults
	assert.Equal(t, "ec2-user", cfg.RemoteUser)
	assert.Equal(t, "/usr/local/bot", cfg.RemoteDir)
	assert.Equal(t, []string{"config.bot.yaml", "config.yaml"}, cfg.ConfigFiles)
}

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.yaml")

	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(path, false)
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "botdeploy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("hostname: [unclosed"), 0644))

	_, err := Load(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}
