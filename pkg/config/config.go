// Package config holds the deployment configuration for botdeploy.
package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Config describes one deployment: where to deploy, which files belong to
// each file group, and where they land on the remote host. Defaults are
// supplied here and overridden at the CLI boundary.
type Config struct {
	// Hostname is the ssh host to deploy to. When instance lifecycle
	// management is enabled it doubles as the EC2 Name tag to resolve.
	Hostname string `yaml:"hostname"`

	// ModelPath is the local path of the model artifact (model group).
	ModelPath string `yaml:"model_path"`

	// BuildTarget is the target triple used in the local bot binary path
	// when the instance architecture is not resolved from EC2.
	BuildTarget string `yaml:"build_target"`

	// ConfigFiles are the local config files synced by the config group,
	// alongside CrontabFile.
	ConfigFiles []string `yaml:"config_files"`

	// CrontabFile is the crontab synced with the config group and installed
	// as the active crontab on the remote host.
	CrontabFile string `yaml:"crontab_file"`

	// RemoteUser is the login user on the remote host whose home directory
	// receives the transfers.
	RemoteUser string `yaml:"remote_user"`

	// RemoteDir is the directory the transferred files are moved into.
	RemoteDir string `yaml:"remote_dir"`

	// Region is the AWS region used for instance lifecycle management.
	// Empty means the SDK's shared-config default.
	Region string `yaml:"region"`
}

// Default returns the configuration used when no config file or flags
// override it.
func Default() *Config {
	return &Config{
		Hostname:    "aws-ec2-4",
		ModelPath:   "model_path",
		BuildTarget: "x86_64-unknown-linux-gnu",
		ConfigFiles: []string{"config.bot.yaml", "config.yaml"},
		CrontabFile: "cron-settings.crontab",
		RemoteUser:  "ec2-user",
		RemoteDir:   "/usr/local/bot",
	}
}

// BotBinaryPath returns the local path of the compiled bot binary for the
// given build target.
func (c *Config) BotBinaryPath(buildTarget string) string {
	return filepath.Join("target", buildTarget, "release", "bot")
}

// RemoteDest returns the rsync destination for all transfers.
func (c *Config) RemoteDest() string {
	return c.Hostname + ":~/"
}

// validHostnamePattern matches ssh host aliases and DNS names. A leading
// alphanumeric also keeps the hostname from being parsed as an option.
var validHostnamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9.\-_]*$`)

// ValidateHostname checks that name is usable as an ssh destination and an
// EC2 Name tag value.
func ValidateHostname(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("hostname cannot be empty")
	}
	if !validHostnamePattern.MatchString(name) {
		return fmt.Errorf("hostname %q can only contain letters, numbers, dots, hyphens, and underscores", name)
	}
	return nil
}

// Validate checks the configuration for values the deployment procedure
// cannot work without.
func (c *Config) Validate() error {
	if err := ValidateHostname(c.Hostname); err != nil {
		return err
	}
	if c.ModelPath == "" {
		return fmt.Errorf("model path cannot be empty")
	}
	if c.BuildTarget == "" {
		return fmt.Errorf("build target cannot be empty")
	}
	if c.CrontabFile == "" {
		return fmt.Errorf("crontab file cannot be empty")
	}
	if c.RemoteUser == "" {
		return fmt.Errorf("remote user cannot be empty")
	}
	if !strings.HasPrefix(c.RemoteDir, "/") {
		return fmt.Errorf("remote dir must be an absolute path, got %q", c.RemoteDir)
	}
	return nil
}
