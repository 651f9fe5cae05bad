package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torikatsu/botdeploy/pkg/deploy"
)

func TestNewRootCmd(t *testing.T) {
	rootCmd := newRootCmd()

	assert.Equal(t, "botdeploy", rootCmd.Use)
	assert.Equal(t, "Bot Deployment CLI Tool", rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestRootCmdHelp(t *testing.T) {
	rootCmd := newRootCmd()
	rootCmd.SetArgs([]string{"--help"})

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)

	err := rootCmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "botdeploy")
	assert.Contains(t, output, "deploy")
	assert.Contains(t, output, "instance")
	assert.Contains(t, output, "groups")
	assert.Contains(t, output, "doctor")
}

func TestRootCmdVersion(t *testing.T) {
	rootCmd := newRootCmd()
	rootCmd.SetArgs([]string{"--version"})

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)

	err := rootCmd.Execute()
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "botdeploy version")
}

func TestDeployCmdFlags(t *testing.T) {
	cmd := newDeployCmd()

	hostname := cmd.Flags().Lookup("hostname")
	require.NotNil(t, hostname)
	assert.Equal(t, "H", hostname.Shorthand)
	assert.Equal(t, "aws-ec2-4", hostname.DefValue)

	modelPath := cmd.Flags().Lookup("modelPath")
	require.NotNil(t, modelPath)
	assert.Equal(t, "m", modelPath.Shorthand)
	assert.Equal(t, "model_path", modelPath.DefValue)

	include := cmd.Flags().Lookup("include")
	require.NotNil(t, include)
	assert.Equal(t, "i", include.Shorthand)

	startStop := cmd.Flags().Lookup("startStopInstance")
	require.NotNil(t, startStop)
	assert.Equal(t, "s", startStop.Shorthand)
	assert.Equal(t, "false", startStop.DefValue)
}

func TestDeployCmd_EmptyInclude(t *testing.T) {
	rootCmd := newRootCmd()
	rootCmd.SilenceErrors = true
	rootCmd.SetArgs([]string{"deploy", "--yes"})

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)

	// An empty file-group selection fails before any transfer.
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, deploy.ErrNoFileGroups)
}

func TestDeployCmd_UnknownGroup(t *testing.T) {
	rootCmd := newRootCmd()
	rootCmd.SilenceErrors = true
	rootCmd.SetArgs([]string{"deploy", "--yes", "-i", "logs"})

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown file group "logs"`)
}

func TestGroupsCmd(t *testing.T) {
	rootCmd := newRootCmd()
	rootCmd.SetArgs([]string{"groups"})

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)

	err := rootCmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "bot:")
	assert.Contains(t, output, "model:")
	assert.Contains(t, output, "config:")
	assert.Contains(t, output, "target/x86_64-unknown-linux-gnu/release/bot")
	assert.Contains(t, output, "cron-settings.crontab")
	assert.Contains(t, output, "aws-ec2-4:~/")
}

func TestInstanceCmdChildren(t *testing.T) {
	cmd := newInstanceCmd()

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Use)
	}
	assert.Contains(t, names, "status")
	assert.Contains(t, names, "start")
	assert.Contains(t, names, "stop")
}
