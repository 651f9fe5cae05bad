// Package main provides the botdeploy CLI tool for deploying the bot to a
// remote EC2 host.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// version is set via -ldflags during build
var version = "dev"

func main() {
	rootCmd := newRootCmd()

	// Cobra handles error printing
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd creates the root command for botdeploy
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "botdeploy",
		Short: "Bot Deployment CLI Tool",
		Long: `botdeploy copies the bot binary, model artifact, and config files to a
remote EC2 host over rsync/ssh and installs the crontab found there.

It supports:
  - Selecting which file groups to transfer (bot, model, config)
  - Starting the instance before and stopping it after the deployment
  - Resolving the instance and its CPU architecture by its Name tag
  - Direct instance lifecycle operations (status, start, stop)`,
		Version: version,
	}

	rootCmd.AddCommand(
		newDeployCmd(),
		newInstanceCmd(),
		newGroupsCmd(),
		newDoctorCmd(),
	)

	return rootCmd
}
