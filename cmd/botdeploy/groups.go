package main

import (
	"github.com/spf13/cobra"

	"github.com/torikatsu/botdeploy/pkg/config"
	"github.com/torikatsu/botdeploy/pkg/deploy"
)

// newGroupsCmd creates the groups subcommand
func newGroupsCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "groups",
		Short: "List the file groups and what each transfers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath, !cmd.Flags().Changed("config"))
			if err != nil {
				return err
			}
			return runGroups(cmd, cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultFileName, "Config file path")

	return cmd
}

// runGroups lists each file group and the files it would transfer.
func runGroups(cmd *cobra.Command, cfg *config.Config) error {
	groupFiles := map[deploy.FileGroup][]string{
		deploy.GroupBot:    {cfg.BotBinaryPath(cfg.BuildTarget)},
		deploy.GroupModel:  {cfg.ModelPath},
		deploy.GroupConfig: append(append([]string{}, cfg.ConfigFiles...), cfg.CrontabFile),
	}

	for _, g := range deploy.AllFileGroups() {
		cmd.Printf("%s: %s\n", g, g.Description())
		for _, file := range groupFiles[g] {
			cmd.Printf("  - %s\n", file)
		}
		cmd.Println()
	}
	cmd.Printf("All groups sync to %s\n", cfg.RemoteDest())
	return nil
}
