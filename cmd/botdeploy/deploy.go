package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/torikatsu/botdeploy/pkg/config"
	"github.com/torikatsu/botdeploy/pkg/deploy"
	"github.com/torikatsu/botdeploy/pkg/ec2"
	"github.com/torikatsu/botdeploy/pkg/tui"
)

// newDeployCmd creates the deploy subcommand
func newDeployCmd() *cobra.Command {
	defaults := config.Default()

	var (
		hostname   string
		include    []string
		modelPath  string
		startStop  bool
		yes        bool
		configPath string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy selected file groups to the remote host",
		Long: `Transfer the selected file groups to the remote host via rsync, then move
them into place and install the crontab over ssh. With --startStopInstance
the EC2 instance is resolved by its Name tag, started before the transfers,
and stopped again afterwards.

The remote crontab is fully replaced, not merged.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath, !cmd.Flags().Changed("config"))
			if err != nil {
				return err
			}
			// Support the space-separated form "--include bot config":
			// anything after the flags is treated as more group names.
			include = append(include, args...)
			if cmd.Flags().Changed("hostname") {
				cfg.Hostname = hostname
			}
			if cmd.Flags().Changed("modelPath") {
				cfg.ModelPath = modelPath
			}
			return runDeploy(cfg, include, startStop, yes, verbose)
		},
	}

	cmd.Flags().StringVarP(&hostname, "hostname", "H", defaults.Hostname, "Remote host (and EC2 Name tag)")
	cmd.Flags().StringSliceVarP(&include, "include", "i", nil, "File groups to deploy (bot, model, config)")
	cmd.Flags().StringVarP(&modelPath, "modelPath", "m", defaults.ModelPath, "Local path of the model artifact")
	cmd.Flags().BoolVarP(&startStop, "startStopInstance", "s", false, "Start the instance before and stop it after the deployment")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultFileName, "Config file path")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Print the commands being executed")

	return cmd
}

// runDeploy executes the deployment procedure.
func runDeploy(cfg *config.Config, include []string, startStop, yes, verbose bool) error {
	groups, err := deploy.ParseFileGroups(include)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if !yes {
		confirmed, err := tui.Confirm(
			fmt.Sprintf("Deploy %s to %s?", joinGroups(groups), cfg.Hostname),
			"The remote crontab will be replaced",
		)
		if err != nil {
			return err
		}
		if !confirmed {
			return fmt.Errorf("deployment cancelled")
		}
	}

	d := deploy.New(cfg, deploy.ExecRunner{})
	if startStop {
		sess, err := ec2.NewSession(cfg.Region)
		if err != nil {
			return err
		}
		d.SetInstanceService(ec2.New(sess))
	}

	result, err := d.Deploy(context.Background(), deploy.DeployOptions{
		Groups:         groups,
		ManageInstance: startStop,
	}, printProgress(verbose))

	for _, line := range result.Logs {
		if strings.HasPrefix(line, "warning:") {
			fmt.Println(tui.WarningStyle.Render(line))
		} else if verbose {
			fmt.Println(tui.DimStyle.Render(line))
		}
	}

	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(tui.SuccessStyle.Render(fmt.Sprintf("Deployed to %s in %s", cfg.Hostname, result.Duration.Round(time.Millisecond))))
	fmt.Printf("  Run:       %s\n", result.ID)
	fmt.Printf("  Transfers: %d\n", len(result.Transfers))
	if result.Instance != nil {
		fmt.Printf("  Instance:  %s (%s)\n", result.Instance.ID, result.Instance.Architecture)
	}
	return nil
}

// printProgress renders progress events to the terminal.
func printProgress(verbose bool) deploy.ProgressCallback {
	return func(e deploy.ProgressEvent) {
		switch {
		case e.IsError:
			fmt.Println(tui.ErrorStyle.Render("error: " + e.Message))
		case strings.HasPrefix(e.Message, "skip "):
			fmt.Println(tui.DimStyle.Render(e.Message))
		default:
			fmt.Printf("%s %s\n", tui.InfoStyle.Render("["+e.Stage.DisplayName()+"]"), e.Message)
			if verbose && e.Command != "" {
				fmt.Println(tui.DimStyle.Render("  $ " + e.Command))
			}
		}
	}
}

// joinGroups renders a group list for display.
func joinGroups(groups []deploy.FileGroup) string {
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.String()
	}
	return strings.Join(names, ", ")
}
