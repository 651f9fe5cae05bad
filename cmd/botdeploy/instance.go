package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/torikatsu/botdeploy/pkg/config"
	"github.com/torikatsu/botdeploy/pkg/ec2"
	"github.com/torikatsu/botdeploy/pkg/tui"
)

// newInstanceCmd creates the instance subcommand and its children
func newInstanceCmd() *cobra.Command {
	defaults := config.Default()

	var (
		hostname   string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "instance",
		Short: "Manage the deployment target EC2 instance",
		Long:  `Resolve the EC2 instance by its Name tag and inspect or change its state.`,
	}

	cmd.PersistentFlags().StringVarP(&hostname, "hostname", "H", defaults.Hostname, "EC2 Name tag")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultFileName, "Config file path")

	loadManager := func(cmd *cobra.Command) (*ec2.Manager, string, error) {
		cfg, err := config.Load(configPath, !cmd.Flags().Changed("config"))
		if err != nil {
			return nil, "", err
		}
		if cmd.Flags().Changed("hostname") {
			cfg.Hostname = hostname
		}
		if err := config.ValidateHostname(cfg.Hostname); err != nil {
			return nil, "", err
		}

		sess, err := ec2.NewSession(cfg.Region)
		if err != nil {
			return nil, "", err
		}
		return ec2.New(sess), cfg.Hostname, nil
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "status",
			Short: "Show the instance id, architecture, and state",
			RunE: func(cmd *cobra.Command, _ []string) error {
				m, name, err := loadManager(cmd)
				if err != nil {
					return err
				}
				inst, err := m.Resolve(context.Background(), name)
				if err != nil {
					return err
				}
				if inst.Matches > 1 {
					fmt.Println(tui.WarningStyle.Render(
						fmt.Sprintf("warning: %d instances match Name tag %q", inst.Matches, name)))
				}
				fmt.Printf("Instance:     %s\n", inst.ID)
				fmt.Printf("Architecture: %s\n", inst.Architecture)
				fmt.Printf("State:        %s\n", inst.State)
				return nil
			},
		},
		&cobra.Command{
			Use:   "start",
			Short: "Start the instance and wait until it is running",
			RunE: func(cmd *cobra.Command, _ []string) error {
				m, name, err := loadManager(cmd)
				if err != nil {
					return err
				}
				inst, err := m.Resolve(context.Background(), name)
				if err != nil {
					return err
				}
				fmt.Printf("Starting %s...\n", inst.ID)
				if err := m.Start(context.Background(), inst.ID); err != nil {
					return err
				}
				fmt.Println(tui.SuccessStyle.Render("Instance is running"))
				return nil
			},
		},
		&cobra.Command{
			Use:   "stop",
			Short: "Stop the instance and wait until it is stopped",
			RunE: func(cmd *cobra.Command, _ []string) error {
				m, name, err := loadManager(cmd)
				if err != nil {
					return err
				}
				inst, err := m.Resolve(context.Background(), name)
				if err != nil {
					return err
				}
				fmt.Printf("Stopping %s...\n", inst.ID)
				if err := m.Stop(context.Background(), inst.ID); err != nil {
					return err
				}
				fmt.Println(tui.SuccessStyle.Render("Instance is stopped"))
				return nil
			},
		},
	)

	return cmd
}
