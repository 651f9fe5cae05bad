package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/torikatsu/botdeploy/pkg/doctor"
	"github.com/torikatsu/botdeploy/pkg/tui"
)

// newDoctorCmd creates the doctor subcommand
func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that rsync, ssh, and AWS credentials are available",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runDoctor()
		},
	}
}

// runDoctor runs the dependency checks and prints the results.
func runDoctor() error {
	checks := doctor.RunAll(&doctor.RealExecutor{}, &doctor.RealEnvGetter{})

	for _, check := range checks {
		var marker string
		switch check.Status {
		case doctor.StatusOK:
			marker = tui.SuccessStyle.Render("✓")
		case doctor.StatusWarning:
			marker = tui.WarningStyle.Render("!")
		default:
			marker = tui.ErrorStyle.Render("✗")
		}
		fmt.Printf("%s %-16s %s\n", marker, check.Name, check.Message)

		if check.Status != doctor.StatusOK && check.FixCommand != nil {
			fmt.Println(tui.DimStyle.Render(fmt.Sprintf("    %s: %s", check.FixCommand.Description, check.FixCommand.Command)))
		}
	}

	if !doctor.AllOK(checks) {
		return fmt.Errorf("required tools are missing")
	}
	return nil
}
