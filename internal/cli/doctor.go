package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fsmatos/nl2audio-cli/internal/doctor"
)

func newDoctorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and runtime dependencies",
		RunE: func(cmd *cobra.Command, _ []string) error {
			results := doctor.Run(a.cfg)
			for _, r := range results {
				line := fmt.Sprintf("[%s] %-16s %s", r.Status, r.Name, r.Message)
				if r.Remediation != "" && r.Status != doctor.StatusPass {
					line += " -> " + r.Remediation
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			if doctor.Failed(results) {
				return fmt.Errorf("doctor found failing checks")
			}
			return nil
		},
	}
}
