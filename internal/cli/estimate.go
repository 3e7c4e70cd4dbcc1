package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/fsmatos/nl2audio-cli/internal/ingest"
	"github.com/fsmatos/nl2audio-cli/internal/usecase/synthesis"
)

func newEstimateCmd(a *app) *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Project cost and duration for a source without synthesizing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			item, err := ingest.FromSource(cmd.Context(), source, cmd.InOrStdin())
			if err != nil {
				return err
			}

			est := synthesis.NewEstimator(nil, a.cfg.MaxChars).
				Estimate(item.Text, a.cfg.Voice, a.cfg.Model)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(est)
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "URL, file path or '-' for stdin")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}
