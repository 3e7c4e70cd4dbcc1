package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	ucepisode "github.com/fsmatos/nl2audio-cli/internal/usecase/episode"
)

func newAddCmd(a *app) *cobra.Command {
	var (
		source string
		title  string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Convert one newsletter (URL, file or stdin) into an episode",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pipeline, err := a.buildPipeline(cmd)
			if err != nil {
				return err
			}

			out, err := pipeline.Execute(cmd.Context(), &ucepisode.AddEpisodeInput{
				Source: source,
				Title:  title,
				DryRun: dryRun,
				Stdin:  cmd.InOrStdin(),
			})
			if err != nil {
				return err
			}

			if out.Estimation != nil {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out.Estimation)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "episode %q written to %s (%ds)\n",
				out.Episode.Title, out.Path, out.Episode.DurationSec)
			return nil
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "URL, file path or '-' for stdin")
	cmd.Flags().StringVar(&title, "title", "", "episode title (default derives from the source)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "estimate cost and duration without synthesizing")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}
