package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	ucepisode "github.com/fsmatos/nl2audio-cli/internal/usecase/episode"
)

func newGenFeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "gen-feed",
		Short: "Regenerate feed.xml from all recorded episodes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := a.openRepo()
			if err != nil {
				return err
			}

			out, err := ucepisode.NewGenerateFeed(repo).Execute(cmd.Context(), &ucepisode.GenerateFeedInput{
				OutputDir: a.cfg.OutputDir,
				Title:     a.cfg.FeedTitle,
				SiteURL:   a.cfg.SiteURL,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "feed with %d episodes written to %s\n", out.Episodes, out.Path)
			return nil
		},
	}
}
