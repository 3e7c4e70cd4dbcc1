package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fsmatos/nl2audio-cli/internal/infrastructure/gmail"
	"github.com/fsmatos/nl2audio-cli/internal/infrastructure/googleauth"
	ucepisode "github.com/fsmatos/nl2audio-cli/internal/usecase/episode"
)

func newFetchEmailCmd(a *app) *cobra.Command {
	var (
		label  string
		max    int64
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "fetch-email",
		Short: "Convert labeled Gmail newsletters into episodes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg
			if !cfg.Gmail.Enabled {
				return fmt.Errorf("gmail is disabled; set gmail.enabled = true in the config")
			}
			if label == "" {
				label = cfg.Gmail.Label
			}

			auth, err := googleauth.New(cfg.CredentialsPath, cfg.GmailTokenPath)
			if err != nil {
				return err
			}
			srv, err := auth.GmailService(cmd.Context())
			if err != nil {
				return err
			}

			producer, err := a.buildPipeline(cmd)
			if err != nil {
				return err
			}

			uc := ucepisode.NewFetchEmail(gmail.NewMessageRepository(srv, cfg.Gmail.User), producer)
			out, err := uc.Execute(cmd.Context(), &ucepisode.FetchEmailInput{
				Label:  label,
				Max:    max,
				DryRun: dryRun,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "processed %d episodes, skipped %d\n", len(out.Processed), out.Skipped)
			return nil
		},
	}
	cmd.Flags().StringVar(&label, "label", "", "Gmail label to read (default from config)")
	cmd.Flags().Int64Var(&max, "max", 10, "maximum messages to process")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "estimate only, do not synthesize")
	return cmd
}
