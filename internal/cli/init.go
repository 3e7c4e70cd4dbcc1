package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fsmatos/nl2audio-cli/internal/config"
	"github.com/fsmatos/nl2audio-cli/internal/infrastructure/googleauth"
)

func newInitCmd(a *app) *cobra.Command {
	var authorize bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the default config file and optionally authorize Gmail",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Ensure()
			if err != nil {
				return err
			}
			a.cfg = cfg

			path, err := config.Path()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "config ready at %s\n", path)

			if authorize || cfg.Gmail.Enabled {
				auth, err := googleauth.New(cfg.CredentialsPath, cfg.GmailTokenPath)
				if err != nil {
					return err
				}
				if auth.HasToken() {
					fmt.Fprintln(cmd.OutOrStdout(), "oauth token already cached")
					return nil
				}
				return auth.ObtainTokenInteractive(cmd.Context())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&authorize, "authorize", false, "run the Google OAuth flow even when gmail is disabled")
	return cmd
}
