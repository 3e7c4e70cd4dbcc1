package cli

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"

	"github.com/fsmatos/nl2audio-cli/internal/interface/http/handler"
	"github.com/fsmatos/nl2audio-cli/pkg/logger"
)

func newServeCmd(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the feed and episode audio over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := a.openRepo()
			if err != nil {
				return err
			}

			fapp := fiber.New(fiber.Config{DisableStartupMessage: true})
			handler.NewPodcastHandler(repo, a.cfg.OutputDir).Register(fapp)

			addr := fmt.Sprintf(":%d", port)
			logger.Info("serving podcast feed", "addr", addr, "output_dir", a.cfg.OutputDir)
			return fapp.Listen(addr)
		},
	}
	cmd.Flags().IntVar(&port, "port", 8080, "listen port")
	return cmd
}
