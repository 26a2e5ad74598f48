// internal/cli/serve.go
package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/law-makers/harvest/internal/server"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serves the scraping assistant over HTTP for browser-based clients.
The API mirrors the CLI: template expansion, robots checks, HTML
sanitizing and inspection, and batch scraping with a Server-Sent
Events stream for live progress.`,
	Example: `  # Serve on the default address
  harvest serve

  # Serve on a custom address
  harvest serve --addr 0.0.0.0:9000`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides HARVEST_ADDR)")
}

func runServe(cmd *cobra.Command, args []string) error {
	application := GetApp()
	cfg := application.Config
	if serveAddr != "" {
		cfg.ListenAddr = serveAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, application.Orchestrator, application.Fetcher, application.Robots)
	return srv.ListenAndServe(ctx)
}
