package cli

import (
	"github.com/spf13/cobra"

	"github.com/gravitas-dev/gravitas/internal/server"
)

// serveCommand creates the serve command for running the HTTP layout API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP layout API",
		Long: `Run the HTTP layout API.

Endpoints:
  POST /api/v1/layout    compute positions (and optionally artifacts) for a posted graph
  GET  /api/v1/presets   list layout presets
  GET  /healthz          health check

The server shuts down gracefully on SIGINT/SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printInfo("Serving layout API on %s", addr)
			srv := server.New(addr, c.newRunner(), c.Logger)
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}
