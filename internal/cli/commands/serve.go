package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/anandkaranubc/rex-data-wrangling/internal/server"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve report processing over HTTP",
		Long: `Start an HTTP server that builds the reports from uploaded tables.

Endpoints:
  GET  /healthz                  liveness check
  POST /api/process              multipart upload of mentors, mentees and matches;
                                 returns both reports as JSON
  POST /api/process/{wide|long}  same upload; returns one report as a file
                                 (?format=csv|json|yaml|markdown|html)

Add ?strict=true to reject unknown mentor ids and uro numbers.`,
		Example: `  rex serve --addr :9000

  curl -F mentors=@mentors.csv -F mentees=@mentees.csv -F matches=@matches.csv \
    'http://localhost:9000/api/process/long?format=csv'`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			cfg := cmdCtx.Cfg

			if !cmd.Flags().Changed("addr") {
				addr = cfg.Serve.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(server.Config{
				Addr:           addr,
				ReadTimeout:    cfg.Serve.ReadTimeout,
				MaxUploadBytes: cfg.Serve.MaxUploadBytes,
				Comma:          cfg.Comma(),
				Columns:        cfg.Columns,
				WideName:       cfg.WideName,
				LongName:       cfg.LongName,
				Logger:         cmdCtx.Logger,
			})

			cmdCtx.Renderer.Info(fmt.Sprintf("Serving on %s (Ctrl+C to stop)", addr))
			return srv.Serve(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from serve.addr, :8080)")

	return cmd
}
