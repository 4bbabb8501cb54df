package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/rileva/internal/httpapi"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the workbook export over HTTP",
	Long: `serve starts a stateless endpoint: POST /export takes a month snapshot
as JSON and answers with the filled workbook. GET /health reports liveness.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (default http.port)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := mustApp(ctx)
	port := a.cfg.HTTP.Port
	if servePort > 0 {
		port = servePort
	}

	srv, err := httpapi.New(a.logger, httpapi.Config{
		Port:     port,
		Mode:     a.cfg.HTTP.Mode,
		Exporter: a.engine,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("Listening on :%d (writers: %v)\n", port, a.engine.Writers())
	if err := srv.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return nil
}
