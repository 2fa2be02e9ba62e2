package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"webmap/internal/server"
)

var flagListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the render endpoints over HTTP",
	Long: `Serve render endpoints:

  GET  /embed?id=...&flag=zoom   iframe markup
  POST /translate                URL, parameters and markup as JSON
  POST /render                   expand shortcodes in {"content": "..."}`,
	Args: cobra.NoArgs,
	RunE: serveRun,
}

func init() {
	serveCmd.Flags().StringVar(&flagListen, "listen", "", "Listen address (default from config)")
}

func serveRun(cmd *cobra.Command, args []string) error {
	addr := cfg.Listen
	if flagListen != "" {
		addr = flagListen
	}
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(newRenderer()).ListenAndServe(ctx, addr)
}
