package main

import (
	"github.com/spf13/cobra"

	"digital-nose/internal/web"
	"digital-nose/pkg/config"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the JSON HTTP API",
	Long: `Starts the web front end. Routes:

  GET  /healthz       liveness and training state
  GET  /api/init      profiles, feature names, classes, metrics
  GET  /api/profiles  registered profile names
  POST /api/capture   {"profile": "citrus"} -> reading + report`,
	RunE: runServeCommand,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "",
		"Listen address (default from NOSE_HTTP_ADDR, \":8080\")")
}

func runServeCommand(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if serveAddr == "" {
		serveAddr = cfg.HTTPAddr
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	return web.NewServer(a).Run(serveAddr)
}
