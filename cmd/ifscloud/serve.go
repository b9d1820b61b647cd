package main

import (
	"github.com/spf13/cobra"

	"github.com/san-kum/ifscloud/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		addr      string
		maxPoints int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve generation and export over HTTP",
		Long: `Endpoints:
  GET  /healthz
  GET  /presets
  GET  /formats
  POST /estimate
  POST /export/{format}   body: document JSON; query: encoding, colors, mesh, density, scale
  POST /preview.svg       body: document JSON; query: width, height
  GET  /ws/generate       websocket: send a document, receive progress and a summary`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := server.New(loggerFromContext(cmd.Context()), server.WithMaxPoints(maxPoints))
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().IntVar(&maxPoints, "max-points", server.DefaultMaxPoints, "largest iteration count a request may ask for")
	return cmd
}
