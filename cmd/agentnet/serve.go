package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hupe1980/agentnet"
	"github.com/hupe1980/agentnet/server"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the network HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, err := root.load()
			if err != nil {
				return err
			}

			if addr != "" {
				cfg.Server.Addr = addr
			}

			logger, err := cfg.Logger()
			if err != nil {
				return err
			}

			an, err := agentnet.FromConfig(ctx, cfg, logger)
			if err != nil {
				return err
			}

			srv := server.New(an.Service, func(o *server.Options) {
				o.AllowOrigins = cfg.Server.CORSOrigins
				o.NetworksDir = cfg.Server.NetworksDir
				o.Logger = logger.WithComponent("server")
			})

			return srv.Run(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")

	return cmd
}
