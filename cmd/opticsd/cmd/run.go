package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/celestiaorg/optics/x/optics/agent"
	"github.com/celestiaorg/optics/x/optics/keeper"
)

const (
	flagInterval    = "interval"
	flagMetricsAddr = "metrics-addr"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [relayer|watcher]",
		Short: "Run an agent against the local home and replica until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cctx, err := getClientContext(cmd)
			if err != nil {
				return err
			}
			interval, _ := cmd.Flags().GetDuration(flagInterval)
			if interval <= 0 {
				return fmt.Errorf("--%s must be positive", flagInterval)
			}

			var a agent.Agent
			switch args[0] {
			case "relayer":
				a = agent.NewRelayer(cctx.logger, interval)
			case "watcher":
				a = agent.NewWatcher(cctx.logger, interval)
			default:
				return fmt.Errorf("unknown agent %q", args[0])
			}

			home, closeHome, err := cctx.openHome()
			if err != nil {
				return err
			}
			defer closeHome()
			replica, closeReplica, err := cctx.openReplica()
			if err != nil {
				return err
			}
			defer closeReplica()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			addr, _ := cmd.Flags().GetString(flagMetricsAddr)
			if addr != "" {
				srv := &http.Server{
					Addr:              addr,
					Handler:           promhttp.HandlerFor(cctx.registry, promhttp.HandlerOpts{}),
					ReadHeaderTimeout: 5 * time.Second,
				}
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						cctx.logger.Error("metrics server stopped", "err", err)
					}
				}()
				defer srv.Close()
				cctx.logger.Info("serving metrics", "addr", addr)
			}

			cctx.logger.Info("starting agent", "agent", args[0], "interval", interval.String())
			err = agent.RunMany(ctx, cctx.logger, a, home, []keeper.Chain{replica})
			if ctx.Err() != nil {
				return nil
			}
			return err
		},
	}
	cmd.Flags().Duration(flagInterval, 5*time.Second, "Polling interval of the agent")
	cmd.Flags().String(flagMetricsAddr, "", "Serve prometheus metrics on this address")
	return cmd
}
