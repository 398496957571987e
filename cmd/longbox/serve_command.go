package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"longbox/internal/config"
	"longbox/internal/daemon"
	"longbox/internal/library"
	"longbox/internal/logging"
)

// newServeCommand runs the daemon in the foreground, which is handy during
// setup before longboxd is installed as a service.
func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the library server in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
				logger, err := logging.NewFromConfig(cfg)
				if err != nil {
					return fmt.Errorf("init logger: %w", err)
				}

				d, err := daemon.New(cfg, store, logger)
				if err != nil {
					return err
				}
				defer d.Close()

				runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
				defer stop()

				if err := d.Start(runCtx); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on http://%s (Ctrl-C to stop)\n", cfg.Paths.LibraryDir, d.Addr())

				<-runCtx.Done()
				d.Stop()
				return nil
			})
		},
	}
}
