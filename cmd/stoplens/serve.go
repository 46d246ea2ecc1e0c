package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"stoplens.dev/internal/restapi"
)

func newServeCommand(opts *Options) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the stoplens JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := opts.newApplication(cmd.Flags())
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				application.Config.Server.Addr = addr
			}

			api := restapi.NewRestAPI(application)
			defer api.Close()

			srv := &http.Server{
				Addr:         application.Config.Server.Addr,
				Handler:      api.Handler(),
				IdleTimeout:  time.Minute,
				ReadTimeout:  10 * time.Second,
				WriteTimeout: 30 * time.Second,
				ErrorLog:     slog.NewLogLogger(application.Logger.Handler(), slog.LevelError),
			}

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				application.Logger.Info("starting server", "addr", srv.Addr, "env", application.Config.Env.String())
				if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				application.RunSessions(ctx)
				return nil
			})
			g.Go(func() error {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), application.Config.Server.ShutdownTimeout)
				defer cancel()
				application.Logger.Info("shutting down server")
				return srv.Shutdown(shutdownCtx)
			})
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address, overriding server.addr.")
	return cmd
}
