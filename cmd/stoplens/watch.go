package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/spf13/cobra"

	"stoplens.dev/internal/models"
)

func newWatchCommand(opts *Options) *cobra.Command {
	var route string
	cmd := &cobra.Command{
		Use:   "watch STOP",
		Short: "Poll a stop and print every update",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stopID, err := stopArg(args[0])
			if err != nil {
				return err
			}
			application, err := opts.newApplication(cmd.Flags())
			if err != nil {
				return err
			}
			defer application.Shutdown()

			out := cmd.OutOrStdout()
			var mu sync.Mutex
			show := func(render func(io.Writer)) {
				mu.Lock()
				defer mu.Unlock()
				render(out)
				fmt.Fprintln(out)
			}

			if route != "" {
				c := application.NewRouteController(stopID, route, func(vm models.ViewModel) {
					show(func(w io.Writer) { renderRoute(w, vm) })
				})
				c.Start()
				defer c.Stop()
			} else {
				c := application.NewStopController(stopID, func(view models.StopView) {
					show(func(w io.Writer) { renderStop(w, view) })
				})
				c.Start()
				defer c.Stop()
			}

			<-cmd.Context().Done()
			return nil
		},
	}
	cmd.Flags().StringVarP(&route, "route", "r", "", "Watch a single route at the stop.")
	return cmd
}
