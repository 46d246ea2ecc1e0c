package main

import (
	"github.com/spf13/cobra"

	"stoplens.dev/internal/utils"
)

func newLookupCommand(opts *Options) *cobra.Command {
	var route, vehicle string
	cmd := &cobra.Command{
		Use:   "lookup STOP",
		Short: "Fetch a stop once and print it",
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

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			switch {
			case vehicle != "":
				view, err := application.Builder.BuildVehicle(ctx, stopID, vehicle)
				if err != nil {
					return err
				}
				renderVehicle(out, view)
			case route != "":
				vm, err := application.Builder.BuildRoute(ctx, stopID, route)
				if err != nil {
					return err
				}
				renderRoute(out, vm)
			default:
				view, err := application.Builder.BuildStop(ctx, stopID)
				if err != nil {
					return err
				}
				renderStop(out, view)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&route, "route", "r", "", "Show the detail of one route.")
	cmd.Flags().StringVar(&vehicle, "vehicle", "", "Show the detail of one vehicle.")
	return cmd
}

// stopArg normalises a typed stop number.
func stopArg(raw string) (string, error) {
	return utils.NormalizeStopInput(raw)
}
