package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"stoplens.dev/internal/logging"
	"stoplens.dev/internal/models"
	"stoplens.dev/internal/routes"
	"stoplens.dev/internal/stops"
)

func newUploadCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "upload IMAGE",
		Short: "Recognise a stop from a photo of its sign",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := opts.newApplication(cmd.Flags())
			if err != nil {
				return err
			}
			defer application.Shutdown()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening image: %w", err)
			}
			defer logging.SafeCloseWithLogging(f, application.Logger, "upload_image")

			resp, err := application.Client.Upload(cmd.Context(), filepath.Base(args[0]), f)
			if err != nil {
				return err
			}
			if resp.Stop == "" {
				return fmt.Errorf("no stop number found in %s", args[0])
			}

			refs := make([]models.RouteRef, 0, len(resp.Routes))
			for _, raw := range resp.Routes {
				refs = append(refs, routes.ParseRef(raw))
			}
			routes.SortRefs(refs)

			var stop *models.StopRecord
			rec, err := application.Stops.Get(resp.Stop.String())
			switch {
			case err == nil:
				stop = &rec
			case !errors.Is(err, stops.ErrStopNotFound):
				return fmt.Errorf("recognised stop: %w", err)
			}
			renderUpload(cmd.OutOrStdout(), resp.Stop.String(), stop, refs)
			return nil
		},
	}
}
