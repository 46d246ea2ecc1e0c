package main

import (
	"io"

	"github.com/spf13/cobra"
)

func newRootCommand(out io.Writer) *cobra.Command {
	opts := NewOptions()
	cmd := &cobra.Command{
		Use:   "stoplens",
		Short: "Live arrivals for a transit stop",
		Long: "stoplens looks up a transit stop by number or photo and keeps a live, " +
			"deduplicated view of the routes and vehicles serving it.",
		SilenceUsage: true,
	}
	cmd.SetOut(out)
	opts.AddFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		newServeCommand(opts),
		newWatchCommand(opts),
		newLookupCommand(opts),
		newUploadCommand(opts),
	)
	return cmd
}
