package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/wpstores/internal/logtail"
)

func logsCmd(opts *rootOptions) *cobra.Command {
	var lines int
	var filter logtail.Filter
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent entries from the log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.app.Config.LogFile
			if path == "" {
				return errors.New("log_file is not configured")
			}
			entries, err := logtail.Read(path, lines, filter)
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Fprintln(cmd.OutOrStdout(), logtail.Format(e))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "number of entries to show (0 for all)")
	cmd.Flags().StringVar(&filter.RequestID, "request", "", "only entries for this request id")
	cmd.Flags().StringVar(&filter.Component, "component", "", "only entries from this component")
	cmd.Flags().StringVar(&filter.MinLevel, "level", "", "minimum level, e.g. warn")
	return cmd
}
