package commands

import (
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/wpstores/internal/app"
	"github.com/five82/wpstores/internal/ui"
)

func watchCmd(opts *rootOptions) *cobra.Command {
	var pollSeconds int
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live view of the account's sites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := opts.app
			if !a.Account.HasAccessToken() {
				return app.ErrNotSignedIn
			}
			interval := a.Config.PollInterval
			if pollSeconds > 0 {
				interval = time.Duration(pollSeconds) * time.Second
			}
			if a.Config.LogFile == "" {
				// Text logs on stderr would tear the alt screen.
				a.Log.SetOutput(io.Discard)
			}
			a.StartPoller(cmd.Context(), interval)

			return ui.Run(cmd.Context(), ui.Options{
				Dispatcher: a.Dispatcher,
				Sites:      a.Sites,
				ThemeName:  a.Session.Theme(),
				SaveTheme:  a.Session.SetTheme,
			})
		},
	}
	cmd.Flags().IntVar(&pollSeconds, "poll", 0, "refresh interval in seconds (default from config)")
	return cmd
}
