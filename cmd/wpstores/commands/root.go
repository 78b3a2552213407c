package commands

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/wpstores/internal/app"
)

type rootOptions struct {
	configPath  string
	sessionPath string
	logLevel    string
	metricsAddr string
	timeout     time.Duration

	app    *app.App
	cancel context.CancelFunc
}

// Execute runs the CLI with ctx and releases the app afterwards.
func Execute(ctx context.Context) error {
	root, opts := newRootCommand()
	defer opts.close()
	return root.ExecuteContext(ctx)
}

func newRootCommand() (*cobra.Command, *rootOptions) {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "wpstores",
		Short:         "WordPress.com sites and account from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// A redirected stderr takes precedence over log_file.
			var logOut io.Writer
			if w := cmd.ErrOrStderr(); w != os.Stderr {
				logOut = w
			}
			a, err := app.New(app.Options{
				ConfigPath:  opts.configPath,
				SessionPath: opts.sessionPath,
				LogLevel:    opts.logLevel,
				LogOutput:   logOut,
			})
			if err != nil {
				return err
			}
			ctx, cancel := context.WithCancel(cmd.Context())
			a.Start(ctx)
			if opts.metricsAddr != "" {
				go func() {
					if err := a.ServeMetrics(ctx, opts.metricsAddr); err != nil {
						a.Log.WithError(err).Error("metrics listener stopped")
					}
				}()
			}
			opts.app = a
			opts.cancel = cancel
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.config/wpstores/config.toml)")
	flags.StringVar(&opts.sessionPath, "session", "", "session file (default from config)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")
	flags.DurationVar(&opts.timeout, "timeout", 30*time.Second, "how long one-shot commands wait for a result")

	root.AddCommand(
		loginCmd(opts),
		logoutCmd(opts),
		sitesCmd(opts),
		siteCmd(opts),
		newSiteCmd(opts),
		accountCmd(opts),
		settingsCmd(opts),
		watchCmd(opts),
		logsCmd(opts),
	)
	return root, opts
}

// waitContext bounds a one-shot command by --timeout.
func (o *rootOptions) waitContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	if o.timeout <= 0 {
		return context.WithCancel(cmd.Context())
	}
	return context.WithTimeout(cmd.Context(), o.timeout)
}

func (o *rootOptions) close() {
	if o.cancel != nil {
		o.cancel()
	}
	if o.app != nil {
		o.app.Close()
	}
}
