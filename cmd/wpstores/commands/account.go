package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/five82/wpstores/internal/account"
)

func accountCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "account",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.waitContext(cmd)
			defer cancel()
			acct, err := opts.app.RefreshAccount(ctx)
			if err != nil {
				return fmt.Errorf("fetch account: %w", err)
			}
			return writeAccount(cmd.OutOrStdout(), acct)
		},
	}
}

func settingsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage account settings",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set key=value...",
		Short: "Push account settings",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseAssignments(args)
			if err != nil {
				return err
			}
			ctx, cancel := opts.waitContext(cmd)
			defer cancel()
			changed, err := opts.app.PushSettings(ctx, params)
			if err != nil {
				return fmt.Errorf("push settings: %w", err)
			}
			if changed {
				fmt.Fprintln(cmd.OutOrStdout(), "settings updated")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "settings unchanged")
			}
			return nil
		},
	})
	return cmd
}

func parseAssignments(args []string) (map[string]string, error) {
	params := make(map[string]string, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid setting %q, want key=value", arg)
		}
		params[k] = v
	}
	return params, nil
}

func writeAccount(w io.Writer, a account.AccountModel) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	rows := [][2]string{
		{"id", strconv.FormatInt(a.UserID, 10)},
		{"username", a.UserName},
		{"display name", a.DisplayName},
		{"name", strings.TrimSpace(a.FirstName + " " + a.LastName)},
		{"email", a.Email},
		{"url", a.UserURL},
		{"about", a.AboutMe},
		{"primary site", strconv.FormatInt(a.PrimarySiteID, 10)},
		{"sites", fmt.Sprintf("%d (%d visible)", a.SiteCount, a.VisibleSiteCount)},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", r[0], r[1])
	}
	return tw.Flush()
}
