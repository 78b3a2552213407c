package commands

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/five82/wpstores/internal/site"
)

func sitesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sites",
		Short: "List the account's sites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.waitContext(cmd)
			defer cancel()
			sites, err := opts.app.RefreshSites(ctx)
			if err != nil {
				return fmt.Errorf("fetch sites: %w", err)
			}
			return writeSites(cmd.OutOrStdout(), sites)
		},
	}
}

// site <id>: refresh one site.
func siteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "site <id>",
		Short: "Show one site",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid site id %q", args[0])
			}
			ctx, cancel := opts.waitContext(cmd)
			defer cancel()
			s, err := opts.app.RefreshSite(ctx, id)
			if err != nil {
				return fmt.Errorf("fetch site: %w", err)
			}
			return writeSite(cmd.OutOrStdout(), s)
		},
	}
}

// new-site <name>: create a site, or only validate it with --dry-run.
func newSiteCmd(opts *rootOptions) *cobra.Command {
	var title, lang, visibility string
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "new-site <name>",
		Short: "Create a new WordPress.com site",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, ok := site.ParseVisibility(visibility)
			if !ok {
				return fmt.Errorf("invalid visibility %q (public, hidden, private)", visibility)
			}
			ctx, cancel := opts.waitContext(cmd)
			defer cancel()
			result, err := opts.app.CreateSite(ctx, site.NewSitePayload{
				SiteName:   args[0],
				SiteTitle:  title,
				Language:   lang,
				Visibility: v,
				DryRun:     dryRun,
			})
			if err != nil {
				return fmt.Errorf("new site: %w", err)
			}
			if result.IsError {
				if result.ErrorMessage != "" {
					return fmt.Errorf("new site: %s: %s", result.ErrorType, result.ErrorMessage)
				}
				return fmt.Errorf("new site: %s", result.ErrorType)
			}
			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is available\n", args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "site title")
	cmd.Flags().StringVar(&lang, "lang", "en", "language id")
	cmd.Flags().StringVar(&visibility, "visibility", "public", "public, hidden or private")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate without creating")
	return cmd
}

func writeSites(w io.Writer, sites site.Sites) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tURL\tJETPACK\tVISIBLE")
	for _, s := range sites {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%t\t%t\n", s.SiteID, s.Name, s.URL, s.IsJetpack, s.IsVisible)
	}
	return tw.Flush()
}

func writeSite(w io.Writer, s site.SiteModel) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	rows := [][2]string{
		{"id", strconv.FormatInt(s.SiteID, 10)},
		{"name", s.Name},
		{"description", s.Description},
		{"url", s.URL},
		{"admin", s.AdminURL},
		{"jetpack", strconv.FormatBool(s.IsJetpack)},
		{"visible", strconv.FormatBool(s.IsVisible)},
		{"featured images", strconv.FormatBool(s.IsFeaturedImageSupported)},
		{"videopress", strconv.FormatBool(s.IsVideoPressSupported)},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", r[0], r[1])
	}
	return tw.Flush()
}
