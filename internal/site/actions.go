package site

import "github.com/five82/wpstores/internal/dispatch"

// FetchSitesAction asks the store to pull every site of the current user.
type FetchSitesAction struct{}

// UpdateSitesAction carries the replacement collection or the fetch error.
type UpdateSitesAction struct {
	Sites Sites
	Err   *SiteError
}

// FetchSiteAction asks the store to refresh one site.
type FetchSiteAction struct {
	Site SiteModel
}

// UpdateSiteAction carries one refreshed site or the fetch error. Site.SiteID
// is set in both cases.
type UpdateSiteAction struct {
	Site SiteModel
	Err  *SiteError
}

// NewSitePayload describes a site-creation request.
type NewSitePayload struct {
	SiteName   string
	SiteTitle  string
	Language   string
	Visibility SiteVisibility
	DryRun     bool
}

// CreateNewSiteAction asks the store to create (or validate) a site.
type CreateNewSiteAction struct {
	Payload NewSitePayload
}

// CreatedNewSiteAction carries the outcome of a sites/new call.
type CreatedNewSiteAction struct {
	Payload NewSiteResponsePayload
}

func (FetchSitesAction) ActionType() dispatch.Type     { return dispatch.FetchSites }
func (UpdateSitesAction) ActionType() dispatch.Type    { return dispatch.UpdateSites }
func (FetchSiteAction) ActionType() dispatch.Type      { return dispatch.FetchSite }
func (UpdateSiteAction) ActionType() dispatch.Type     { return dispatch.UpdateSite }
func (CreateNewSiteAction) ActionType() dispatch.Type  { return dispatch.CreateNewSite }
func (CreatedNewSiteAction) ActionType() dispatch.Type { return dispatch.CreatedNewSite }
