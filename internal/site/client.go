package site

import (
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/five82/wpstores/internal/dispatch"
	"github.com/five82/wpstores/internal/wpcom"
)

// Dispatcher publishes actions.
type Dispatcher interface {
	Dispatch(dispatch.Action)
}

// RestClient issues the site endpoints and dispatches their results. Every
// call produces exactly one result action, whether the request succeeds or
// fails.
type RestClient struct {
	dispatcher Dispatcher
	queue      wpcom.Enqueuer
	endpoints  wpcom.Endpoints
	secrets    wpcom.AppSecrets
	log        logrus.FieldLogger
}

// NewRestClient builds a RestClient.
func NewRestClient(d Dispatcher, q wpcom.Enqueuer, endpoints wpcom.Endpoints, secrets wpcom.AppSecrets, log logrus.FieldLogger) *RestClient {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &RestClient{
		dispatcher: d,
		queue:      q,
		endpoints:  endpoints,
		secrets:    secrets,
		log:        log.WithField("component", "site-rest"),
	}
}

// PullSites fetches every site of the authenticated user.
func (c *RestClient) PullSites() {
	req := wpcom.NewJSONRequest(http.MethodGet, c.endpoints.URL(wpcom.VersionV11, "me", "sites"), nil,
		func(resp *SitesResponse) {
			c.dispatcher.Dispatch(UpdateSitesAction{Sites: ResponsesToSites(resp.Sites)})
		},
		func(err *wpcom.NetworkError) {
			c.log.WithError(err).Error("pull sites failed")
			c.dispatcher.Dispatch(UpdateSitesAction{Err: classifyFetchError(err)})
		},
	)
	wpcom.Submit(c.queue, req.WithAuth())
}

// PullSite refreshes a single site by id.
func (c *RestClient) PullSite(site SiteModel) {
	siteID := strconv.FormatInt(site.SiteID, 10)
	req := wpcom.NewJSONRequest(http.MethodGet, c.endpoints.URL(wpcom.VersionV11, "sites", siteID), nil,
		func(resp *SiteResponse) {
			c.dispatcher.Dispatch(UpdateSiteAction{Site: ResponseToSiteModel(*resp)})
		},
		func(err *wpcom.NetworkError) {
			c.log.WithError(err).WithField("site_id", site.SiteID).Error("pull site failed")
			c.dispatcher.Dispatch(UpdateSiteAction{Site: SiteModel{SiteID: site.SiteID}, Err: classifyFetchError(err)})
		},
	)
	wpcom.Submit(c.queue, req.WithAuth())
}

// NewSite creates a site, or only validates the inputs when dryRun is set.
func (c *RestClient) NewSite(siteName, siteTitle, language string, visibility SiteVisibility, dryRun bool) {
	params := c.newSiteParams(siteName, siteTitle, language, visibility, dryRun)
	req := wpcom.NewJSONRequest(http.MethodPost, c.endpoints.URL(wpcom.VersionV1, "sites", "new"), params,
		func(*NewSiteResponse) {
			c.dispatcher.Dispatch(CreatedNewSiteAction{Payload: NewSiteResponsePayload{DryRun: dryRun}})
		},
		func(err *wpcom.NetworkError) {
			c.log.WithError(err).WithField("body", string(err.Body)).Error("new site failed")
			payload := ClassifyNewSiteError(err.Body)
			payload.DryRun = dryRun
			c.dispatcher.Dispatch(CreatedNewSiteAction{Payload: payload})
		},
	)
	wpcom.Submit(c.queue, req.WithAuth())
}

func (c *RestClient) newSiteParams(siteName, siteTitle, language string, visibility SiteVisibility, dryRun bool) map[string]string {
	validate := "0"
	if dryRun {
		validate = "1"
	}
	return map[string]string{
		"blog_name":     siteName,
		"blog_title":    siteTitle,
		"lang_id":       language,
		"public":        visibility.String(),
		"validate":      validate,
		"client_id":     c.secrets.AppID,
		"client_secret": c.secrets.AppSecret,
	}
}
