package site

import "encoding/json"

// SiteResponse mirrors a site object returned by me/sites and sites/{id}.
type SiteResponse struct {
	ID          int64        `json:"ID"`
	URL         string       `json:"URL"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Jetpack     bool         `json:"jetpack"`
	Visible     bool         `json:"visible"`
	Options     *SiteOptions `json:"options"`
}

// SiteOptions is elided by the server for callers that cannot read blog
// options (an Author, for instance).
type SiteOptions struct {
	FeaturedImagesEnabled bool   `json:"featured_images_enabled"`
	VideoPressEnabled     bool   `json:"videopress_enabled"`
	AdminURL              string `json:"admin_url"`
}

// SitesResponse mirrors me/sites.
type SitesResponse struct {
	Sites []SiteResponse `json:"sites"`
}

// NewSiteResponse mirrors a successful sites/new call. The details object
// differs between validation and creation, so it is kept raw.
type NewSiteResponse struct {
	Success     bool            `json:"success"`
	BlogDetails json.RawMessage `json:"blog_details"`
}

// ResponseToSiteModel copies a site response into a SiteModel. Feature
// flags stay unset when options are absent. IsWPCom is always true.
func ResponseToSiteModel(from SiteResponse) SiteModel {
	site := SiteModel{
		SiteID:      from.ID,
		URL:         from.URL,
		Name:        from.Name,
		Description: from.Description,
		IsJetpack:   from.Jetpack,
		IsVisible:   from.Visible,
		IsWPCom:     true,
	}
	if from.Options != nil {
		site.IsFeaturedImageSupported = from.Options.FeaturedImagesEnabled
		site.IsVideoPressSupported = from.Options.VideoPressEnabled
		site.AdminURL = from.Options.AdminURL
	}
	return site
}

// ResponsesToSites maps a list response in order.
func ResponsesToSites(from []SiteResponse) Sites {
	sites := make(Sites, 0, len(from))
	for _, resp := range from {
		sites = append(sites, ResponseToSiteModel(resp))
	}
	return sites
}
