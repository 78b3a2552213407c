package site

import "strconv"

// SiteModel is the local representation of a WordPress.com site.
type SiteModel struct {
	SiteID                   int64
	URL                      string
	Name                     string
	Description              string
	IsJetpack                bool
	IsVisible                bool
	IsFeaturedImageSupported bool
	IsVideoPressSupported    bool
	AdminURL                 string
	IsWPCom                  bool
}

// Sites is an ordered site collection. A successful list fetch replaces it
// wholesale.
type Sites []SiteModel

// Clone returns an independent copy.
func (s Sites) Clone() Sites {
	if len(s) == 0 {
		return nil
	}
	dup := make(Sites, len(s))
	copy(dup, s)
	return dup
}

// ByID returns the site with the given id.
func (s Sites) ByID(id int64) (SiteModel, bool) {
	for _, site := range s {
		if site.SiteID == id {
			return site, true
		}
	}
	return SiteModel{}, false
}

// SiteVisibility is the privacy level requested for a new site.
type SiteVisibility int

const (
	VisibilityPrivate           SiteVisibility = -1
	VisibilityBlockSearchEngine SiteVisibility = 0
	VisibilityPublic            SiteVisibility = 1
)

// String returns the wire value sent as the "public" parameter.
func (v SiteVisibility) String() string {
	return strconv.Itoa(int(v))
}

// ParseVisibility accepts the names used on the command line.
func ParseVisibility(s string) (SiteVisibility, bool) {
	switch s {
	case "private", "-1":
		return VisibilityPrivate, true
	case "hidden", "block_search_engine", "0":
		return VisibilityBlockSearchEngine, true
	case "public", "1":
		return VisibilityPublic, true
	default:
		return VisibilityPublic, false
	}
}
