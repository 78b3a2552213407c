package account

// AccountModel is the signed-in WordPress.com user.
type AccountModel struct {
	UserID           int64
	UserName         string
	Email            string
	DisplayName      string
	FirstName        string
	LastName         string
	AboutMe          string
	PrimarySiteID    int64
	AvatarURL        string
	ProfileURL       string
	UserURL          string
	SiteCount        int
	VisibleSiteCount int
}

// AccountResponse mirrors me/.
type AccountResponse struct {
	ID               int64  `json:"ID"`
	Username         string `json:"username"`
	Email            string `json:"email"`
	DisplayName      string `json:"display_name"`
	PrimaryBlog      int64  `json:"primary_blog"`
	AvatarURL        string `json:"avatar_URL"`
	ProfileURL       string `json:"profile_URL"`
	SiteCount        int    `json:"site_count"`
	VisibleSiteCount int    `json:"visible_site_count"`
}

// TokenResponse mirrors oauth2/token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	BlogID      string `json:"blog_id"`
	BlogURL     string `json:"blog_url"`
	Scope       string `json:"scope"`
}

func responseToAccount(from AccountResponse) AccountModel {
	return AccountModel{
		UserID:           from.ID,
		UserName:         from.Username,
		Email:            from.Email,
		DisplayName:      from.DisplayName,
		PrimarySiteID:    from.PrimaryBlog,
		AvatarURL:        from.AvatarURL,
		ProfileURL:       from.ProfileURL,
		SiteCount:        from.SiteCount,
		VisibleSiteCount: from.VisibleSiteCount,
	}
}

// mergeAccount copies the fields owned by me/ from fetched into dst,
// leaving settings-only fields alone.
func mergeAccount(dst *AccountModel, fetched AccountModel) {
	dst.UserID = fetched.UserID
	dst.UserName = fetched.UserName
	dst.Email = fetched.Email
	dst.DisplayName = fetched.DisplayName
	dst.PrimarySiteID = fetched.PrimarySiteID
	dst.AvatarURL = fetched.AvatarURL
	dst.ProfileURL = fetched.ProfileURL
	dst.SiteCount = fetched.SiteCount
	dst.VisibleSiteCount = fetched.VisibleSiteCount
}
