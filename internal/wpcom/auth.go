package wpcom

// TokenSource supplies the OAuth bearer token for authenticated requests.
type TokenSource interface {
	AccessToken() string
}

// StaticToken is a fixed TokenSource.
type StaticToken string

// AccessToken implements TokenSource.
func (t StaticToken) AccessToken() string { return string(t) }

// AppSecrets identifies the registered OAuth application.
type AppSecrets struct {
	AppID     string
	AppSecret string
}
