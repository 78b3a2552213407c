package account

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/five82/wpstores/internal/dispatch"
	"github.com/five82/wpstores/internal/wpcom"
)

// Dispatcher publishes actions.
type Dispatcher interface {
	Dispatch(dispatch.Action)
}

// RestClient issues the me/ and me/settings endpoints.
type RestClient struct {
	dispatcher Dispatcher
	queue      wpcom.Enqueuer
	endpoints  wpcom.Endpoints
	log        logrus.FieldLogger
}

// NewRestClient builds a RestClient.
func NewRestClient(d Dispatcher, q wpcom.Enqueuer, endpoints wpcom.Endpoints, log logrus.FieldLogger) *RestClient {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &RestClient{
		dispatcher: d,
		queue:      q,
		endpoints:  endpoints,
		log:        log.WithField("component", "account-rest"),
	}
}

// FetchAccount pulls the signed-in user.
func (c *RestClient) FetchAccount() {
	req := wpcom.NewJSONRequest(http.MethodGet, c.endpoints.URL(wpcom.VersionV11, "me"), nil,
		func(resp *AccountResponse) {
			c.dispatcher.Dispatch(FetchedAccountAction{Account: responseToAccount(*resp)})
		},
		func(err *wpcom.NetworkError) {
			c.log.WithError(err).Error("fetch account failed")
			c.dispatcher.Dispatch(FetchedAccountAction{Err: classifyAccountError(err, AccountErrorGeneric)})
		},
	)
	wpcom.Submit(c.queue, req.WithAuth())
}

// FetchSettings pulls me/settings.
func (c *RestClient) FetchSettings() {
	req := wpcom.NewJSONRequest(http.MethodGet, c.endpoints.URL(wpcom.VersionV11, "me", "settings"), nil,
		func(resp *json.RawMessage) {
			c.dispatcher.Dispatch(FetchedSettingsAction{Settings: []byte(*resp)})
		},
		func(err *wpcom.NetworkError) {
			c.log.WithError(err).Error("fetch settings failed")
			c.dispatcher.Dispatch(FetchedSettingsAction{Err: classifyAccountError(err, AccountErrorSettingsFetch)})
		},
	)
	wpcom.Submit(c.queue, req.WithAuth())
}

// PushSettings posts params to me/settings.
func (c *RestClient) PushSettings(params map[string]string) {
	req := wpcom.NewJSONRequest(http.MethodPost, c.endpoints.URL(wpcom.VersionV11, "me", "settings"), params,
		func(resp *json.RawMessage) {
			c.dispatcher.Dispatch(PushedSettingsAction{Settings: []byte(*resp)})
		},
		func(err *wpcom.NetworkError) {
			c.log.WithError(err).Error("push settings failed")
			c.dispatcher.Dispatch(PushedSettingsAction{Err: classifyAccountError(err, AccountErrorSettingsPost)})
		},
	)
	wpcom.Submit(c.queue, req.WithAuth())
}

// Authenticator exchanges a username and password for an access token.
type Authenticator struct {
	dispatcher Dispatcher
	queue      wpcom.Enqueuer
	endpoints  wpcom.Endpoints
	secrets    wpcom.AppSecrets
	log        logrus.FieldLogger
}

// NewAuthenticator builds an Authenticator.
func NewAuthenticator(d Dispatcher, q wpcom.Enqueuer, endpoints wpcom.Endpoints, secrets wpcom.AppSecrets, log logrus.FieldLogger) *Authenticator {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Authenticator{
		dispatcher: d,
		queue:      q,
		endpoints:  endpoints,
		secrets:    secrets,
		log:        log.WithField("component", "authenticator"),
	}
}

// Authenticate requests a token with the password grant.
func (a *Authenticator) Authenticate(username, password string) {
	params := map[string]string{
		"client_id":     a.secrets.AppID,
		"client_secret": a.secrets.AppSecret,
		"grant_type":    "password",
		"username":      username,
		"password":      password,
	}
	req := wpcom.NewJSONRequest(http.MethodPost, a.endpoints.OAuthToken(), params,
		func(resp *TokenResponse) {
			if resp.AccessToken == "" {
				a.dispatcher.Dispatch(AuthenticatedAction{Err: &AuthenticationError{Type: AuthErrorGeneric, Message: "empty access token"}})
				return
			}
			a.dispatcher.Dispatch(AuthenticatedAction{AccessToken: resp.AccessToken})
		},
		func(err *wpcom.NetworkError) {
			authErr := ClassifyAuthenticationError(err)
			a.log.WithField("type", authErr.Type).Warn("authentication failed")
			a.dispatcher.Dispatch(AuthenticatedAction{Err: authErr})
		},
	)
	wpcom.Submit(a.queue, req)
}
