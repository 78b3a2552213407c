package account

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/five82/wpstores/internal/dispatch"
	"github.com/five82/wpstores/internal/state"
)

// Client is the subset of RestClient the store drives.
type Client interface {
	FetchAccount()
	FetchSettings()
	PushSettings(params map[string]string)
}

// AuthClient is the subset of Authenticator the store drives.
type AuthClient interface {
	Authenticate(username, password string)
}

// TokenStore persists the access token.
type TokenStore interface {
	AccessToken() string
	SetAccessToken(token string) error
}

var (
	_ Client     = (*RestClient)(nil)
	_ AuthClient = (*Authenticator)(nil)
)

// Event is published to subscribers after the store handles a result action.
type Event interface {
	isAccountEvent()
}

// OnAuthenticationChanged follows Authenticated.
type OnAuthenticationChanged struct {
	Err *AuthenticationError
}

// OnAccountChanged follows FetchedAccount, FetchedSettings and
// PushedSettings. AccountInfosChanged is meaningful for pushes only.
type OnAccountChanged struct {
	CauseOfChange       dispatch.Type
	AccountInfosChanged bool
	Err                 *AccountError
}

func (OnAuthenticationChanged) isAccountEvent() {}
func (OnAccountChanged) isAccountEvent()        {}

// Store owns the signed-in account and its token.
type Store struct {
	client Client
	auth   AuthClient
	tokens TokenStore
	log    logrus.FieldLogger
	events *state.Broadcaster[Event]

	mu      sync.RWMutex
	account AccountModel
}

// Ensure Store implements dispatch.Handler at compile time.
var _ dispatch.Handler = (*Store)(nil)

// NewStore builds a Store.
func NewStore(client Client, auth AuthClient, tokens TokenStore, log logrus.FieldLogger) *Store {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Store{
		client: client,
		auth:   auth,
		tokens: tokens,
		log:    log.WithField("component", "account-store"),
		events: state.NewBroadcaster[Event](0),
	}
}

// OnAction implements dispatch.Handler.
func (s *Store) OnAction(a dispatch.Action) {
	switch a := a.(type) {
	case AuthenticateAction:
		s.auth.Authenticate(a.Username, a.Password)
	case FetchAccountAction:
		s.client.FetchAccount()
	case FetchSettingsAction:
		s.client.FetchSettings()
	case PushSettingsAction:
		s.client.PushSettings(a.Params)
	case AuthenticatedAction:
		s.handleAuthenticated(a)
	case FetchedAccountAction:
		s.handleFetchedAccount(a)
	case FetchedSettingsAction:
		s.handleSettings(dispatch.FetchedSettings, a.Settings, a.Err)
	case PushedSettingsAction:
		s.handleSettings(dispatch.PushedSettings, a.Settings, a.Err)
	}
}

// Subscribe returns a channel of store events and its cancel function.
func (s *Store) Subscribe() (<-chan Event, func()) {
	return s.events.Subscribe()
}

// Account returns a copy of the current account.
func (s *Store) Account() AccountModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account
}

// HasAccessToken reports whether a token is available.
func (s *Store) HasAccessToken() bool {
	return s.tokens != nil && s.tokens.AccessToken() != ""
}

func (s *Store) handleAuthenticated(a AuthenticatedAction) {
	if a.Err != nil {
		s.publish(OnAuthenticationChanged{Err: a.Err})
		return
	}
	if s.tokens != nil {
		if err := s.tokens.SetAccessToken(a.AccessToken); err != nil {
			s.log.WithError(err).Error("persist access token")
			s.publish(OnAuthenticationChanged{Err: &AuthenticationError{Type: AuthErrorGeneric, Message: err.Error()}})
			return
		}
	}
	s.publish(OnAuthenticationChanged{})
}

func (s *Store) handleFetchedAccount(a FetchedAccountAction) {
	if a.Err != nil {
		s.publish(OnAccountChanged{CauseOfChange: dispatch.FetchedAccount, Err: a.Err})
		return
	}
	s.mu.Lock()
	before := s.account
	mergeAccount(&s.account, a.Account)
	changed := s.account != before
	s.mu.Unlock()
	s.publish(OnAccountChanged{CauseOfChange: dispatch.FetchedAccount, AccountInfosChanged: changed})
}

func (s *Store) handleSettings(cause dispatch.Type, raw []byte, accountErr *AccountError) {
	if accountErr != nil {
		s.publish(OnAccountChanged{CauseOfChange: cause, Err: accountErr})
		return
	}
	s.mu.Lock()
	changed := applySettings(&s.account, raw)
	s.mu.Unlock()
	s.publish(OnAccountChanged{CauseOfChange: cause, AccountInfosChanged: changed})
}

func (s *Store) publish(e Event) {
	if dropped := s.events.Publish(e); dropped > 0 {
		s.log.WithField("dropped", dropped).Warn("subscriber buffer full, event dropped")
	}
}
