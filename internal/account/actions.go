package account

import "github.com/five82/wpstores/internal/dispatch"

// AuthenticateAction requests a password-grant token.
type AuthenticateAction struct {
	Username string
	Password string
}

// AuthenticatedAction carries the issued token or the classified failure.
type AuthenticatedAction struct {
	AccessToken string
	Err         *AuthenticationError
}

// FetchAccountAction requests me/.
type FetchAccountAction struct{}

// FetchedAccountAction carries the me/ result.
type FetchedAccountAction struct {
	Account AccountModel
	Err     *AccountError
}

// FetchSettingsAction requests me/settings.
type FetchSettingsAction struct{}

// FetchedSettingsAction carries the raw me/settings payload.
type FetchedSettingsAction struct {
	Settings []byte
	Err      *AccountError
}

// PushSettingsAction posts changed settings.
type PushSettingsAction struct {
	Params map[string]string
}

// PushedSettingsAction carries the settings echoed back by the server.
type PushedSettingsAction struct {
	Settings []byte
	Err      *AccountError
}

func (AuthenticateAction) ActionType() dispatch.Type    { return dispatch.Authenticate }
func (AuthenticatedAction) ActionType() dispatch.Type   { return dispatch.Authenticated }
func (FetchAccountAction) ActionType() dispatch.Type    { return dispatch.FetchAccount }
func (FetchedAccountAction) ActionType() dispatch.Type  { return dispatch.FetchedAccount }
func (FetchSettingsAction) ActionType() dispatch.Type   { return dispatch.FetchSettings }
func (FetchedSettingsAction) ActionType() dispatch.Type { return dispatch.FetchedSettings }
func (PushSettingsAction) ActionType() dispatch.Type    { return dispatch.PushSettings }
func (PushedSettingsAction) ActionType() dispatch.Type  { return dispatch.PushedSettings }
