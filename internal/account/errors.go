package account

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/five82/wpstores/internal/wpcom"
)

// AuthenticationErrorType classifies oauth2/token failures.
type AuthenticationErrorType string

const (
	AuthErrorAccessDenied                AuthenticationErrorType = "ACCESS_DENIED"
	AuthErrorAuthorizationRequired       AuthenticationErrorType = "AUTHORIZATION_REQUIRED"
	AuthErrorInvalidClient               AuthenticationErrorType = "INVALID_CLIENT"
	AuthErrorInvalidGrant                AuthenticationErrorType = "INVALID_GRANT"
	AuthErrorInvalidOTP                  AuthenticationErrorType = "INVALID_OTP"
	AuthErrorInvalidRequest              AuthenticationErrorType = "INVALID_REQUEST"
	AuthErrorInvalidScope                AuthenticationErrorType = "INVALID_SCOPE"
	AuthErrorUnsupportedGrantType        AuthenticationErrorType = "UNSUPPORTED_GRANT_TYPE"
	AuthErrorUnsupportedResponseType     AuthenticationErrorType = "UNSUPPORTED_RESPONSE_TYPE"
	AuthErrorIncorrectUsernameOrPassword AuthenticationErrorType = "INCORRECT_USERNAME_OR_PASSWORD"
	AuthErrorNeeds2FA                    AuthenticationErrorType = "NEEDS_2FA"
	AuthErrorNetwork                     AuthenticationErrorType = "NETWORK_ERROR"
	AuthErrorGeneric                     AuthenticationErrorType = "GENERIC_ERROR"
)

var authErrorCodes = map[string]AuthenticationErrorType{
	"access_denied":             AuthErrorAccessDenied,
	"authorization_required":    AuthErrorAuthorizationRequired,
	"invalid_client":            AuthErrorInvalidClient,
	"invalid_grant":             AuthErrorInvalidGrant,
	"invalid_otp":               AuthErrorInvalidOTP,
	"invalid_request":           AuthErrorInvalidRequest,
	"invalid_scope":             AuthErrorInvalidScope,
	"unsupported_grant_type":    AuthErrorUnsupportedGrantType,
	"unsupported_response_type": AuthErrorUnsupportedResponseType,
	"needs_2fa":                 AuthErrorNeeds2FA,
}

// AuthErrorTypeFromString maps an OAuth error code. Unknown codes are
// AuthErrorGeneric.
func AuthErrorTypeFromString(code string) AuthenticationErrorType {
	if t, ok := authErrorCodes[strings.ToLower(code)]; ok {
		return t
	}
	return AuthErrorGeneric
}

// AuthenticationError is carried by AuthenticatedAction.
type AuthenticationError struct {
	Type    AuthenticationErrorType
	Message string
}

func (e *AuthenticationError) Error() string {
	if e.Message == "" {
		return string(e.Type)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ClassifyAuthenticationError reads {"error", "error_description"} from a
// failed token request. Unreadable responses are AuthErrorGeneric, and
// failures without any HTTP response are AuthErrorNetwork.
func ClassifyAuthenticationError(err *wpcom.NetworkError) *AuthenticationError {
	if err == nil {
		return &AuthenticationError{Type: AuthErrorGeneric}
	}
	if !err.HasResponse() {
		return &AuthenticationError{Type: AuthErrorNetwork, Message: err.Error()}
	}
	authErr := &AuthenticationError{Type: AuthErrorGeneric}
	if !gjson.ValidBytes(err.Body) {
		return authErr
	}
	root := gjson.ParseBytes(err.Body)
	if !root.IsObject() {
		return authErr
	}
	if desc := root.Get("error_description"); desc.Type == gjson.String {
		authErr.Message = desc.Str
	}
	code := root.Get("error")
	if code.Type != gjson.String {
		return authErr
	}
	authErr.Type = AuthErrorTypeFromString(code.Str)
	if authErr.Type == AuthErrorInvalidRequest &&
		strings.Contains(strings.ToLower(authErr.Message), "incorrect username or password") {
		authErr.Type = AuthErrorIncorrectUsernameOrPassword
	}
	return authErr
}

// AccountErrorType classifies me/ and me/settings failures.
type AccountErrorType string

const (
	AccountErrorGeneric       AccountErrorType = "GENERIC_ERROR"
	AccountErrorNetwork       AccountErrorType = "NETWORK_ERROR"
	AccountErrorUnauthorized  AccountErrorType = "UNAUTHORIZED"
	AccountErrorSettingsFetch AccountErrorType = "SETTINGS_FETCH_ERROR"
	AccountErrorSettingsPost  AccountErrorType = "SETTINGS_POST_ERROR"
)

// AccountError is carried by the account result actions.
type AccountError struct {
	Type    AccountErrorType
	Message string
}

func (e *AccountError) Error() string {
	if e.Message == "" {
		return string(e.Type)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func classifyAccountError(err *wpcom.NetworkError, fallback AccountErrorType) *AccountError {
	if err == nil {
		return &AccountError{Type: fallback}
	}
	accountErr := &AccountError{Type: fallback, Message: err.Error()}
	switch {
	case !err.HasResponse():
		accountErr.Type = AccountErrorNetwork
	case err.StatusCode == 401 || err.StatusCode == 403:
		accountErr.Type = AccountErrorUnauthorized
	}
	if err.HasResponse() && gjson.ValidBytes(err.Body) {
		if msg := gjson.GetBytes(err.Body, "message"); msg.Type == gjson.String && msg.Str != "" {
			accountErr.Message = msg.Str
		}
	}
	return accountErr
}
