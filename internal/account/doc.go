// Package account handles authentication and the signed-in user's account
// and settings.
//
// Authenticator exchanges credentials for an OAuth token at oauth2/token and
// classifies failures into AuthenticationErrorType. RestClient reads me/ and
// me/settings and pushes settings changes. Store persists the token, merges
// account and settings results into one AccountModel and reports whether a
// push actually changed anything.
package account
