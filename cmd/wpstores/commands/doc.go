// Package commands defines the wpstores CLI.
//
// Commands
//
//   - login       Exchange a username and password for an access token
//   - logout      Forget the stored token
//   - sites       List the account's sites
//   - site        Show one site by id
//   - new-site    Create or validate a new site
//   - account     Show the signed-in account and settings
//   - settings    Update account settings (settings set key=value ...)
//   - watch       Live sites view with periodic refresh
//   - logs        Show the tail of the JSON log file
//
// # Implementation
//
// The root command builds the app graph before any subcommand runs and
// starts the request queue on the command context. Each one-shot command
// dispatches a request action and waits for the matching store event.
package commands
