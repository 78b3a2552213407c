// Package app is the composition root for wpstores.
//
// New loads the config and session, builds the logrus logger, the metrics
// registry, the request queue and the dispatcher, then registers the site
// and account stores with their rest clients. Nothing is global: callers
// hold the returned *App and pass its parts explicitly.
//
// # Flows
//
// The one-shot helpers (Login, RefreshSites, RefreshSite, CreateSite,
// RefreshAccount, PushSettings) subscribe to the relevant store, dispatch a
// request action and block until the matching store event arrives or the
// context ends. This keeps the CLI to a strict issue, await, continue order.
//
// # Polling
//
// StartPoller dispatches FetchSites on an interval for the watch UI. While
// the site store reports consecutive failures the wait doubles up to
// maxBackoff.
package app
