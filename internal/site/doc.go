// Package site synchronizes the user's WordPress.com sites.
//
// RestClient builds the me/sites, sites/{id} and sites/new requests, maps the
// JSON responses into SiteModel values and dispatches exactly one result
// action per request. Failed sites/new calls are classified into
// NewSiteErrorType through a fixed wire-code table; any body that cannot be
// read collapses to GenericError. Store receives the actions, owns the
// canonical Sites collection and republishes change events to subscribers.
package site
