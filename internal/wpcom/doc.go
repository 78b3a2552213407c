// Package wpcom is the transport layer for the WordPress.com REST API.
//
// # Overview
//
// Callers describe each remote operation as a *Request built with
// NewJSONRequest: method, absolute URL, string parameters and a pair of
// listeners. The Queue executes requests asynchronously on a small worker
// pool and invokes exactly one listener per request:
//
//   - onSuccess receives the decoded response body for 2xx statuses
//   - onError receives a *NetworkError for transport failures, statuses
//     >= 400 and bodies that fail to decode
//
// # Wire Format
//
// GET parameters are encoded into the query string. POST parameters are sent
// as an application/x-www-form-urlencoded body, which is what the sites/new,
// me/settings and oauth2/token endpoints accept.
//
// # Authentication
//
// Requests marked WithAuth carry "Authorization: Bearer <token>" when the
// queue's TokenSource returns a non-empty token.
//
// # Scheduling
//
// The queue is rate limited (golang.org/x/time/rate) and never retries.
// Cancellation is driven by the context passed to Start: once it is done the
// queue closes, and requests still waiting on the limiter fail through their
// error listener.
package wpcom
