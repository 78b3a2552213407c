package wpcom

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// Request is one outbound API call together with its completion listeners.
// Exactly one of the listeners runs per request.
type Request struct {
	ID     string
	Method string
	URL    string
	Params map[string]string

	auth    bool
	deliver func(body []byte) error
	onError func(*NetworkError)
}

// NewJSONRequest builds a request whose successful body is decoded into T
// before onSuccess runs. Decode failures are reported through onError.
func NewJSONRequest[T any](method, rawURL string, params map[string]string, onSuccess func(*T), onError func(*NetworkError)) *Request {
	return &Request{
		ID:     uuid.NewString(),
		Method: method,
		URL:    rawURL,
		Params: params,
		deliver: func(body []byte) error {
			var payload T
			if len(bytes.TrimSpace(body)) > 0 {
				if err := json.Unmarshal(body, &payload); err != nil {
					return err
				}
			}
			if onSuccess != nil {
				onSuccess(&payload)
			}
			return nil
		},
		onError: onError,
	}
}

// WithAuth marks the request as carrying the bearer token.
func (r *Request) WithAuth() *Request {
	r.auth = true
	return r
}

// Fail delivers err to the error listener.
func (r *Request) Fail(err *NetworkError) {
	if r.onError != nil {
		r.onError(err)
	}
}

func (r *Request) build(ctx context.Context, userAgent, token string) (*http.Request, error) {
	values := url.Values{}
	for k, v := range r.Params {
		values.Set(k, v)
	}

	target := r.URL
	var body io.Reader
	switch r.Method {
	case http.MethodGet, http.MethodDelete, http.MethodHead:
		if len(values) > 0 {
			u, err := url.Parse(r.URL)
			if err != nil {
				return nil, fmt.Errorf("parse url: %w", err)
			}
			q := u.Query()
			for k := range values {
				q.Set(k, values.Get(k))
			}
			u.RawQuery = q.Encode()
			target = u.String()
		}
	default:
		body = strings.NewReader(values.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if r.auth && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}
