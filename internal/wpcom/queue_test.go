package wpcom

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
)

type echoResponse struct {
	OK   bool   `json:"ok"`
	Name string `json:"name"`
}

type outcome struct {
	success *echoResponse
	err     *NetworkError
}

func newTestQueue(t *testing.T, tokens TokenSource) *Queue {
	t.Helper()
	logger, _ := test.NewNullLogger()
	q := NewQueue(QueueOptions{
		Workers:       2,
		RatePerSecond: -1,
		Tokens:        tokens,
		Logger:        logger,
	})
	ctx, cancel := context.WithCancel(context.Background())
	q.Start(ctx)
	t.Cleanup(func() {
		cancel()
		q.Close()
	})
	return q
}

func runRequest(t *testing.T, q *Queue, method, rawURL string, params map[string]string, auth bool) outcome {
	t.Helper()
	done := make(chan outcome, 2)
	req := NewJSONRequest(method, rawURL, params,
		func(resp *echoResponse) { done <- outcome{success: resp} },
		func(err *NetworkError) { done <- outcome{err: err} },
	)
	if auth {
		req.WithAuth()
	}
	if err := q.Add(req); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	select {
	case got := <-done:
		select {
		case extra := <-done:
			t.Fatalf("second completion delivered: %#v", extra)
		case <-time.After(50 * time.Millisecond):
		}
		return got
	case <-time.After(2 * time.Second):
		t.Fatalf("request did not complete")
	}
	return outcome{}
}

func TestQueue_EncodesParamsAndHeaders(t *testing.T) {
	t.Parallel()

	var (
		mu       sync.Mutex
		gotQuery url.Values
		gotForm  url.Values
		gotCT    string
		gotAuth  []string
		gotAgent string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		gotAgent = r.Header.Get("User-Agent")
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		switch r.Method {
		case http.MethodGet:
			gotQuery = r.URL.Query()
		case http.MethodPost:
			gotCT = r.Header.Get("Content-Type")
			_ = r.ParseForm()
			gotForm = r.PostForm
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"name":"echo"}`))
	}))
	t.Cleanup(server.Close)

	q := newTestQueue(t, StaticToken("secret-token"))

	got := runRequest(t, q, http.MethodGet, server.URL+"/rest/v1.1/me/sites/", map[string]string{"fields": "ID,URL"}, true)
	if got.err != nil || got.success == nil || !got.success.OK || got.success.Name != "echo" {
		t.Fatalf("GET outcome = %#v, want decoded success", got)
	}

	got = runRequest(t, q, http.MethodPost, server.URL+"/rest/v1/sites/new/", map[string]string{"blog_name": "example", "validate": "1"}, false)
	if got.err != nil || got.success == nil {
		t.Fatalf("POST outcome = %#v, want success", got)
	}

	mu.Lock()
	defer mu.Unlock()
	if gotQuery.Get("fields") != "ID,URL" {
		t.Fatalf("GET query = %v, want fields encoded", gotQuery)
	}
	if gotCT != "application/x-www-form-urlencoded" {
		t.Fatalf("POST Content-Type = %q", gotCT)
	}
	if gotForm.Get("blog_name") != "example" || gotForm.Get("validate") != "1" {
		t.Fatalf("POST form = %v, want params encoded", gotForm)
	}
	if len(gotAuth) != 2 || gotAuth[0] != "Bearer secret-token" || gotAuth[1] != "" {
		t.Fatalf("Authorization headers = %q, want bearer only on authenticated request", gotAuth)
	}
	if !strings.HasPrefix(gotAgent, "wpstores/") {
		t.Fatalf("User-Agent = %q, want wpstores/*", gotAgent)
	}
}

func TestQueue_HTTPErrorAndDecodeError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bad-json":
			_, _ = w.Write([]byte("{not-json"))
		case "/rejected":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"blog_name_exists","message":"taken"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	q := newTestQueue(t, nil)

	got := runRequest(t, q, http.MethodGet, server.URL+"/bad-json", nil, false)
	if got.err == nil || !strings.Contains(got.err.Error(), "decode response") {
		t.Fatalf("bad-json outcome = %#v, want decode error", got)
	}

	got = runRequest(t, q, http.MethodPost, server.URL+"/rejected", nil, false)
	if got.err == nil || got.err.StatusCode != http.StatusBadRequest {
		t.Fatalf("rejected outcome = %#v, want status 400", got)
	}
	if !strings.Contains(string(got.err.Body), "blog_name_exists") {
		t.Fatalf("rejected body = %q, want server payload", got.err.Body)
	}
	if !got.err.HasResponse() {
		t.Fatalf("HasResponse = false, want true")
	}
}

func TestQueue_TransportFailureHasNoStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	target := server.URL
	server.Close()

	q := newTestQueue(t, nil)
	got := runRequest(t, q, http.MethodGet, target+"/gone", nil, false)
	if got.err == nil || got.err.HasResponse() {
		t.Fatalf("outcome = %#v, want transport error without status", got)
	}
	if !strings.Contains(got.err.Error(), "execute request") {
		t.Fatalf("error = %v, want execute request", got.err)
	}
}

func TestQueue_AddAfterCloseFails(t *testing.T) {
	logger, _ := test.NewNullLogger()
	q := NewQueue(QueueOptions{Logger: logger})
	q.Start(context.Background())
	q.Close()

	req := NewJSONRequest[echoResponse](http.MethodGet, "http://127.0.0.1:1/", nil, nil, nil)
	if err := q.Add(req); !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("Add error = %v, want ErrQueueClosed", err)
	}
}

func TestSubmit_ReportsEnqueueFailure(t *testing.T) {
	q := NewQueue(QueueOptions{})
	q.Close()

	var got *NetworkError
	req := NewJSONRequest[echoResponse](http.MethodGet, "http://127.0.0.1:1/", nil,
		func(*echoResponse) { t.Fatalf("success listener ran") },
		func(err *NetworkError) { got = err },
	)
	Submit(q, req)
	if got == nil || !errors.Is(got, ErrQueueClosed) {
		t.Fatalf("Submit error = %v, want ErrQueueClosed", got)
	}
}

func TestQueue_FullBuffer(t *testing.T) {
	q := NewQueue(QueueOptions{Buffer: 1})
	t.Cleanup(q.Close)

	first := NewJSONRequest[echoResponse](http.MethodGet, "http://127.0.0.1:1/", nil, nil, nil)
	second := NewJSONRequest[echoResponse](http.MethodGet, "http://127.0.0.1:1/", nil, nil, nil)
	if err := q.Add(first); err != nil {
		t.Fatalf("first Add returned error: %v", err)
	}
	if err := q.Add(second); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("second Add error = %v, want ErrQueueFull", err)
	}
}
