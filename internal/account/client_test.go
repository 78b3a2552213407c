package account

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/wpstores/internal/dispatch"
	"github.com/five82/wpstores/internal/wpcom"
)

type memTokens struct {
	mu    sync.Mutex
	token string
}

func (m *memTokens) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

func (m *memTokens) SetAccessToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

type harness struct {
	dispatcher *dispatch.Dispatcher
	store      *Store
	tokens     *memTokens
	events     <-chan Event
}

func newHarness(t *testing.T, handler http.Handler) *harness {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger, _ := test.NewNullLogger()
	endpoints, err := wpcom.NewEndpoints(server.URL)
	require.NoError(t, err)

	tokens := &memTokens{}
	queue := wpcom.NewQueue(wpcom.QueueOptions{RatePerSecond: -1, Logger: logger, Tokens: tokens})
	ctx, cancel := context.WithCancel(context.Background())
	queue.Start(ctx)
	t.Cleanup(func() {
		cancel()
		queue.Close()
	})

	d := dispatch.New(logger, nil)
	secrets := wpcom.AppSecrets{AppID: "app-id", AppSecret: "app-secret"}
	store := NewStore(
		NewRestClient(d, queue, endpoints, logger),
		NewAuthenticator(d, queue, endpoints, secrets, logger),
		tokens,
		logger,
	)
	d.Register(store)

	events, unsubscribe := store.Subscribe()
	t.Cleanup(unsubscribe)
	return &harness{dispatcher: d, store: store, tokens: tokens, events: events}
}

func (h *harness) next(t *testing.T) Event {
	t.Helper()
	select {
	case e := <-h.events:
		return e
	case <-time.After(2 * time.Second):
		t.Fatalf("no store event received")
	}
	return nil
}

func writeBody(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestAuthenticate_StoresToken(t *testing.T) {
	forms := make(chan url.Values, 1)
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/oauth2/token", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.NoError(t, r.ParseForm())
		forms <- r.PostForm
		writeBody(w, http.StatusOK, `{"access_token":"fresh","token_type":"bearer","blog_id":"0","scope":"global"}`)
	}))
	require.False(t, h.store.HasAccessToken())

	h.dispatcher.Dispatch(AuthenticateAction{Username: "jane", Password: "secret"})

	ev, ok := h.next(t).(OnAuthenticationChanged)
	require.True(t, ok)
	assert.Nil(t, ev.Err)
	assert.True(t, h.store.HasAccessToken())
	assert.Equal(t, "fresh", h.tokens.AccessToken())

	form := <-forms
	assert.Equal(t, "password", form.Get("grant_type"))
	assert.Equal(t, "jane", form.Get("username"))
	assert.Equal(t, "secret", form.Get("password"))
	assert.Equal(t, "app-id", form.Get("client_id"))
	assert.Equal(t, "app-secret", form.Get("client_secret"))
}

func TestAuthenticate_Failures(t *testing.T) {
	tests := []struct {
		name string
		body string
		want AuthenticationErrorType
	}{
		{"incorrect password", `{"error":"invalid_request","error_description":"Incorrect username or password."}`, AuthErrorIncorrectUsernameOrPassword},
		{"needs 2fa", `{"error":"needs_2fa","error_description":"Please enter the verification code."}`, AuthErrorNeeds2FA},
		{"invalid otp", `{"error":"invalid_otp"}`, AuthErrorInvalidOTP},
		{"garbage", `<html>`, AuthErrorGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeBody(w, http.StatusBadRequest, tt.body)
			}))

			h.dispatcher.Dispatch(AuthenticateAction{Username: "jane", Password: "wrong"})

			ev, ok := h.next(t).(OnAuthenticationChanged)
			require.True(t, ok)
			require.NotNil(t, ev.Err)
			assert.Equal(t, tt.want, ev.Err.Type)
			assert.False(t, h.store.HasAccessToken())
		})
	}
}

func TestAuthenticate_EmptyToken(t *testing.T) {
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, http.StatusOK, `{}`)
	}))

	h.dispatcher.Dispatch(AuthenticateAction{Username: "jane", Password: "secret"})

	ev, ok := h.next(t).(OnAuthenticationChanged)
	require.True(t, ok)
	require.NotNil(t, ev.Err)
	assert.Equal(t, AuthErrorGeneric, ev.Err.Type)
}

func TestFetchAccountAndSettings(t *testing.T) {
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/rest/v1.1/me/":
			writeBody(w, http.StatusOK, `{"ID":42,"username":"jane","email":"jane@example.com","display_name":"Jane","primary_blog":7,"site_count":3,"visible_site_count":2}`)
		case "/rest/v1.1/me/settings/":
			writeBody(w, http.StatusOK, `{"first_name":"Jane","last_name":"Doe","description":"hi","user_URL":"https://jane.example"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	require.NoError(t, h.tokens.SetAccessToken("tok"))

	h.dispatcher.Dispatch(FetchAccountAction{})
	ev, ok := h.next(t).(OnAccountChanged)
	require.True(t, ok)
	assert.Nil(t, ev.Err)
	assert.Equal(t, dispatch.FetchedAccount, ev.CauseOfChange)

	h.dispatcher.Dispatch(FetchSettingsAction{})
	ev, ok = h.next(t).(OnAccountChanged)
	require.True(t, ok)
	assert.Nil(t, ev.Err)
	assert.Equal(t, dispatch.FetchedSettings, ev.CauseOfChange)

	account := h.store.Account()
	assert.Equal(t, int64(42), account.UserID)
	assert.Equal(t, "jane", account.UserName)
	assert.Equal(t, int64(7), account.PrimarySiteID)
	assert.Equal(t, 3, account.SiteCount)
	assert.Equal(t, "Doe", account.LastName)
	assert.Equal(t, "hi", account.AboutMe)
	assert.Equal(t, "https://jane.example", account.UserURL)
}

func TestPushSettings_ReportsChange(t *testing.T) {
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeBody(w, http.StatusOK, `{"description":"same"}`)
			return
		}
		assert.NoError(t, r.ParseForm())
		writeBody(w, http.StatusOK, `{"description":"`+r.PostForm.Get("description")+`"}`)
	}))

	h.dispatcher.Dispatch(FetchSettingsAction{})
	h.next(t)

	h.dispatcher.Dispatch(PushSettingsAction{Params: map[string]string{"description": "same"}})
	ev, ok := h.next(t).(OnAccountChanged)
	require.True(t, ok)
	assert.Equal(t, dispatch.PushedSettings, ev.CauseOfChange)
	assert.False(t, ev.AccountInfosChanged)

	h.dispatcher.Dispatch(PushSettingsAction{Params: map[string]string{"description": "updated"}})
	ev, ok = h.next(t).(OnAccountChanged)
	require.True(t, ok)
	assert.True(t, ev.AccountInfosChanged)
	assert.Equal(t, "updated", h.store.Account().AboutMe)
}

func TestPushSettings_PrimarySiteEchoedAsString(t *testing.T) {
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, http.StatusOK, `{"primary_site_ID":"1234"}`)
	}))

	h.dispatcher.Dispatch(PushSettingsAction{Params: map[string]string{"primary_site_ID": "1234"}})
	ev, ok := h.next(t).(OnAccountChanged)
	require.True(t, ok)
	assert.True(t, ev.AccountInfosChanged)
	assert.Equal(t, int64(1234), h.store.Account().PrimarySiteID)
}

func TestPushSettings_FailureClassified(t *testing.T) {
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, http.StatusBadRequest, `{"error":"invalid_input","message":"bad value"}`)
	}))

	h.dispatcher.Dispatch(PushSettingsAction{Params: map[string]string{"user_URL": "::"}})
	ev, ok := h.next(t).(OnAccountChanged)
	require.True(t, ok)
	require.NotNil(t, ev.Err)
	assert.Equal(t, AccountErrorSettingsPost, ev.Err.Type)
	assert.Equal(t, "bad value", ev.Err.Message)
	assert.False(t, ev.AccountInfosChanged)
}
