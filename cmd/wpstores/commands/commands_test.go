package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cliHarness struct {
	configPath  string
	sessionPath string
}

func newCLIHarness(t *testing.T, handler http.Handler) cliHarness {
	t.Helper()
	t.Setenv(envPassword, "")
	t.Setenv("WPSTORES_APP_ID", "")
	t.Setenv("WPSTORES_APP_SECRET", "")
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	body := fmt.Sprintf("api_base = %q\napp_id = \"id\"\napp_secret = \"secret\"\nrate_per_second = -1\nlog_level = \"error\"\n", server.URL)
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o600))
	return cliHarness{configPath: cfgPath, sessionPath: filepath.Join(dir, "session.toml")}
}

func (h cliHarness) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	root, opts := newRootCommand()
	defer opts.close()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(bytes.NewBufferString(stdin))
	root.SetArgs(append([]string{"--config", h.configPath, "--session", h.sessionPath, "--timeout", "2s"}, args...))
	err := root.ExecuteContext(ctx)
	return out.String(), err
}

func wpHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.PostForm.Get("password") != "hunter2" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":"invalid_request","error_description":"Incorrect username or password."}`)
			return
		}
		_, _ = io.WriteString(w, `{"access_token":"tok"}`)
	})
	mux.HandleFunc("/rest/v1.1/me/sites/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"sites":[{"ID":11,"name":"Cooking","URL":"https://cooking.example","visible":true}]}`)
	})
	mux.HandleFunc("/rest/v1.1/sites/11/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"ID":11,"name":"Cooking","description":"Recipes","URL":"https://cooking.example"}`)
	})
	mux.HandleFunc("/rest/v1/sites/new/", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if len(r.PostForm.Get("blog_name")) < 4 {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":"blog_name_must_be_at_least_four_characters","message":"Site names must be at least 4 characters long."}`)
			return
		}
		_, _ = io.WriteString(w, `{"success":true}`)
	})
	mux.HandleFunc("/rest/v1.1/me/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"ID":3,"username":"jane","display_name":"Jane D","site_count":1,"visible_site_count":1}`)
	})
	mux.HandleFunc("/rest/v1.1/me/settings/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			_ = r.ParseForm()
			_, _ = fmt.Fprintf(w, `{"first_name":%q}`, r.PostForm.Get("first_name"))
			return
		}
		_, _ = io.WriteString(w, `{"first_name":"Jane","last_name":"Doe"}`)
	})
	return mux
}

func TestLoginAndListSites(t *testing.T) {
	h := newCLIHarness(t, wpHandler())

	_, err := h.run(t, "", "sites")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not signed in")

	_, err = h.run(t, "wrong\n", "login", "-u", "jane")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INCORRECT_USERNAME_OR_PASSWORD")

	out, err := h.run(t, "hunter2\n", "login", "-u", "jane")
	require.NoError(t, err)
	assert.Contains(t, out, "signed in as jane")

	out, err = h.run(t, "", "sites")
	require.NoError(t, err)
	assert.Contains(t, out, "Cooking")
	assert.Contains(t, out, "https://cooking.example")

	out, err = h.run(t, "", "site", "11")
	require.NoError(t, err)
	assert.Contains(t, out, "Recipes")

	out, err = h.run(t, "", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "signed out")

	_, err = h.run(t, "", "sites")
	require.Error(t, err)
}

func TestNewSite(t *testing.T) {
	h := newCLIHarness(t, wpHandler())

	_, err := h.run(t, "", "new-site", "ab", "--dry-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SITE_NAME_MUST_BE_AT_LEAST_FOUR_CHARACTERS")

	out, err := h.run(t, "", "new-site", "cooking", "--dry-run", "--visibility", "private")
	require.NoError(t, err)
	assert.Contains(t, out, "cooking is available")

	_, err = h.run(t, "", "new-site", "cooking", "--visibility", "secret")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid visibility")
}

func TestAccountAndSettings(t *testing.T) {
	h := newCLIHarness(t, wpHandler())
	_, err := h.run(t, "hunter2\n", "login", "-u", "jane")
	require.NoError(t, err)

	out, err := h.run(t, "", "account")
	require.NoError(t, err)
	assert.Contains(t, out, "Jane D")
	assert.Contains(t, out, "Jane Doe")

	out, err = h.run(t, "", "settings", "set", "first_name=Janet")
	require.NoError(t, err)
	assert.Contains(t, out, "settings updated")

	_, err = h.run(t, "", "settings", "set", "nonsense")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want key=value")
}

func TestParseAssignments(t *testing.T) {
	got, err := parseAssignments([]string{"a=1", "b=", "c=x=y"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": "", "c": "x=y"}, got)

	_, err = parseAssignments([]string{"=v"})
	assert.Error(t, err)
}

func TestLogsRequiresLogFile(t *testing.T) {
	h := newCLIHarness(t, wpHandler())
	_, err := h.run(t, "", "logs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_file is not configured")
}
