package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/webapps/internal/core/ports"
)

func TestAuthFlow(t *testing.T) {
	app := setupTestApp(t)
	client := app.newClient(t)

	resp, body := app.get(t, client, "/auth/register")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `name="username"`)

	resp, _ = app.postForm(t, client, "/auth/register", url.Values{"username": {"alice"}, "password": {"s3cret"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/auth/login", resp.Header.Get("Location"))

	// The flash set before the redirect shows up exactly once.
	_, body = app.get(t, client, "/auth/login")
	assert.Contains(t, body, "Registration successful. Please log in.")
	_, body = app.get(t, client, "/auth/login")
	assert.NotContains(t, body, "Registration successful.")

	resp, body = app.postForm(t, client, "/auth/login", url.Values{"username": {"alice"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Incorrect password.")

	resp, _ = app.postForm(t, client, "/auth/login", url.Values{"username": {"alice"}, "password": {"s3cret"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	resp, body = app.get(t, client, "/api/me")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &me))
	assert.Equal(t, "alice", me["username"])
	assert.NotContains(t, me, "PasswordHash")

	_, body = app.get(t, client, "/")
	assert.Contains(t, body, "Log Out")

	resp, _ = app.get(t, client, "/auth/logout")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, _ = app.get(t, client, "/api/me")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegisterValidation(t *testing.T) {
	app := setupTestApp(t)
	app.loginAs(t, "alice")
	client := app.newClient(t)

	tests := []struct {
		name     string
		form     url.Values
		expected string
	}{
		{"missing username", url.Values{"password": {"pw"}}, "Username is required."},
		{"missing password", url.Values{"username": {"bob"}}, "Password is required."},
		{"duplicate username", url.Values{"username": {"alice"}, "password": {"pw"}}, "User alice is already registered."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := app.postForm(t, client, "/auth/register", tt.form)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, body, tt.expected)
		})
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	app := setupTestApp(t)
	resp, body := app.postForm(t, app.newClient(t), "/auth/login", url.Values{"username": {"ghost"}, "password": {"pw"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Incorrect username.")
}

func TestTamperedSessionCookieIsCleared(t *testing.T) {
	app := setupTestApp(t)
	client := app.newClient(t)

	req, err := http.NewRequest(http.MethodGet, app.Server.URL+"/api/me", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "forged"})

	resp, err := client.Do(req)
	require.NoError(t, err)
	readBody(t, resp)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	var cleared bool
	for _, c := range resp.Cookies() {
		if c.Name == sessionCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)
}

type failingLogoutService struct {
	ports.AuthService
}

func (failingLogoutService) Logout(context.Context, string) error {
	return errors.New("connection refused")
}

func TestLogout_RevokeFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	previous := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = previous })

	render, err := NewRenderer()
	require.NoError(t, err)
	handler := NewAuthHandler(failingLogoutService{}, render, time.Hour, false)

	req := httptest.NewRequest(http.MethodGet, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "token"})
	rec := httptest.NewRecorder()
	handler.Logout(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Contains(t, rec.Header().Get("Set-Cookie"), sessionCookieName+"=;")
	assert.Contains(t, buf.String(), "failed to revoke session")
	assert.Contains(t, buf.String(), "connection refused")
}
