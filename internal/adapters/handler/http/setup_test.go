package http

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/webapps/internal/adapters/live"
	"github.com/vncsmyrnk/webapps/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/webapps/internal/core/ports"
	"github.com/vncsmyrnk/webapps/internal/core/services"
	"golang.org/x/crypto/bcrypt"
)

type TestApp struct {
	Server  *httptest.Server
	Store   *memory.Store
	PollSvc ports.PollService
}

const testOrigin = "http://localhost:3000"

func setupTestApp(t *testing.T) *TestApp {
	t.Helper()

	store := memory.NewStore()
	render, err := NewRenderer()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	hub := live.NewHub()
	go hub.Run(ctx)

	authSvc := services.NewAuthService(store.Users(), store.Sessions(), "test-secret", time.Hour).WithHashCost(bcrypt.MinCost)
	pollSvc := services.NewPollService(store.Questions())
	voteSvc := services.NewVoteService(store.Questions(), store.Votes(), hub)

	router := NewHandler(authSvc, Handlers{
		Auth:       NewAuthHandler(authSvc, render, time.Hour, false),
		Blog:       NewBlogHandler(services.NewPostService(store.Posts()), render),
		Poll:       NewPollHandler(pollSvc, render),
		Vote:       NewVoteHandler(voteSvc, pollSvc, render),
		Calculator: NewCalculatorHandler(services.NewCalculatorService(256), render),
		User:       NewUserHandler(services.NewUserService(store.Users())),
		Live:       NewLiveHandler(pollSvc, hub),
	}, []string{testOrigin})

	server := httptest.NewServer(router)
	t.Cleanup(func() {
		server.Close()
		cancel()
	})

	return &TestApp{Server: server, Store: store, PollSvc: pollSvc}
}

// newClient keeps cookies and does not follow redirects.
func (a *TestApp) newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (a *TestApp) get(t *testing.T, client *http.Client, path string) (*http.Response, string) {
	t.Helper()
	resp, err := client.Get(a.Server.URL + path)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func (a *TestApp) postForm(t *testing.T, client *http.Client, path string, values url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := client.PostForm(a.Server.URL+path, values)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func (a *TestApp) postJSON(t *testing.T, client *http.Client, path, body string) (*http.Response, string) {
	t.Helper()
	resp, err := client.Post(a.Server.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

// loginAs registers username and returns a client holding its session.
func (a *TestApp) loginAs(t *testing.T, username string) *http.Client {
	t.Helper()
	client := a.newClient(t)

	resp, _ := a.postForm(t, client, "/auth/register", url.Values{"username": {username}, "password": {"pw-" + username}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, _ = a.postForm(t, client, "/auth/login", url.Values{"username": {username}, "password": {"pw-" + username}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	return client
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}
