package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/webapps/internal/core/domain"
	"github.com/vncsmyrnk/webapps/internal/core/ports"
)

func (a *TestApp) createQuestion(t *testing.T, text string, pubDate time.Time, choices ...string) *domain.Question {
	t.Helper()
	q, err := a.PollSvc.Create(context.Background(), ports.CreateQuestionInput{QuestionText: text, PubDate: &pubDate, Choices: choices})
	require.NoError(t, err)
	return q
}

func TestPolls_Index(t *testing.T) {
	app := setupTestApp(t)
	client := app.newClient(t)

	_, body := app.get(t, client, "/polls/")
	assert.Contains(t, body, "No polls are available.")

	app.createQuestion(t, "Past question", time.Now().Add(-time.Hour), "a", "b")
	app.createQuestion(t, "Future question", time.Now().Add(time.Hour), "a", "b")

	resp, body := app.get(t, client, "/polls/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Past question")
	assert.NotContains(t, body, "Future question")

	resp, _ = app.get(t, client, "/polls")
	assert.Equal(t, http.StatusMovedPermanently, resp.StatusCode)
}

func TestPolls_DetailVisibility(t *testing.T) {
	app := setupTestApp(t)
	client := app.newClient(t)
	past := app.createQuestion(t, "Past question", time.Now().Add(-time.Hour), "a", "b")
	future := app.createQuestion(t, "Future question", time.Now().Add(time.Hour), "a", "b")

	resp, body := app.get(t, client, "/polls/"+past.ID.String()+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Past question")

	for _, path := range []string{
		"/polls/" + future.ID.String() + "/",
		"/polls/" + future.ID.String() + "/results/",
		"/polls/" + uuid.NewString() + "/",
		"/polls/not-a-uuid/",
	} {
		resp, _ := app.get(t, client, path)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}
}

func TestPolls_Vote(t *testing.T) {
	app := setupTestApp(t)
	client := app.newClient(t)
	q := app.createQuestion(t, "Best color?", time.Now().Add(-time.Minute), "Red", "Blue")
	votePath := "/polls/" + q.ID.String() + "/vote/"

	t.Run("missing choice redisplays the form", func(t *testing.T) {
		resp, body := app.postForm(t, client, votePath, url.Values{})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, "You didn&#39;t select a choice.")
	})

	t.Run("choice of another question redisplays the form", func(t *testing.T) {
		other := app.createQuestion(t, "Other", time.Now().Add(-time.Minute), "x", "y")
		resp, body := app.postForm(t, client, votePath, url.Values{"choice": {other.Choices[0].ID.String()}})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, "You didn&#39;t select a choice.")
	})

	t.Run("valid choice redirects to results", func(t *testing.T) {
		resp, _ := app.postForm(t, client, votePath, url.Values{"choice": {q.Choices[1].ID.String()}})
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/polls/"+q.ID.String()+"/results/", resp.Header.Get("Location"))

		resp, body := app.get(t, client, "/polls/"+q.ID.String()+"/results/")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, "Blue -- <span class=\"votes\">1 vote</span>")
		assert.Contains(t, body, "Red -- <span class=\"votes\">0 votes</span>")
	})

	t.Run("future question cannot be voted on", func(t *testing.T) {
		future := app.createQuestion(t, "Later", time.Now().Add(time.Hour), "x", "y")
		resp, _ := app.postForm(t, client, "/polls/"+future.ID.String()+"/vote/", url.Values{"choice": {future.Choices[0].ID.String()}})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestQuestionsAPI(t *testing.T) {
	app := setupTestApp(t)
	anonymous := app.newClient(t)

	resp, body := app.get(t, anonymous, "/api/questions")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "[]", body)

	payload := `{"question_text":"Tabs or spaces?","choices":["Tabs","Spaces"]}`
	resp, _ = app.postJSON(t, anonymous, "/api/questions", payload)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	alice := app.loginAs(t, "alice")
	resp, body = app.postJSON(t, alice, "/api/questions", payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created domain.Question
	require.NoError(t, json.Unmarshal([]byte(body), &created))
	assert.Equal(t, "Tabs or spaces?", created.QuestionText)
	require.Len(t, created.Choices, 2)

	resp, body = app.postJSON(t, alice, "/api/questions", `{"question_text":"Lonely","choices":["only"]}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "At least two choices are required.")

	resp, body = app.get(t, anonymous, "/api/questions/"+created.ID.String())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"percentage":0`)

	resp, _ = app.get(t, anonymous, "/api/questions/"+uuid.NewString())
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = app.get(t, anonymous, "/api/questions/nope")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_CORS(t *testing.T) {
	app := setupTestApp(t)

	req, err := http.NewRequest(http.MethodOptions, app.Server.URL+"/api/questions", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", testOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := app.newClient(t).Do(req)
	require.NoError(t, err)
	readBody(t, resp)

	assert.Equal(t, testOrigin, resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))

	req, err = http.NewRequest(http.MethodOptions, app.Server.URL+"/api/questions", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err = app.newClient(t).Do(req)
	require.NoError(t, err)
	readBody(t, resp)

	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}
