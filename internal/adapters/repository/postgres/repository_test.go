package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/webapps/internal/core/domain"
)

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func createUser(t *testing.T, repo *UserRepository, username string) *domain.User {
	t.Helper()
	user := &domain.User{ID: uuid.New(), Username: username, PasswordHash: "hash", CreatedAt: now()}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func createQuestion(t *testing.T, repo *questionRepository, text string, pubDate time.Time, choices ...string) *domain.Question {
	t.Helper()
	q := &domain.Question{ID: uuid.New(), QuestionText: text, PubDate: pubDate}
	for _, c := range choices {
		q.Choices = append(q.Choices, domain.Choice{ID: uuid.New(), QuestionID: q.ID, ChoiceText: c})
	}
	require.NoError(t, repo.Save(context.Background(), q))
	return q
}

func TestPostgresRepositories(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	users := &UserRepository{db: db}
	sessions := &SessionRepository{db: db}
	posts := &postRepository{db: db}
	questions := &questionRepository{db: db}
	votes := &voteRepository{db: db}
	tally := &tallyRepository{db: db}

	t.Run("migrations are idempotent", func(t *testing.T) {
		require.NoError(t, Migrate(ctx, db))
	})

	t.Run("users", func(t *testing.T) {
		alice := createUser(t, users, "alice")

		got, err := users.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, alice.ID, got.ID)
		assert.Equal(t, "hash", got.PasswordHash)

		missing, err := users.GetByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, missing)

		err = users.Create(ctx, &domain.User{ID: uuid.New(), Username: "alice", PasswordHash: "x", CreatedAt: now()})
		assert.ErrorIs(t, err, domain.ErrUsernameTaken)
	})

	t.Run("sessions", func(t *testing.T) {
		user := createUser(t, users, "session-user")
		session := &domain.Session{ID: uuid.New(), UserID: user.ID, ExpiresAt: now().Add(time.Hour), CreatedAt: now()}
		require.NoError(t, sessions.CreateSession(ctx, session))

		got, err := sessions.GetSession(ctx, session.ID)
		require.NoError(t, err)
		assert.True(t, got.Active(time.Now()))

		require.NoError(t, sessions.RevokeSession(ctx, session.ID))
		got, err = sessions.GetSession(ctx, session.ID)
		require.NoError(t, err)
		assert.True(t, got.Revoked)
	})

	t.Run("posts", func(t *testing.T) {
		author := createUser(t, users, "author")
		older := &domain.Post{ID: uuid.New(), Title: "older", Body: "a", Created: now().Add(-time.Hour), AuthorID: author.ID}
		newer := &domain.Post{ID: uuid.New(), Title: "newer", Body: "b", Created: now(), AuthorID: author.ID}
		require.NoError(t, posts.Create(ctx, older))
		require.NoError(t, posts.Create(ctx, newer))

		list, err := posts.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "newer", list[0].Title)
		assert.Equal(t, "author", list[0].AuthorUsername)

		older.Title = "renamed"
		require.NoError(t, posts.Update(ctx, older))
		got, err := posts.GetByID(ctx, older.ID)
		require.NoError(t, err)
		assert.Equal(t, "renamed", got.Title)

		require.NoError(t, posts.Delete(ctx, older.ID))
		_, err = posts.GetByID(ctx, older.ID)
		assert.ErrorIs(t, err, domain.ErrPostNotFound)
		assert.ErrorIs(t, posts.Delete(ctx, older.ID), domain.ErrPostNotFound)
	})

	t.Run("questions", func(t *testing.T) {
		base := now()
		future := createQuestion(t, questions, "future", base.Add(time.Hour), "a", "b")
		for i := 0; i < 6; i++ {
			createQuestion(t, questions, "past", base.Add(-time.Duration(i+1)*time.Minute), "x", "y", "z")
		}

		got, err := questions.GetByID(ctx, future.ID)
		require.NoError(t, err)
		require.Len(t, got.Choices, 2)
		assert.Equal(t, "a", got.Choices[0].ChoiceText)
		assert.True(t, got.PubDate.Equal(future.PubDate))

		latest, err := questions.ListPublished(ctx, base, 5)
		require.NoError(t, err)
		require.Len(t, latest, 5)
		for _, q := range latest {
			assert.NotEqual(t, future.ID, q.ID)
			assert.Len(t, q.Choices, 3)
		}

		_, err = questions.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, domain.ErrQuestionNotFound)
	})

	t.Run("votes and tally", func(t *testing.T) {
		q := createQuestion(t, questions, "concurrent", now(), "a", "b")

		const voters = 20
		var wg sync.WaitGroup
		for i := 0; i < voters; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := votes.CastVote(ctx, &domain.Vote{ID: uuid.New(), QuestionID: q.ID, ChoiceID: q.Choices[0].ID, VoterIP: "10.0.0.1", CreatedAt: now()})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		other := createQuestion(t, questions, "other", now(), "c", "d")
		err := votes.CastVote(ctx, &domain.Vote{ID: uuid.New(), QuestionID: q.ID, ChoiceID: other.Choices[0].ID, CreatedAt: now()})
		assert.ErrorIs(t, err, domain.ErrInvalidChoice)

		got, err := questions.GetByID(ctx, q.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(voters), got.Choices[0].Votes)

		_, err = db.ExecContext(ctx, `UPDATE choices SET votes = 0 WHERE question_id = $1`, q.ID)
		require.NoError(t, err)
		require.NoError(t, tally.Recount(ctx, q.ID))

		got, err = questions.GetByID(ctx, q.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(voters), got.Choices[0].Votes)
		assert.Zero(t, got.Choices[1].Votes)
	})

	t.Run("recount concurrent with votes", func(t *testing.T) {
		q := createQuestion(t, questions, "recount race", now(), "a", "b")

		const voters = 30
		var wg sync.WaitGroup
		for i := 0; i < voters; i++ {
			wg.Add(2)
			go func(i int) {
				defer wg.Done()
				err := votes.CastVote(ctx, &domain.Vote{ID: uuid.New(), QuestionID: q.ID, ChoiceID: q.Choices[i%2].ID, CreatedAt: now()})
				assert.NoError(t, err)
			}(i)
			go func() {
				defer wg.Done()
				assert.NoError(t, tally.Recount(ctx, q.ID))
			}()
		}
		wg.Wait()

		got, err := questions.GetByID(ctx, q.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(voters/2), got.Choices[0].Votes)
		assert.Equal(t, int64(voters/2), got.Choices[1].Votes)

		var ledger int64
		require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM votes WHERE question_id = $1`, q.ID).Scan(&ledger))
		assert.Equal(t, int64(voters), ledger)
	})

	t.Run("reset", func(t *testing.T) {
		require.NoError(t, Reset(ctx, db))
		list, err := posts.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}
