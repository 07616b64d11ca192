// Package memory keeps every repository in process memory. It backs
// STORAGE=memory runs and the service and handler tests.
package memory

import (
	"sync"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/webapps/internal/core/domain"
	"github.com/vncsmyrnk/webapps/internal/core/ports"
)

type Store struct {
	mu sync.RWMutex

	users     map[uuid.UUID]domain.User
	usernames map[string]uuid.UUID
	sessions  map[uuid.UUID]domain.Session
	posts     map[uuid.UUID]storedPost
	postSeq   int64
	questions map[uuid.UUID]domain.Question
	votes     []domain.Vote
}

type storedPost struct {
	post domain.Post
	seq  int64
}

func NewStore() *Store {
	return &Store{
		users:     make(map[uuid.UUID]domain.User),
		usernames: make(map[string]uuid.UUID),
		sessions:  make(map[uuid.UUID]domain.Session),
		posts:     make(map[uuid.UUID]storedPost),
		questions: make(map[uuid.UUID]domain.Question),
	}
}

func (s *Store) Users() ports.UserRepository {
	return &userRepository{store: s}
}

func (s *Store) Sessions() ports.SessionRepository {
	return &sessionRepository{store: s}
}

func (s *Store) Posts() ports.PostRepository {
	return &postRepository{store: s}
}

func (s *Store) Questions() ports.QuestionRepository {
	return &questionRepository{store: s}
}

func (s *Store) Votes() ports.VoteRepository {
	return &voteRepository{store: s}
}

func (s *Store) Tally() ports.TallyRepository {
	return &tallyRepository{store: s}
}

// copyQuestion detaches the choices slice so callers cannot mutate the
// stored counters.
func copyQuestion(q domain.Question) *domain.Question {
	q.Choices = append([]domain.Choice(nil), q.Choices...)
	return &q
}
