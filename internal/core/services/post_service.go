package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/webapps/internal/core/domain"
	"github.com/vncsmyrnk/webapps/internal/core/ports"
)

type postService struct {
	repo ports.PostRepository
	now  func() time.Time
}

func NewPostService(repo ports.PostRepository) ports.PostService {
	return &postService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *postService) List(ctx context.Context) ([]*domain.Post, error) {
	posts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

func (s *postService) Get(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			return nil, postNotFound(id)
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

// GetForAuthor loads a post that userID is about to change.
func (s *postService) GetForAuthor(ctx context.Context, id, userID uuid.UUID) (*domain.Post, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, domain.ErrForbidden
	}
	return post, nil
}

func (s *postService) Create(ctx context.Context, authorID uuid.UUID, input ports.PostInput) (*domain.Post, error) {
	if input.Title == "" {
		return nil, domain.NewValidationError("Title is required.", nil)
	}

	post := &domain.Post{
		ID:       uuid.New(),
		Title:    input.Title,
		Body:     input.Body,
		Created:  s.now().UTC().Truncate(time.Microsecond),
		AuthorID: authorID,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return s.Get(ctx, post.ID)
}

func (s *postService) Update(ctx context.Context, id, userID uuid.UUID, input ports.PostInput) (*domain.Post, error) {
	post, err := s.GetForAuthor(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if input.Title == "" {
		return nil, domain.NewValidationError("Title is required.", nil)
	}

	post.Title = input.Title
	post.Body = input.Body
	if err := s.repo.Update(ctx, post); err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			return nil, postNotFound(id)
		}
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return post, nil
}

func (s *postService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if _, err := s.GetForAuthor(ctx, id, userID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			return postNotFound(id)
		}
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

func postNotFound(id uuid.UUID) error {
	return fmt.Errorf("post id %s doesn't exist: %w", id, domain.ErrPostNotFound)
}
