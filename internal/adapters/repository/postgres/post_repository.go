package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/webapps/internal/core/domain"
	"github.com/vncsmyrnk/webapps/internal/core/ports"
)

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) ports.PostRepository {
	return &postRepository{
		db: db,
	}
}

const selectPosts = `
	SELECT p.id, p.title, p.body, p.created, p.author_id, u.username
	FROM posts p
	JOIN users u ON p.author_id = u.id
`

func (r *postRepository) Create(ctx context.Context, post *domain.Post) error {
	query := `
		INSERT INTO posts (id, author_id, title, body, created)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, post.ID, post.AuthorID, post.Title, post.Body, post.Created)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	var post domain.Post
	err := r.db.QueryRowContext(ctx, selectPosts+` WHERE p.id = $1`, id).Scan(
		&post.ID, &post.Title, &post.Body, &post.Created, &post.AuthorID, &post.AuthorUsername,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context) ([]*domain.Post, error) {
	rows, err := r.db.QueryContext(ctx, selectPosts+` ORDER BY p.created DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []*domain.Post
	for rows.Next() {
		var post domain.Post
		if err := rows.Scan(&post.ID, &post.Title, &post.Body, &post.Created, &post.AuthorID, &post.AuthorUsername); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, &post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *domain.Post) error {
	query := `UPDATE posts SET title = $1, body = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, post.Title, post.Body, post.ID)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	return expectOneRow(res, domain.ErrPostNotFound)
}

func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return expectOneRow(res, domain.ErrPostNotFound)
}

func expectOneRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
