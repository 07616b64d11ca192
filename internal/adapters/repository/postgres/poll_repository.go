package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/webapps/internal/core/domain"
	"github.com/vncsmyrnk/webapps/internal/core/ports"
)

type questionRepository struct {
	db *sql.DB
}

func NewQuestionRepository(db *sql.DB) ports.QuestionRepository {
	return &questionRepository{
		db: db,
	}
}

func (r *questionRepository) Save(ctx context.Context, question *domain.Question) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryQuestion := `
		INSERT INTO questions (id, question_text, pub_date)
		VALUES ($1, $2, $3)
	`
	_, err = tx.ExecContext(ctx, queryQuestion, question.ID, question.QuestionText, question.PubDate)
	if err != nil {
		return fmt.Errorf("failed to insert question: %w", err)
	}

	queryChoice := `
		INSERT INTO choices (id, question_id, choice_text, votes, position)
		VALUES ($1, $2, $3, $4, $5)
	`
	stmt, err := tx.PrepareContext(ctx, queryChoice)
	if err != nil {
		return fmt.Errorf("failed to prepare choice statement: %w", err)
	}
	defer stmt.Close()

	for i, choice := range question.Choices {
		_, err = stmt.ExecContext(ctx, choice.ID, choice.QuestionID, choice.ChoiceText, choice.Votes, i)
		if err != nil {
			return fmt.Errorf("failed to insert choice: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *questionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	queryQuestion := `
		SELECT id, question_text, pub_date
		FROM questions
		WHERE id = $1
	`

	var question domain.Question
	err := r.db.QueryRowContext(ctx, queryQuestion, id).Scan(
		&question.ID, &question.QuestionText, &question.PubDate,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	choices, err := r.fetchChoices(ctx, question.ID)
	if err != nil {
		return nil, err
	}
	question.Choices = choices

	return &question, nil
}

func (r *questionRepository) GetAll(ctx context.Context) ([]*domain.Question, error) {
	query := `
		SELECT id, question_text, pub_date
		FROM questions
		ORDER BY pub_date DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get all questions: %w", err)
	}
	defer rows.Close()

	return r.scanQuestions(ctx, rows)
}

func (r *questionRepository) ListPublished(ctx context.Context, now time.Time, limit int) ([]*domain.Question, error) {
	query := `
		SELECT id, question_text, pub_date
		FROM questions
		WHERE pub_date <= $1
		ORDER BY pub_date DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	return r.scanQuestions(ctx, rows)
}

func (r *questionRepository) scanQuestions(ctx context.Context, rows *sql.Rows) ([]*domain.Question, error) {
	var questions []*domain.Question
	for rows.Next() {
		var question domain.Question
		if err := rows.Scan(&question.ID, &question.QuestionText, &question.PubDate); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, &question)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating questions: %w", err)
	}

	// Choices are loaded after the cursor is drained so the connection is
	// free for the follow-up queries.
	for _, question := range questions {
		choices, err := r.fetchChoices(ctx, question.ID)
		if err != nil {
			return nil, err
		}
		question.Choices = choices
	}
	return questions, nil
}

func (r *questionRepository) fetchChoices(ctx context.Context, questionID uuid.UUID) ([]domain.Choice, error) {
	queryChoices := `
		SELECT id, question_id, choice_text, votes
		FROM choices
		WHERE question_id = $1
		ORDER BY position
	`
	rows, err := r.db.QueryContext(ctx, queryChoices, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get choices: %w", err)
	}
	defer rows.Close()

	var choices []domain.Choice
	for rows.Next() {
		var choice domain.Choice
		if err := rows.Scan(&choice.ID, &choice.QuestionID, &choice.ChoiceText, &choice.Votes); err != nil {
			return nil, fmt.Errorf("failed to scan choice: %w", err)
		}
		choices = append(choices, choice)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating choices: %w", err)
	}
	return choices, nil
}
