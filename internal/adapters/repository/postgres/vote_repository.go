package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vncsmyrnk/webapps/internal/core/domain"
	"github.com/vncsmyrnk/webapps/internal/core/ports"
)

type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) ports.VoteRepository {
	return &voteRepository{
		db: db,
	}
}

// CastVote increments the counter in the database rather than writing back
// a value read earlier, so concurrent votes are never lost.
func (r *voteRepository) CastVote(ctx context.Context, vote *domain.Vote) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE choices SET votes = votes + 1 WHERE id = $1 AND question_id = $2`,
		vote.ChoiceID, vote.QuestionID,
	)
	if err != nil {
		return fmt.Errorf("failed to increment choice: %w", err)
	}
	if err := expectOneRow(res, domain.ErrInvalidChoice); err != nil {
		return err
	}

	query := `
		INSERT INTO votes (id, question_id, choice_id, voter_ip, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = tx.ExecContext(ctx, query, vote.ID, vote.QuestionID, vote.ChoiceID, vote.VoterIP, vote.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save vote: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
