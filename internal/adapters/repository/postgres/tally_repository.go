package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/webapps/internal/core/ports"
)

type tallyRepository struct {
	db *sql.DB
}

func NewTallyRepository(db *sql.DB) ports.TallyRepository {
	return &tallyRepository{
		db: db,
	}
}

// Recount sets every choice of the question to the number of ledger rows
// pointing at it. The choice rows are locked first so votes still in flight
// commit before the count is taken; the UPDATE then runs with a fresh
// snapshot that includes their ledger rows.
func (r *tallyRepository) Recount(ctx context.Context, questionID uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		`SELECT id FROM choices WHERE question_id = $1 ORDER BY id FOR UPDATE`,
		questionID,
	)
	if err != nil {
		return fmt.Errorf("failed to lock choices for question %s: %w", questionID, err)
	}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan choice: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("failed to lock choices for question %s: %w", questionID, err)
	}
	rows.Close()

	query := `
		UPDATE choices c
		SET votes = (SELECT COUNT(*) FROM votes v WHERE v.choice_id = c.id)
		WHERE c.question_id = $1
	`
	if _, err := tx.ExecContext(ctx, query, questionID); err != nil {
		return fmt.Errorf("failed to recount votes for question %s: %w", questionID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit recount for question %s: %w", questionID, err)
	}
	return nil
}
