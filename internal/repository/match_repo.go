package repository

import (
	"context"
	"fmt"

	"rps_arena/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AccountUpdate is the rating and counter adjustment applied to one account
// alongside a completed match record.
type AccountUpdate struct {
	AccountID   int64
	RatingDelta int
	Wins        int
	Losses      int
	Ties        int
}

type MatchRepository struct {
	db *pgxpool.Pool
}

func NewMatchRepository(db *pgxpool.Pool) *MatchRepository {
	return &MatchRepository{db: db}
}

// SaveTerminal writes the match record and the account adjustments in a
// single transaction. The session core calls it exactly once per terminal
// transition; for cancellations updates is empty.
func (r *MatchRepository) SaveTerminal(ctx context.Context, m *domain.Match, updates []AccountUpdate) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO matches
		   (id, player_a_id, player_b_id, move_a, move_b, winner_id, status,
		    delta_a, delta_b, rematch_of, created_at, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (id) DO NOTHING`,
		m.ID, m.PlayerAID, m.PlayerBID, m.MoveA, m.MoveB, m.WinnerID, m.Status,
		m.DeltaA, m.DeltaB, m.RematchOf, m.CreatedAt, m.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert match: %w", err)
	}

	for _, u := range updates {
		_, err = tx.Exec(ctx,
			`UPDATE accounts
			 SET rating = rating + $1,
			     wins   = wins + $2,
			     losses = losses + $3,
			     ties   = ties + $4
			 WHERE id = $5`,
			u.RatingDelta, u.Wins, u.Losses, u.Ties, u.AccountID,
		)
		if err != nil {
			return fmt.Errorf("update account %d: %w", u.AccountID, err)
		}
	}

	return tx.Commit(ctx)
}

// ListByAccount returns an account's recent terminal matches.
func (r *MatchRepository) ListByAccount(ctx context.Context, accountID int64, limit int) ([]domain.Match, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, player_a_id, player_b_id, move_a, move_b, winner_id, status,
		        delta_a, delta_b, rematch_of, created_at, completed_at
		 FROM matches
		 WHERE player_a_id = $1 OR player_b_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		accountID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.Match
	for rows.Next() {
		var m domain.Match
		if err := rows.Scan(
			&m.ID, &m.PlayerAID, &m.PlayerBID, &m.MoveA, &m.MoveB, &m.WinnerID, &m.Status,
			&m.DeltaA, &m.DeltaB, &m.RematchOf, &m.CreatedAt, &m.CompletedAt,
		); err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	return res, rows.Err()
}
