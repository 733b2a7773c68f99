package repository

import (
	"context"

	"rps_arena/internal/domain"
	"rps_arena/internal/game"

	"github.com/jackc/pgx/v5/pgxpool"
)

type AccountRepository struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, name, rating, wins, losses, ties, created_at
		 FROM accounts
		 WHERE id = $1`,
		id,
	)

	var a domain.Account
	if err := row.Scan(&a.ID, &a.Name, &a.Rating, &a.Wins, &a.Losses, &a.Ties, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepository) GetByName(ctx context.Context, name string) (*domain.Account, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, name, rating, wins, losses, ties, created_at
		 FROM accounts
		 WHERE name = $1`,
		name,
	)

	var a domain.Account
	if err := row.Scan(&a.ID, &a.Name, &a.Rating, &a.Wins, &a.Losses, &a.Ties, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) error {
	a.Rating = game.DefaultRating
	return r.db.QueryRow(ctx,
		`INSERT INTO accounts (name, rating)
		 VALUES ($1, $2)
		 RETURNING id, created_at`,
		a.Name,
		a.Rating,
	).Scan(&a.ID, &a.CreatedAt)
}

// Leaderboard returns accounts ordered by rating, optionally filtered by a
// case-insensitive name substring.
func (r *AccountRepository) Leaderboard(ctx context.Context, search string, limit int) ([]domain.Account, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, rating, wins, losses, ties, created_at
		 FROM accounts
		 WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		 ORDER BY rating DESC, name ASC
		 LIMIT $2`,
		search, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.Account
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Rating, &a.Wins, &a.Losses, &a.Ties, &a.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, rows.Err()
}
