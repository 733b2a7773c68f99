package handlers

import (
	"rps_arena/internal/repository"
	"rps_arena/internal/session"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	DB          *pgxpool.Pool
	AccountRepo *repository.AccountRepository
	MatchRepo   *repository.MatchRepository
	Directory   *session.Directory
}

func NewHandler(db *pgxpool.Pool, dir *session.Directory) *Handler {
	return &Handler{
		DB:          db,
		AccountRepo: repository.NewAccountRepository(db),
		MatchRepo:   repository.NewMatchRepository(db),
		Directory:   dir,
	}
}

// getAccountID pulls the authenticated account id set by the JWT middleware.
func getAccountID(c interface{ Get(string) (any, bool) }) (int64, bool) {
	v, ok := c.Get("account_id")
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
