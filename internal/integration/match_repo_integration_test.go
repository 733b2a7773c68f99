package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"rps_arena/internal/domain"
	"rps_arena/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

func TestMatchRepository_SaveTerminal_ListByAccount(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	defer db.Close()

	applyMigrationsToPool(t, db)

	ctx := context.Background()
	accounts := repository.NewAccountRepository(db)

	suffix := time.Now().UnixNano()
	accA := &domain.Account{Name: fmt.Sprintf("repo-a-%d", suffix)}
	accB := &domain.Account{Name: fmt.Sprintf("repo-b-%d", suffix)}
	if err := accounts.Create(ctx, accA); err != nil {
		t.Fatalf("create account A: %v", err)
	}
	if err := accounts.Create(ctx, accB); err != nil {
		t.Fatalf("create account B: %v", err)
	}

	matches := repository.NewMatchRepository(db)

	bID := accB.ID
	now := time.Now()
	m := &domain.Match{
		ID:          uuid.NewString(),
		PlayerAID:   accA.ID,
		PlayerBID:   &bID,
		MoveA:       "rock",
		MoveB:       "scissors",
		WinnerID:    &accA.ID,
		Status:      domain.MatchCompleted,
		DeltaA:      5,
		DeltaB:      -5,
		CreatedAt:   now,
		CompletedAt: &now,
	}
	updates := []repository.AccountUpdate{
		{AccountID: accA.ID, RatingDelta: 5, Wins: 1},
		{AccountID: accB.ID, RatingDelta: -5, Losses: 1},
	}

	if err := matches.SaveTerminal(ctx, m, updates); err != nil {
		t.Fatalf("save terminal: %v", err)
	}

	// replay of the same terminal record must not double-apply
	if err := matches.SaveTerminal(ctx, m, nil); err != nil {
		t.Fatalf("save terminal replay: %v", err)
	}

	got, err := matches.ListByAccount(ctx, accA.ID, 10)
	if err != nil {
		t.Fatalf("list by account: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("matches = %d, want 1", len(got))
	}
	if got[0].ID != m.ID || got[0].WinnerID == nil || *got[0].WinnerID != accA.ID {
		t.Fatalf("stored match = %+v", got[0])
	}

	reloaded, err := accounts.GetByID(ctx, accA.ID)
	if err != nil {
		t.Fatalf("reload account: %v", err)
	}
	if reloaded.Rating != accA.Rating+5 || reloaded.Wins != 1 {
		t.Fatalf("account after win: rating=%d wins=%d", reloaded.Rating, reloaded.Wins)
	}

	// cancelled sessions persist a marker row with no adjustments
	cancelled := &domain.Match{
		ID:        uuid.NewString(),
		PlayerAID: accA.ID,
		PlayerBID: &bID,
		Status:    domain.MatchCancelled,
		CreatedAt: now,
	}
	if err := matches.SaveTerminal(ctx, cancelled, nil); err != nil {
		t.Fatalf("save cancelled: %v", err)
	}
	got, err = matches.ListByAccount(ctx, accB.ID, 10)
	if err != nil {
		t.Fatalf("list by account B: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("matches for B = %d, want 2", len(got))
	}
}
