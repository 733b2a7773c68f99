package domain

import "time"

type MatchStatus string

const (
	MatchCompleted MatchStatus = "completed"
	MatchCancelled MatchStatus = "cancelled"
)

// Match is the persisted record of a terminal session.
type Match struct {
	ID          string      `db:"id" json:"id"`
	PlayerAID   int64       `db:"player_a_id" json:"player_a_id"`
	PlayerBID   *int64      `db:"player_b_id" json:"player_b_id,omitempty"`
	MoveA       string      `db:"move_a" json:"move_a,omitempty"`
	MoveB       string      `db:"move_b" json:"move_b,omitempty"`
	WinnerID    *int64      `db:"winner_id" json:"winner_id,omitempty"`
	Status      MatchStatus `db:"status" json:"status"`
	DeltaA      int         `db:"delta_a" json:"delta_a"`
	DeltaB      int         `db:"delta_b" json:"delta_b"`
	RematchOf   *string     `db:"rematch_of" json:"rematch_of,omitempty"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	CompletedAt *time.Time  `db:"completed_at" json:"completed_at,omitempty"`
}
