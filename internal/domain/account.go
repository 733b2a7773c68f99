package domain

import "time"

type Account struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Rating    int       `db:"rating" json:"rating"`
	Wins      int       `db:"wins" json:"wins"`
	Losses    int       `db:"losses" json:"losses"`
	Ties      int       `db:"ties" json:"ties"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// WinRate is the percentage of decided games won.
func (a *Account) WinRate() float64 {
	decided := a.Wins + a.Losses
	if decided == 0 {
		return 0
	}
	return float64(a.Wins) / float64(decided) * 100
}
