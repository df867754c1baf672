package postgres

import "time"

var seasonColumns = []string{"id", "league_id", "year", "start_date", "end_date", "current", "created_at"}

type seasonTableModel struct {
	ID        int64     `db:"id"`
	LeagueID  int64     `db:"league_id"`
	Year      int       `db:"year"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
	Current   bool      `db:"current"`
	CreatedAt time.Time `db:"created_at"`
}

type seasonInsertModel struct {
	LeagueID  int64     `db:"league_id"`
	Year      int       `db:"year"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
	Current   bool      `db:"current"`
}
