package postgres

import "time"

var leagueColumns = []string{"id", "name", "type", "created_at"}

type leagueTableModel struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Type      string    `db:"type"`
	CreatedAt time.Time `db:"created_at"`
}

type leagueInsertModel struct {
	Name string `db:"name"`
	Type string `db:"type"`
}
