package postgres

import "time"

var teamColumns = []string{"id", "name", "national", "created_at"}

type teamTableModel struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	National  bool      `db:"national"`
	CreatedAt time.Time `db:"created_at"`
}

type teamInsertModel struct {
	Name     string `db:"name"`
	National bool   `db:"national"`
}
