package season

import "context"

type Repository interface {
	GetByLeagueYear(ctx context.Context, leagueID int64, year int) (Season, bool, error)
	CreateIfAbsent(ctx context.Context, item Season) (stored Season, created bool, err error)
}
