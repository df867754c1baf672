package season

import (
	"fmt"
	"time"
)

const (
	MinYear = 1900
	MaxYear = 2200
)

// Season is one league season keyed by (LeagueID, Year).
type Season struct {
	ID        int64
	LeagueID  int64
	Year      int
	StartDate time.Time
	EndDate   time.Time
	Current   bool
	CreatedAt time.Time
}

// WindowFor returns the fixed Aug 1 .. May 31 window of the season starting in year.
func WindowFor(year int) (start, end time.Time) {
	start = time.Date(year, time.August, 1, 0, 0, 0, 0, time.UTC)
	end = time.Date(year+1, time.May, 31, 0, 0, 0, 0, time.UTC)
	return start, end
}

// IsCurrent reports whether year is this calendar year or the previous one.
func IsCurrent(year int, now time.Time) bool {
	thisYear := now.UTC().Year()
	return year == thisYear || year == thisYear-1
}

// New builds a season row with its derived window and current flag.
func New(leagueID int64, year int, now time.Time) Season {
	start, end := WindowFor(year)
	return Season{
		LeagueID:  leagueID,
		Year:      year,
		StartDate: start,
		EndDate:   end,
		Current:   IsCurrent(year, now),
	}
}

func (s Season) Validate() error {
	if s.LeagueID <= 0 {
		return fmt.Errorf("season league id must be > 0")
	}
	if s.Year < MinYear || s.Year > MaxYear {
		return fmt.Errorf("season year must be between %d and %d", MinYear, MaxYear)
	}
	return nil
}
