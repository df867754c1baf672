package fixture

import (
	"fmt"
	"strings"
	"time"
)

// Short status codes stored in fixtures.status_short.
const (
	StatusNotStarted = "NS"
	StatusLive       = "LIVE"
	StatusHalfTime   = "HT"
	StatusFullTime   = "FT"
	StatusPostponed  = "PST"
	StatusSuspended  = "SUSP"
	StatusCancelled  = "CANC"
	StatusUnknown    = "TBD"
)

const DefaultTimezone = "UTC"

var shortStatusByUpstream = map[string]string{
	"SCHEDULED": StatusNotStarted,
	"TIMED":     StatusNotStarted,
	"IN_PLAY":   StatusLive,
	"PAUSED":    StatusHalfTime,
	"FINISHED":  StatusFullTime,
	"POSTPONED": StatusPostponed,
	"SUSPENDED": StatusSuspended,
	"CANCELLED": StatusCancelled,
}

// MapStatusShort converts an upstream status literal to its short code.
// Matching is exact; anything unrecognised becomes TBD.
func MapStatusShort(upstream string) string {
	if short, ok := shortStatusByUpstream[upstream]; ok {
		return short
	}
	return StatusUnknown
}

// Fixture is one match row keyed by the upstream external id.
type Fixture struct {
	ID                int64
	ExternalID        int64
	Date              time.Time
	Timestamp         int64
	Timezone          string
	StatusLong        string
	StatusShort       string
	StatusElapsed     *int
	GoalsHome         *int
	GoalsAway         *int
	ScoreHalftimeHome *int
	ScoreHalftimeAway *int
	ScoreFulltimeHome *int
	ScoreFulltimeAway *int
	LeagueID          int64
	SeasonID          int64
	HomeTeamID        int64
	AwayTeamID        int64
	Round             *string
	Referee           *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (f Fixture) Validate() error {
	if f.ExternalID <= 0 {
		return fmt.Errorf("fixture external id must be > 0")
	}
	if f.Date.IsZero() {
		return fmt.Errorf("fixture date is required")
	}
	if f.LeagueID <= 0 || f.SeasonID <= 0 || f.HomeTeamID <= 0 || f.AwayTeamID <= 0 {
		return fmt.Errorf("fixture references are required")
	}
	if strings.TrimSpace(f.StatusShort) == "" {
		return fmt.Errorf("fixture status short is required")
	}
	return nil
}

// ApplyMutable copies the fields an update may change from src onto f.
// Identity, timezone, round and foreign keys are left untouched.
func (f *Fixture) ApplyMutable(src Fixture) {
	f.Date = src.Date
	f.Timestamp = src.Timestamp
	f.StatusLong = src.StatusLong
	f.StatusShort = src.StatusShort
	f.StatusElapsed = src.StatusElapsed
	f.GoalsHome = src.GoalsHome
	f.GoalsAway = src.GoalsAway
	f.ScoreHalftimeHome = src.ScoreHalftimeHome
	f.ScoreHalftimeAway = src.ScoreHalftimeAway
	f.ScoreFulltimeHome = src.ScoreFulltimeHome
	f.ScoreFulltimeAway = src.ScoreFulltimeAway
	f.Referee = src.Referee
	f.UpdatedAt = src.UpdatedAt
}
