package usecase

import (
	"context"
	"strconv"
	"time"
)

// RawRecord is one upstream match document before normalization.
type RawRecord struct {
	ExternalID int64
	Payload    []byte
}

// FetchWindow is the inclusive date range requested from the upstream.
type FetchWindow struct {
	From time.Time
	To   time.Time
}

func (w FetchWindow) String() string {
	return w.From.Format(time.DateOnly) + ".." + w.To.Format(time.DateOnly)
}

// FixtureSource fetches raw match documents. It returns ErrNoData when the
// upstream answers without a matches collection; an empty slice is valid.
type FixtureSource interface {
	FetchMatches(ctx context.Context, window FetchWindow) ([]RawRecord, error)
}

// FixtureNormalizer maps a raw document onto NormalizedFixture. Absent
// upstream fields become nil or zero values, never an error.
type FixtureNormalizer interface {
	Normalize(raw RawRecord) (NormalizedFixture, error)
}

// NormalizedFixture is the canonical record consumed by the pipeline.
type NormalizedFixture struct {
	ExternalID      int64      `validate:"gt=0"`
	Date            *time.Time `validate:"required"`
	Timestamp       *int64
	StatusLong      string
	StatusShort     string
	StatusElapsed   *int
	HomeTeamName    string `validate:"required"`
	AwayTeamName    string `validate:"required"`
	GoalsHome       *int
	GoalsAway       *int
	HalftimeHome    *int
	HalftimeAway    *int
	LeagueName      string `validate:"required"`
	LeagueCode      string
	SeasonStartDate string
	Round           *int
	Referee         *string
}

// SeasonYear takes the year from the season start date prefix and falls back
// to the calendar year of now.
func (f NormalizedFixture) SeasonYear(now time.Time) int {
	if len(f.SeasonStartDate) >= 4 {
		if year, err := strconv.Atoi(f.SeasonStartDate[:4]); err == nil {
			return year
		}
	}
	return now.Year()
}
