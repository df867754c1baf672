package footballdata

import (
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/fixture-sync/internal/domain/fixture"
	"github.com/riskibarqy/fixture-sync/internal/usecase"
)

// Normalizer maps football-data.org v4 match documents onto usecase.NormalizedFixture.
type Normalizer struct{}

func NewNormalizer() Normalizer {
	return Normalizer{}
}

// Normalize fails only on undecodable JSON; missing fields come back as nil or empty.
func (Normalizer) Normalize(raw usecase.RawRecord) (usecase.NormalizedFixture, error) {
	var m match
	if err := sonic.Unmarshal(raw.Payload, &m); err != nil {
		return usecase.NormalizedFixture{ExternalID: raw.ExternalID}, fmt.Errorf("decode match payload: %w", err)
	}

	out := usecase.NormalizedFixture{
		ExternalID:    m.ID,
		StatusLong:    m.Status,
		StatusShort:   fixture.MapStatusShort(m.Status),
		StatusElapsed: minuteValue(m.Minute),
		Round:         m.Matchday,
	}
	if out.ExternalID == 0 {
		out.ExternalID = raw.ExternalID
	}

	if date, err := time.Parse(time.RFC3339, strings.TrimSpace(m.UTCDate)); err == nil {
		date = date.UTC()
		ts := date.Unix()
		out.Date = &date
		out.Timestamp = &ts
	}
	if m.HomeTeam != nil {
		out.HomeTeamName = m.HomeTeam.Name
	}
	if m.AwayTeam != nil {
		out.AwayTeamName = m.AwayTeam.Name
	}
	if m.Competition != nil {
		out.LeagueName = m.Competition.Name
		out.LeagueCode = m.Competition.Code
	}
	if m.Season != nil {
		out.SeasonStartDate = m.Season.StartDate
	}
	if m.Score != nil {
		if m.Score.FullTime != nil {
			out.GoalsHome = m.Score.FullTime.Home
			out.GoalsAway = m.Score.FullTime.Away
		}
		if m.Score.HalfTime != nil {
			out.HalftimeHome = m.Score.HalfTime.Home
			out.HalftimeAway = m.Score.HalfTime.Away
		}
	}
	if len(m.Referees) > 0 {
		if name := strings.TrimSpace(m.Referees[0].Name); name != "" {
			out.Referee = &name
		}
	}

	return out, nil
}
