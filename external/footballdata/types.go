package footballdata

import (
	"encoding/json"
	"strconv"
	"strings"
)

// matchesEnvelope keeps each match raw so it can be archived untouched.
type matchesEnvelope struct {
	Matches *[]json.RawMessage `json:"matches"`
}

type matchID struct {
	ID int64 `json:"id"`
}

type match struct {
	ID          int64        `json:"id"`
	UTCDate     string       `json:"utcDate"`
	Status      string       `json:"status"`
	Minute      any          `json:"minute"`
	Matchday    *int         `json:"matchday"`
	Competition *competition `json:"competition"`
	Season      *season      `json:"season"`
	HomeTeam    *teamRef     `json:"homeTeam"`
	AwayTeam    *teamRef     `json:"awayTeam"`
	Score       *score       `json:"score"`
	Referees    []referee    `json:"referees"`
}

type competition struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type season struct {
	ID        int64  `json:"id"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type teamRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type score struct {
	FullTime *scorePair `json:"fullTime"`
	HalfTime *scorePair `json:"halfTime"`
}

type scorePair struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

type referee struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type errorBody struct {
	Message   string `json:"message"`
	ErrorCode int    `json:"errorCode"`
}

// minuteValue accepts 67, 67.0 or "90+3" and returns the leading minute.
func minuteValue(v any) *int {
	switch value := v.(type) {
	case float64:
		out := int(value)
		return &out
	case int:
		return &value
	case int64:
		out := int(value)
		return &out
	case string:
		value = strings.TrimSpace(value)
		head, _, _ := strings.Cut(value, "+")
		out, err := strconv.Atoi(strings.TrimSpace(head))
		if err != nil {
			return nil
		}
		return &out
	default:
		return nil
	}
}
