package league

import (
	"fmt"
	"strings"
	"time"
)

// DefaultType is the league type written for competitions from football-data.org.
const DefaultType = "League"

// League is a competition identified by its exact name.
type League struct {
	ID        int64
	Name      string
	Type      string
	CreatedAt time.Time
}

func (l League) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("league name is required")
	}
	if strings.TrimSpace(l.Type) == "" {
		return fmt.Errorf("league type is required")
	}
	return nil
}
