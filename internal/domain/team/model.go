package team

import (
	"fmt"
	"strings"
	"time"
)

// Team is a club identified by its exact name.
type Team struct {
	ID        int64
	Name      string
	National  bool
	CreatedAt time.Time
}

func (t Team) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}
	return nil
}
