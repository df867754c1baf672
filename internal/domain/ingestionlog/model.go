package ingestionlog

import "time"

type Status string

const (
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Run is one row of data_ingestion_log.
type Run struct {
	ID               int64
	Source           string
	EntityType       string
	Status           Status
	RecordsProcessed int
	ErrorMessage     *string
	StartedAt        time.Time
	CompletedAt      *time.Time
	CreatedAt        time.Time
}

func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusFailure
}
