package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// Generator creates opaque run identifiers.
type Generator interface {
	NewID() (string, error)
}

// RunIDGenerator yields ids like "run_20240810T140000Z_1a2b3c4d" so log lines sort by start time.
type RunIDGenerator struct {
	now func() time.Time
}

func NewRunIDGenerator(now func() time.Time) *RunIDGenerator {
	if now == nil {
		now = time.Now
	}
	return &RunIDGenerator{now: now}
}

func (g *RunIDGenerator) NewID() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return "run_" + g.now().UTC().Format("20060102T150405Z") + "_" + hex.EncodeToString(buf), nil
}
