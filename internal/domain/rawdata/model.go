package rawdata

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Payload is one archived upstream document.
type Payload struct {
	Source      string
	EntityType  string
	EntityKey   string
	PayloadJSON string
	PayloadHash string
	IngestedAt  time.Time
}

// HashPayload returns the hex sha256 of a raw payload.
func HashPayload(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
