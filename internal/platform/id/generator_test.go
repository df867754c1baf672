package id

import (
	"strings"
	"testing"
	"time"
)

func TestRunIDGenerator_NewID(t *testing.T) {
	t.Parallel()

	g := NewRunIDGenerator(func() time.Time { return time.Date(2024, 8, 10, 14, 0, 0, 0, time.UTC) })

	first, err := g.NewID()
	if err != nil {
		t.Fatalf("NewID error: %v", err)
	}
	second, _ := g.NewID()

	if !strings.HasPrefix(first, "run_20240810T140000Z_") {
		t.Fatalf("unexpected id format: %s", first)
	}
	if len(first) != len("run_20240810T140000Z_")+8 {
		t.Fatalf("unexpected id length: %s", first)
	}
	if first == second {
		t.Fatalf("expected distinct ids, got %s twice", first)
	}
}
