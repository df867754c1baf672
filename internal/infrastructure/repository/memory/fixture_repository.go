package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/fixture-sync/internal/domain/fixture"
)

type FixtureRepository struct {
	mu         sync.RWMutex
	byExternal map[int64]fixture.Fixture
	nextID     int64
}

func NewFixtureRepository(fixtures []fixture.Fixture) *FixtureRepository {
	r := &FixtureRepository{byExternal: make(map[int64]fixture.Fixture, len(fixtures))}
	for _, item := range fixtures {
		r.nextID++
		item.ID = r.nextID
		r.byExternal[item.ExternalID] = item
	}
	return r
}

func (r *FixtureRepository) GetByExternalID(_ context.Context, externalID int64) (fixture.Fixture, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byExternal[externalID]
	return item, ok, nil
}

func (r *FixtureRepository) Insert(_ context.Context, item fixture.Fixture) (int64, bool, error) {
	if err := item.Validate(); err != nil {
		return 0, false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byExternal[item.ExternalID]; ok {
		existing.ApplyMutable(item)
		r.byExternal[item.ExternalID] = existing
		return existing.ID, false, nil
	}
	r.nextID++
	item.ID = r.nextID
	r.byExternal[item.ExternalID] = item
	return item.ID, true, nil
}

func (r *FixtureRepository) UpdateMutable(_ context.Context, item fixture.Fixture) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byExternal[item.ExternalID]
	if !ok {
		return false, nil
	}
	existing.ApplyMutable(item)
	r.byExternal[item.ExternalID] = existing
	return true, nil
}

func (r *FixtureRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byExternal)
}
