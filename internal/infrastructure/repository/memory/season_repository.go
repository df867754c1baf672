package memory

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/fixture-sync/internal/domain/season"
)

type seasonKey struct {
	leagueID int64
	year     int
}

type SeasonRepository struct {
	mu     sync.RWMutex
	items  map[seasonKey]season.Season
	nextID int64
}

func NewSeasonRepository() *SeasonRepository {
	return &SeasonRepository{items: make(map[seasonKey]season.Season)}
}

func (r *SeasonRepository) GetByLeagueYear(_ context.Context, leagueID int64, year int) (season.Season, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.items[seasonKey{leagueID: leagueID, year: year}]
	return s, ok, nil
}

func (r *SeasonRepository) CreateIfAbsent(_ context.Context, item season.Season) (season.Season, bool, error) {
	if err := item.Validate(); err != nil {
		return season.Season{}, false, err
	}

	key := seasonKey{leagueID: item.LeagueID, year: item.Year}
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.items[key]; ok {
		return existing, false, nil
	}
	r.nextID++
	item.ID = r.nextID
	item.CreatedAt = time.Now().UTC()
	r.items[key] = item
	return item, true, nil
}

func (r *SeasonRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
