package memory

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/fixture-sync/internal/domain/league"
)

type LeagueRepository struct {
	mu     sync.RWMutex
	byName map[string]league.League
	nextID int64
}

func NewLeagueRepository(leagues []league.League) *LeagueRepository {
	r := &LeagueRepository{byName: make(map[string]league.League, len(leagues))}
	for _, l := range leagues {
		if l.ID <= 0 {
			r.nextID++
			l.ID = r.nextID
		} else if l.ID > r.nextID {
			r.nextID = l.ID
		}
		r.byName[l.Name] = l
	}
	return r
}

func (r *LeagueRepository) GetByName(_ context.Context, name string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.byName[name]
	return l, ok, nil
}

func (r *LeagueRepository) CreateIfAbsent(_ context.Context, item league.League) (league.League, bool, error) {
	if err := item.Validate(); err != nil {
		return league.League{}, false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byName[item.Name]; ok {
		return existing, false, nil
	}
	r.nextID++
	item.ID = r.nextID
	item.CreatedAt = time.Now().UTC()
	r.byName[item.Name] = item
	return item, true, nil
}

func (r *LeagueRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}
