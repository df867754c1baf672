package memory

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/fixture-sync/internal/domain/team"
)

type TeamRepository struct {
	mu     sync.RWMutex
	byName map[string]team.Team
	nextID int64
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	r := &TeamRepository{byName: make(map[string]team.Team, len(teams))}
	for _, t := range teams {
		if t.ID <= 0 {
			r.nextID++
			t.ID = r.nextID
		} else if t.ID > r.nextID {
			r.nextID = t.ID
		}
		r.byName[t.Name] = t
	}
	return r
}

func (r *TeamRepository) GetByName(_ context.Context, name string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byName[name]
	return t, ok, nil
}

func (r *TeamRepository) CreateIfAbsent(_ context.Context, item team.Team) (team.Team, bool, error) {
	if err := item.Validate(); err != nil {
		return team.Team{}, false, err
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

func (r *TeamRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}
