package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/fixture-sync/internal/domain/league"
	"github.com/riskibarqy/fixture-sync/internal/domain/season"
	"github.com/riskibarqy/fixture-sync/internal/domain/team"
	"github.com/riskibarqy/fixture-sync/internal/platform/cache"
	"github.com/riskibarqy/fixture-sync/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

type EntityKind string

const (
	EntityLeague EntityKind = "league"
	EntityTeam   EntityKind = "team"
	EntitySeason EntityKind = "season"
)

// EntityKey is the natural key of a dimension row. Name is used by leagues
// and teams; LeagueID and Year by seasons.
type EntityKey struct {
	Name     string
	LeagueID int64
	Year     int
}

type EntityResolverConfig struct {
	Now    func() time.Time
	Cache  *cache.Store[int64]
	Logger *logging.Logger
}

// EntityResolver finds or creates leagues, teams and seasons by natural key.
type EntityResolver struct {
	leagueRepo league.Repository
	teamRepo   team.Repository
	seasonRepo season.Repository
	cache      *cache.Store[int64]
	now        func() time.Time
	logger     *logging.Logger
}

func NewEntityResolver(
	leagueRepo league.Repository,
	teamRepo team.Repository,
	seasonRepo season.Repository,
	cfg EntityResolverConfig,
) *EntityResolver {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &EntityResolver{
		leagueRepo: leagueRepo,
		teamRepo:   teamRepo,
		seasonRepo: seasonRepo,
		cache:      cfg.Cache,
		now:        now,
		logger:     logger,
	}
}

func (r *EntityResolver) Resolve(ctx context.Context, kind EntityKind, key EntityKey) (int64, error) {
	switch kind {
	case EntityLeague:
		return r.ResolveLeague(ctx, key.Name)
	case EntityTeam:
		return r.ResolveTeam(ctx, key.Name)
	case EntitySeason:
		return r.ResolveSeason(ctx, key.LeagueID, key.Year)
	default:
		return 0, fmt.Errorf("%w: unknown entity kind %q", ErrInvalidInput, kind)
	}
}

func (r *EntityResolver) ResolveLeague(ctx context.Context, name string) (int64, error) {
	if strings.TrimSpace(name) == "" {
		return 0, fmt.Errorf("%w: league name is required", ErrInvalidInput)
	}

	return r.memo(ctx, "league:"+name, func(ctx context.Context) (int64, error) {
		ctx, span := startUsecaseSpan(ctx, "usecase.EntityResolver.ResolveLeague", attribute.String("league.name", name))
		defer span.End()

		found, ok, err := r.leagueRepo.GetByName(ctx, name)
		if err != nil {
			recordSpanError(span, err)
			return 0, fmt.Errorf("get league by name=%q: %w", name, err)
		}
		if ok {
			return found.ID, nil
		}

		stored, created, err := r.leagueRepo.CreateIfAbsent(ctx, league.League{Name: name, Type: league.DefaultType})
		if err != nil {
			recordSpanError(span, err)
			return 0, fmt.Errorf("create league name=%q: %w", name, err)
		}
		if created {
			r.logger.InfoContext(ctx, "created league", "league_id", stored.ID, "name", name)
		}
		return stored.ID, nil
	})
}

func (r *EntityResolver) ResolveTeam(ctx context.Context, name string) (int64, error) {
	if strings.TrimSpace(name) == "" {
		return 0, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}

	return r.memo(ctx, "team:"+name, func(ctx context.Context) (int64, error) {
		ctx, span := startUsecaseSpan(ctx, "usecase.EntityResolver.ResolveTeam", attribute.String("team.name", name))
		defer span.End()

		found, ok, err := r.teamRepo.GetByName(ctx, name)
		if err != nil {
			recordSpanError(span, err)
			return 0, fmt.Errorf("get team by name=%q: %w", name, err)
		}
		if ok {
			return found.ID, nil
		}

		stored, created, err := r.teamRepo.CreateIfAbsent(ctx, team.Team{Name: name, National: false})
		if err != nil {
			recordSpanError(span, err)
			return 0, fmt.Errorf("create team name=%q: %w", name, err)
		}
		if created {
			r.logger.InfoContext(ctx, "created team", "team_id", stored.ID, "name", name)
		}
		return stored.ID, nil
	})
}

func (r *EntityResolver) ResolveSeason(ctx context.Context, leagueID int64, year int) (int64, error) {
	item := season.New(leagueID, year, r.now())
	if err := item.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	key := "season:" + strconv.FormatInt(leagueID, 10) + ":" + strconv.Itoa(year)
	return r.memo(ctx, key, func(ctx context.Context) (int64, error) {
		ctx, span := startUsecaseSpan(ctx, "usecase.EntityResolver.ResolveSeason",
			attribute.Int64("league.id", leagueID),
			attribute.Int("season.year", year),
		)
		defer span.End()

		found, ok, err := r.seasonRepo.GetByLeagueYear(ctx, leagueID, year)
		if err != nil {
			recordSpanError(span, err)
			return 0, fmt.Errorf("get season league_id=%d year=%d: %w", leagueID, year, err)
		}
		if ok {
			return found.ID, nil
		}

		stored, created, err := r.seasonRepo.CreateIfAbsent(ctx, item)
		if err != nil {
			recordSpanError(span, err)
			return 0, fmt.Errorf("create season league_id=%d year=%d: %w", leagueID, year, err)
		}
		if created {
			r.logger.InfoContext(ctx, "created season",
				"season_id", stored.ID,
				"league_id", leagueID,
				"year", year,
				"current", stored.Current,
			)
		}
		return stored.ID, nil
	})
}

func (r *EntityResolver) memo(ctx context.Context, key string, load func(context.Context) (int64, error)) (int64, error) {
	if r.cache == nil {
		return load(ctx)
	}

	return r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (int64, error) {
		id, err := load(ctx)
		if err != nil {
			return 0, err
		}
		if id <= 0 {
			return 0, fmt.Errorf("resolved %s to non-positive id %d", key, id)
		}
		return id, nil
	})
}
