package cache

import (
	"context"
	"time"

	"github.com/tallybank/tallybank/internal/config"
	ierr "github.com/tallybank/tallybank/internal/errors"
	"github.com/tallybank/tallybank/internal/logger"
	"github.com/tallybank/tallybank/internal/types"
	"go.uber.org/fx"
)

// NewCache selects the backend configured under cache.type. A disabled cache
// never stores anything.
func NewCache(lc fx.Lifecycle, cfg *config.Configuration, log *logger.Logger) (Cache, error) {
	if !cfg.Cache.Enabled {
		log.Info("cache is disabled")
		return noopCache{}, nil
	}

	switch cfg.Cache.Type {
	case types.CacheTypeRedis:
		client, err := NewRedisClient(context.Background(), cfg.Cache.RedisAddr)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHintf("Failed to connect to redis at %s", cfg.Cache.RedisAddr).
				Mark(ierr.ErrSystem)
		}
		c := NewRedisCache(client, cfg.Cache.TTL, log)
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return c.Close()
			},
		})
		log.Infow("using redis cache", "addr", cfg.Cache.RedisAddr)
		return c, nil
	default:
		log.Info("using in-memory cache")
		return NewInMemoryCache(cfg.Cache.TTL), nil
	}
}

type noopCache struct{}

func (noopCache) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (noopCache) Set(context.Context, string, []byte, time.Duration) {}
func (noopCache) Delete(context.Context, string) {}
func (noopCache) DeleteByPrefix(context.Context, string) {}
func (noopCache) Flush(context.Context) {}
