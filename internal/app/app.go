package app

import (
	"context"
	"fmt"
	"time"

	"Social/internal/config"
	"Social/internal/metrics"
	"Social/internal/middleware"
	"Social/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type App struct {
	cfg    config.Config
	log    *zap.Logger
	db     *sqlx.DB
	pool   *pgxpool.Pool
	redis  *redis.Client
	router *gin.Engine
}

// New opens the store, applies pending migrations, connects Redis when
// configured and builds the router.
func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{cfg: cfg, log: log}

	db, pool, err := store.Open(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	a.db, a.pool = db, pool

	res, err := store.Migrate(ctx, db, cfg.DB.Driver)
	if err != nil {
		a.closeStore()
		return nil, err
	}
	for _, r := range res {
		log.Info("migration applied", zap.String("source", r.Source.Path), zap.Duration("took", r.Duration))
	}

	if cfg.Redis.Enabled() {
		rdb, err := newRedis(ctx, cfg.Redis)
		if err != nil {
			a.closeStore()
			return nil, err
		}
		a.redis = rdb
	} else {
		log.Info("redis not configured, message cache disabled")
	}

	a.router = newRouter(cfg, log, a.db, a.redis)
	return a, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

// Close releases Redis and the store. pgxpool.Close waits for acquired
// connections to be returned; if ctx ends first, Close returns ctx.Err()
// and the release finishes in the background.
func (a *App) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if a.redis != nil {
			if err := a.redis.Close(); err != nil {
				a.log.Warn("redis close", zap.Error(err))
			}
		}
		a.closeStore()
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		a.log.Warn("close timed out, resources still releasing", zap.Error(ctx.Err()))
		return ctx.Err()
	}
}

func (a *App) closeStore() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn("db close", zap.Error(err))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}

func newRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

func newRouter(cfg config.Config, log *zap.Logger, db *sqlx.DB, rdb *redis.Client) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.AccessLog(log),
		gin.Recovery(),
		metrics.Instrument(),
	)

	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.HeaderRequestID},
		ExposeHeaders: []string{"Content-Length", "Content-Type", middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}))

	Setup(r, cfg, log, db, rdb)
	return r
}
