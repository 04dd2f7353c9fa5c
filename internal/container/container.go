package container

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"storefront/scraper/internal/archive"
	"storefront/scraper/internal/browser"
	"storefront/scraper/internal/client"
	"storefront/scraper/internal/config"
	"storefront/scraper/internal/domain"
	"storefront/scraper/internal/proxy"
	"storefront/scraper/internal/repository"
	"storefront/scraper/internal/service"
	"storefront/scraper/internal/state"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config       *config.Config
	Launcher     browser.Launcher
	Archive      archive.Archive
	StateManager state.StateManager
	Repository   repository.RecordRepository

	Service *service.Service

	db    *pgxpool.Pool
	redis *redis.Client
}

// New creates a new container with all dependencies initialized
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	if err := ConfigureLogging(cfg.Log); err != nil {
		return nil, err
	}

	container := &Container{
		Config: cfg,
	}

	proxySupplier := proxy.NewProxySupplier(ctx, cfg.Browser.Proxies, cfg.Browser.ProxyTestURL, nil)
	container.Launcher = browser.NewChromeLauncher(cfg.Browser, proxySupplier)

	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.Database,
		})

		// Test connection
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			rdb.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Info("✅ Connected to Redis successfully")

		container.redis = rdb
		container.Archive = archive.NewRedisArchive(rdb, cfg.Redis)
		container.StateManager = state.NewRedisStateManager(rdb)
	} else {
		container.Archive = archive.NewNoopArchive()
		container.StateManager = state.NewMemoryStateManager()
	}

	if cfg.Database.Enabled {
		db, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			container.Close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		container.db = db

		recordRepo := repository.NewRecordRepository(db)
		if err := recordRepo.EnsureSchema(ctx); err != nil {
			container.Close()
			return nil, err
		}
		log.Info("✅ Connected to Postgres successfully")

		container.Repository = recordRepo
	}

	container.Service = service.NewService(
		client.NewBigBasketClient(cfg.BigBasket, container.Launcher),
		client.NewGrabClient(cfg.Grab, container.Launcher),
		container.Archive,
		container.StateManager,
		container.Repository,
		cfg.BigBasket,
		cfg.Grab,
	)

	return container, nil
}

// ConfigureLogging applies the configured level and formatter to the standard logger
func ConfigureLogging(cfg config.LogConfig) error {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	log.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "", "text":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format %q", cfg.Format)
	}
	return nil
}

func (c *Container) RunBigBasket(ctx context.Context) error {
	_, err := c.Service.RunBigBasket(ctx)
	return err
}

func (c *Container) RunGrab(ctx context.Context, location string) error {
	_, err := c.Service.RunGrab(ctx, location)
	return err
}

// RunAll runs both pipelines concurrently. The first failure cancels the other.
func (c *Container) RunAll(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return c.RunBigBasket(ctx)
	})

	g.Go(func() error {
		return c.RunGrab(ctx, "")
	})

	return g.Wait()
}

// Replay rebuilds the CSV of an archived run
func (c *Container) Replay(ctx context.Context, pipelineName, runID string) error {
	pipeline, err := domain.ParsePipeline(pipelineName)
	if err != nil {
		return err
	}
	_, err = c.Service.Replay(ctx, pipeline, runID)
	return err
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	if c.db != nil {
		c.db.Close()
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			return err
		}
	}

	log.Info("Container shut down successfully")
	return nil
}
