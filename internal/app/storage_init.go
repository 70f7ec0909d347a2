package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/fanwaves/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/fanwaves/internal/health"
	"github.com/vladislavdragonenkov/fanwaves/internal/storage/file"
	"github.com/vladislavdragonenkov/fanwaves/internal/storage/memory"
	"github.com/vladislavdragonenkov/fanwaves/internal/storage/postgres"
	"github.com/vladislavdragonenkov/fanwaves/internal/storage/redis"
)

// storageDependencies: слот снапшотов выбранного драйвера.
type storageDependencies struct {
	snapshots      domain.SnapshotRepository
	storageChecker healthcheck.Checker
	closeFn        func() error
}

func initStorage(ctx context.Context, cfg Config, logger *log.Entry) (*storageDependencies, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.StorageDriver))

	switch driver {
	case StorageDriverMemory:
		snapshots := memory.NewSnapshotRepository()
		return &storageDependencies{
			snapshots:      snapshots,
			storageChecker: probeChecker(snapshots, cfg.CartKey),
		}, nil

	case "", StorageDriverFile:
		path := cfg.StoragePath
		if path == "" {
			path = DefaultConfig().StoragePath
		}
		snapshots := file.NewSnapshotRepository(path)
		logger.WithField("path", path).Debug("file snapshot storage initialized")
		return &storageDependencies{
			snapshots:      snapshots,
			storageChecker: healthcheck.NewDegradingChecker("snapshot-store", snapshots.Ping),
		}, nil

	case StorageDriverPostgres:
		if cfg.PostgresDSN == "" {
			return nil, errors.New("postgres storage requires PostgresDSN")
		}
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if cfg.PostgresAutoMigrate {
			if err := store.MigrateUp(ctx, 0); err != nil {
				_ = store.Close()
				return nil, fmt.Errorf("apply postgres migrations: %w", err)
			}
		}
		snapshots := postgres.NewSnapshotRepository(store)
		logger.Info("postgres snapshot storage initialized")
		return &storageDependencies{
			snapshots: snapshots,
			storageChecker: healthcheck.NewDegradingChecker("snapshot-store", func() error {
				return store.Ping(context.Background())
			}),
			closeFn: store.Close,
		}, nil

	case StorageDriverRedis:
		snapshots, err := redis.Open(ctx, redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.RedisTTL,
		})
		if err != nil {
			return nil, err
		}
		logger.WithField("addr", cfg.RedisAddr).Info("redis snapshot storage initialized")
		return &storageDependencies{
			snapshots:      snapshots,
			storageChecker: healthcheck.NewDegradingChecker("snapshot-store", snapshots.Ping),
			closeFn:        snapshots.Close,
		}, nil

	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedStorage, cfg.StorageDriver)
	}
}

// probeChecker проверяет, что слот читается; пустой слот: норма.
func probeChecker(snapshots domain.SnapshotRepository, key string) healthcheck.Checker {
	return healthcheck.NewDegradingChecker("snapshot-store", func() error {
		if pinger, ok := snapshots.(domain.Pinger); ok {
			return pinger.Ping()
		}
		_, err := snapshots.Load(key)
		if err != nil && !domain.IsSnapshotNotFound(err) {
			return err
		}
		return nil
	})
}
