package app

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/commerce/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/commerce/internal/health"
	"github.com/vladislavdragonenkov/commerce/internal/storage/memory"
	"github.com/vladislavdragonenkov/commerce/internal/storage/postgres"
)

// runtimeDependencies — хранилище-зависимые части приложения.
type runtimeDependencies struct {
	carts          domain.CartRepository
	orders         domain.OrderRepository
	adjustments    domain.AdjustmentRepository
	outboxRepo     domain.OutboxRepository
	tx             domain.Transactor
	storageChecker healthcheck.Checker
	closeFn        func() error
}

// initRuntimeDependencies создаёт репозитории для выбранного storage driver.
func initRuntimeDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*runtimeDependencies, error) {
	switch cfg.StorageDriver {
	case StorageDriverMemory, "":
		store := memory.NewStore()
		logger.Info("using in-memory storage")
		return &runtimeDependencies{
			carts:       memory.NewCartRepository(store),
			orders:      memory.NewOrderRepository(store),
			adjustments: memory.NewAdjustmentRepository(store),
			outboxRepo:  memory.NewOutboxRepository(store),
			tx:          store,
			storageChecker: healthcheck.NewSimpleChecker("memory", func() error {
				return nil
			}),
		}, nil

	case StorageDriverPostgres:
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("postgres storage driver requires a DSN")
		}

		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres storage: %w", err)
		}
		if cfg.PostgresAutoMigrate {
			if err := store.EnsureSchema(ctx); err != nil {
				_ = store.Close()
				return nil, fmt.Errorf("apply postgres migrations: %w", err)
			}
		}
		logger.Info("using postgres storage")

		return &runtimeDependencies{
			carts:       postgres.NewCartRepository(store),
			orders:      postgres.NewOrderRepository(store),
			adjustments: postgres.NewAdjustmentRepository(store),
			outboxRepo:  postgres.NewOutboxRepository(store),
			tx:          store,
			storageChecker: healthcheck.NewSimpleChecker("postgres", func() error {
				pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				return store.Ping(pingCtx)
			}),
			closeFn: store.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}
