package main

import (
	"context"
	"fmt"

	"github.com/jhoicas/farmlink-api/internal/application/marketplace"
	"github.com/jhoicas/farmlink-api/internal/domain/repository"
	"github.com/jhoicas/farmlink-api/internal/infrastructure/memory"
	"github.com/jhoicas/farmlink-api/internal/infrastructure/postgres"
	"github.com/jhoicas/farmlink-api/internal/infrastructure/redis"
	"github.com/jhoicas/farmlink-api/pkg/config"
	"github.com/jhoicas/farmlink-api/pkg/logger"
)

// backend repositorios y transacciones del almacenamiento elegido.
type backend struct {
	users    repository.UserRepository
	listings repository.ListingRepository
	sales    repository.SaleRepository
	messages repository.MessageRepository
	tx       marketplace.TxRunner
	ping     func(ctx context.Context) error
	close    func()
}

func openBackend(ctx context.Context, cfg *config.Config, log *logger.Logger) (*backend, error) {
	switch cfg.App.StorageBackend {
	case config.StorageMemory:
		log.Warn().Msg("backend en memoria: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return &backend{
			users:    store.Users(),
			listings: store.Listings(),
			sales:    store.Sales(),
			messages: store.Messages(),
			tx:       store,
			ping:     func(context.Context) error { return nil },
			close:    func() {},
		}, nil

	case config.StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if cfg.DB.AutoMigrate {
			if err := postgres.EnsureSchema(ctx, pool); err != nil {
				pool.Close()
				return nil, fmt.Errorf("aplicar esquema: %w", err)
			}
			log.Info().Msg("esquema de base de datos aplicado")
		}
		return &backend{
			users:    postgres.NewUserRepository(pool),
			listings: postgres.NewListingRepository(pool),
			sales:    postgres.NewSaleRepository(pool),
			messages: postgres.NewMessageRepository(pool),
			tx:       postgres.NewTxRunner(pool),
			ping:     pool.Ping,
			close:    pool.Close,
		}, nil

	default:
		return nil, fmt.Errorf("STORAGE_BACKEND desconocido: %q", cfg.App.StorageBackend)
	}
}

// revocationStore Redis si está configurado; si no, el store en memoria (una sola instancia).
func openRevocationStore(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (repository.SessionRevocationStore, func(), error) {
	if !cfg.Enabled() {
		log.Warn().Msg("REDIS_ADDR vacío: revocación de sesiones en memoria, no apta para varias instancias")
		return memory.NewRevocationStore(), func() {}, nil
	}
	store := redis.NewRevocationStore(redis.NewClient(cfg), "")
	if err := store.Ping(ctx); err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("conexión a Redis: %w", err)
	}
	log.Info().Str("addr", cfg.Addr).Msg("revocación de sesiones en Redis")
	return store, func() { _ = store.Close() }, nil
}
