package router

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shelter-adoptions/internal/adapters/storage/memory"
	pg "shelter-adoptions/internal/adapters/storage/postgres"
	"shelter-adoptions/internal/adapters/storage/sqldb"
	"shelter-adoptions/internal/adapters/storage/sqlite"
	"shelter-adoptions/internal/domain/adoptions"
	"shelter-adoptions/internal/domain/dogs"
	"shelter-adoptions/internal/domain/history"
	"shelter-adoptions/internal/platform/config"

	"github.com/redis/go-redis/v9"
)

// Storage es lo que ofrecen por igual el store en memoria y los SQL.
type Storage interface {
	adoptions.Store
	Dogs() dogs.Repository
	Applications() adoptions.Repository
	History() history.Repository
	DogIDs(ctx context.Context) ([]string, error)
}

var (
	_ Storage = (*memory.Store)(nil)
	_ Storage = (*sqldb.Store)(nil)
)

// Backend agrupa las dependencias externas del proceso. Redis es nil si no
// está configurado.
type Backend struct {
	Storage Storage
	Redis   redis.UniversalClient

	closers []func() error
}

// NewMemoryBackend es el backend de desarrollo y de tests.
func NewMemoryBackend() *Backend {
	return &Backend{Storage: memory.NewStore()}
}

// OpenBackend abre la base según cfg.DB.Driver y, si hay REDIS_ADDR, el cliente
// Redis. Con migrate aplica el esquema (idempotente).
func OpenBackend(ctx context.Context, cfg config.Config, migrate bool) (*Backend, error) {
	b := &Backend{}

	switch cfg.DB.Driver {
	case config.DriverPostgres:
		db, err := pg.Open(cfg.DB.DSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		b.closers = append(b.closers, db.Close)
		if err := b.migrate(ctx, migrate, db, pg.Migrate); err != nil {
			return nil, err
		}
		b.Storage = pg.New(db)
	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.DB.DSN)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, db.Close)
		if err := b.migrate(ctx, migrate, db, sqlite.Migrate); err != nil {
			return nil, err
		}
		b.Storage = sqlite.New(db)
	default:
		b.Storage = memory.NewStore()
	}

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		b.closers = append(b.closers, client.Close)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = b.Close()
			return nil, fmt.Errorf("ping redis %s: %w", cfg.Redis.Addr, err)
		}
		b.Redis = client
	}

	return b, nil
}

func (b *Backend) migrate(ctx context.Context, enabled bool, db *sql.DB, fn func(context.Context, *sql.DB) error) error {
	if !enabled {
		return nil
	}
	if err := fn(ctx, db); err != nil {
		_ = b.Close()
		return err
	}
	return nil
}

// Close cierra en orden inverso al de apertura.
func (b *Backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		errs = append(errs, b.closers[i]())
	}
	b.closers = nil
	return errors.Join(errs...)
}
