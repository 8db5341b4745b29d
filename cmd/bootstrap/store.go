package bootstrap

import (
	"fmt"
	"log/slog"

	"payment-3p/cmd/bootstrap/components"
	"payment-3p/internal/pkg/config"

	"go.uber.org/fx"
)

var StoreModule = fx.Module("store",
	fx.Provide(
		NewTokenStore,
	),
)

func NewTokenStore(lc fx.Lifecycle, cfg config.Config) (components.TokenStoreResult, error) {
	slog.Info("token store selected", "driver", cfg.Store.Driver)

	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		pool, err := NewDB(lc, cfg)
		if err != nil {
			return components.TokenStoreResult{}, err
		}
		return components.PostgresTokenStore(pool), nil
	case config.StoreDriverMongo:
		return components.MongoTokenStore(lc, cfg)
	case config.StoreDriverDynamoDB:
		return components.DynamoTokenStore(cfg)
	case config.StoreDriverMemory:
		return components.MemoryTokenStore(), nil
	default:
		return components.TokenStoreResult{}, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver)
	}
}
