package components

import (
	"context"
	"log/slog"

	"payment-3p/internal/infra/dynamostore"
	"payment-3p/internal/infra/memstore"
	"payment-3p/internal/infra/mongostore"
	"payment-3p/internal/infra/repository"
	sqlc "payment-3p/internal/infra/sqlc/generated"
	"payment-3p/internal/pkg/config"
	"payment-3p/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

// TokenStoreResult publishes one backend as both the ledger's store and the
// health endpoint's checker.
type TokenStoreResult struct {
	fx.Out

	Store  shared.TokenStore
	Health shared.HealthChecker
}

type tokenStore interface {
	shared.TokenStore
	shared.HealthChecker
}

func newTokenStoreResult(s tokenStore) TokenStoreResult {
	return TokenStoreResult{Store: s, Health: s}
}

func NewSQLQueries() *sqlc.Queries {
	return sqlc.New()
}

func NewDBTX(pool *pgxpool.Pool) sqlc.DBTX {
	return pool
}

func PostgresTokenStore(pool *pgxpool.Pool) TokenStoreResult {
	return newTokenStoreResult(repository.NewPaymentTokenRepository(NewSQLQueries(), NewDBTX(pool)))
}

func MongoTokenStore(lc fx.Lifecycle, cfg config.Config) (TokenStoreResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Ledger.StoreTimeout)
	defer cancel()

	store, err := mongostore.Connect(ctx, cfg.Mongo)
	if err != nil {
		return TokenStoreResult{}, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Info("mongo client closing")
			return store.Close(ctx)
		},
	})
	return newTokenStoreResult(store), nil
}

func DynamoTokenStore(cfg config.Config) (TokenStoreResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Ledger.StoreTimeout)
	defer cancel()

	store, err := dynamostore.Connect(ctx, cfg.Dynamo)
	if err != nil {
		return TokenStoreResult{}, err
	}
	return newTokenStoreResult(store), nil
}

func MemoryTokenStore() TokenStoreResult {
	slog.Warn("using in-memory token store; tokens are lost on restart")
	return newTokenStoreResult(memstore.New())
}
