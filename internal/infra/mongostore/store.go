// Package mongostore keeps payment tokens in a MongoDB collection, one
// document per active token keyed by the token id.
package mongostore

import (
	"context"
	"errors"
	"time"

	"payment-3p/internal/domain/paymenttoken"
	"payment-3p/internal/infra"
	"payment-3p/internal/pkg/config"
	"payment-3p/internal/usecase/shared"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// compile-time interface check
var _ shared.TokenStore = (*Store)(nil)

type tokenModel struct {
	ID        string    `bson:"_id"`
	Amount    int64     `bson:"amount"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type Store struct {
	client *mongo.Client
	col    *mongo.Collection
}

// Connect opens a client for cfg.URI and pings the primary.
func Connect(ctx context.Context, cfg config.MongoConfig) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to connect to mongo", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, infra.WrapRepoErr("failed to ping mongo", err)
	}

	return New(client, cfg.Database, cfg.Collection), nil
}

func New(client *mongo.Client, database, collection string) *Store {
	return &Store{
		client: client,
		col:    client.Database(database).Collection(collection),
	}
}

func (s *Store) Get(ctx context.Context, id paymenttoken.ID) (*paymenttoken.Token, bool, error) {
	var m tokenModel
	err := s.col.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, false, nil
		}
		return nil, false, infra.WrapRepoErr("failed to find payment token", err)
	}

	amount, err := paymenttoken.NewAmount(m.Amount)
	if err != nil {
		return nil, false, infra.WrapRepoErr("stored payment token is invalid", err, infra.KindCorruptRecord)
	}
	return paymenttoken.Reconstruct(id, amount), true, nil
}

func (s *Store) PutIfAbsent(ctx context.Context, token *paymenttoken.Token) (bool, error) {
	now := time.Now().UTC()
	_, err := s.col.InsertOne(ctx, tokenModel{
		ID:        token.ID().String(),
		Amount:    token.Amount().Minor(),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, infra.WrapRepoErr("failed to insert payment token", err)
	}
	return true, nil
}

func (s *Store) CompareAndSwapAmount(ctx context.Context, id paymenttoken.ID, expected, next paymenttoken.Amount) (bool, error) {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": id.String(), "amount": expected.Minor()},
		bson.M{"$set": bson.M{"amount": next.Minor(), "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to update payment token amount", err)
	}
	return res.MatchedCount == 1, nil
}

func (s *Store) DeleteIfPresent(ctx context.Context, id paymenttoken.ID) (bool, error) {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return false, infra.WrapRepoErr("failed to delete payment token", err)
	}
	return res.DeletedCount == 1, nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return infra.WrapRepoErr("mongo ping failed", err)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Drop removes every token. Used by tests between cases.
func (s *Store) Drop(ctx context.Context) error {
	_, err := s.col.DeleteMany(ctx, bson.M{})
	return err
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
