//go:build unit

package memstore_test

import (
	"context"
	"testing"

	"payment-3p/internal/domain/paymenttoken"
	"payment-3p/internal/infra/memstore"
	"payment-3p/internal/usecase/shared"
	"payment-3p/tests/common/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestStoreConformance(t *testing.T) {
	suite.Run(t, &storetest.Suite{
		NewStore: func() shared.TokenStore { return memstore.New() },
	})
}

func TestStoreHonoursCancelledContext(t *testing.T) {
	store := memstore.New()
	token := paymenttoken.NewToken(paymenttoken.MustAmount(10))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.PutIfAbsent(ctx, token)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, store.Len())
	assert.ErrorIs(t, store.Ping(ctx), context.Canceled)
}
