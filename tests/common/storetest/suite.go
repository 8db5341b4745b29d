//go:build unit || e2e

// Package storetest holds the behaviour every shared.TokenStore backend must
// show. Backends run it with their own factory.
package storetest

import (
	"context"
	"sync"
	"sync/atomic"

	"payment-3p/internal/domain/paymenttoken"
	"payment-3p/internal/usecase/shared"

	"github.com/stretchr/testify/suite"
)

type Suite struct {
	suite.Suite

	// NewStore returns an empty store for each test.
	NewStore func() shared.TokenStore

	store shared.TokenStore
	ctx   context.Context
}

func (s *Suite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.NewStore()
}

func (s *Suite) put(amount int64) *paymenttoken.Token {
	token := paymenttoken.NewToken(paymenttoken.MustAmount(amount))
	created, err := s.store.PutIfAbsent(s.ctx, token)
	s.Require().NoError(err)
	s.Require().True(created)
	return token
}

func (s *Suite) amountOf(id paymenttoken.ID) int64 {
	token, found, err := s.store.Get(s.ctx, id)
	s.Require().NoError(err)
	s.Require().True(found)
	return token.Amount().Minor()
}

func (s *Suite) TestGetUnknown() {
	for _, id := range []paymenttoken.ID{paymenttoken.NewID(), "TOKEN"} {
		token, found, err := s.store.Get(s.ctx, id)
		s.NoError(err)
		s.False(found)
		s.Nil(token)
	}
}

func (s *Suite) TestPutIfAbsent() {
	token := s.put(3000)

	got, found, err := s.store.Get(s.ctx, token.ID())
	s.Require().NoError(err)
	s.Require().True(found)
	s.Equal(token.ID(), got.ID())
	s.Equal(int64(3000), got.Amount().Minor())

	s.Run("second insert with the same id is refused", func() {
		dup := paymenttoken.Reconstruct(token.ID(), paymenttoken.MustAmount(1))
		created, err := s.store.PutIfAbsent(s.ctx, dup)
		s.NoError(err)
		s.False(created)
		s.Equal(int64(3000), s.amountOf(token.ID()))
	})

	s.Run("zero amount is stored", func() {
		zero := s.put(0)
		s.Equal(int64(0), s.amountOf(zero.ID()))
	})
}

func (s *Suite) TestCompareAndSwapAmount() {
	token := s.put(3000)

	applied, err := s.store.CompareAndSwapAmount(s.ctx, token.ID(), paymenttoken.MustAmount(3000), paymenttoken.MustAmount(2000))
	s.Require().NoError(err)
	s.True(applied)
	s.Equal(int64(2000), s.amountOf(token.ID()))

	s.Run("stale expected amount", func() {
		applied, err := s.store.CompareAndSwapAmount(s.ctx, token.ID(), paymenttoken.MustAmount(3000), paymenttoken.MustAmount(1000))
		s.NoError(err)
		s.False(applied)
		s.Equal(int64(2000), s.amountOf(token.ID()))
	})

	s.Run("unknown id", func() {
		applied, err := s.store.CompareAndSwapAmount(s.ctx, paymenttoken.NewID(), paymenttoken.MustAmount(0), paymenttoken.MustAmount(0))
		s.NoError(err)
		s.False(applied)
	})
}

func (s *Suite) TestDeleteIfPresent() {
	token := s.put(3000)

	deleted, err := s.store.DeleteIfPresent(s.ctx, token.ID())
	s.Require().NoError(err)
	s.True(deleted)

	_, found, err := s.store.Get(s.ctx, token.ID())
	s.NoError(err)
	s.False(found)

	deleted, err = s.store.DeleteIfPresent(s.ctx, token.ID())
	s.NoError(err)
	s.False(deleted)
}

func (s *Suite) TestConcurrentDeleteRemovesOnce() {
	token := s.put(3000)

	const workers = 16
	var wins atomic.Int32
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			deleted, err := s.store.DeleteIfPresent(s.ctx, token.ID())
			if err == nil && deleted {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), wins.Load())
}

func (s *Suite) TestConcurrentSwapAppliesOnce() {
	token := s.put(3000)

	const workers = 16
	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func(next int64) {
			defer wg.Done()
			applied, err := s.store.CompareAndSwapAmount(s.ctx, token.ID(), paymenttoken.MustAmount(3000), paymenttoken.MustAmount(next))
			if err == nil && applied {
				wins.Add(1)
			}
		}(int64(i))
	}
	wg.Wait()

	s.Equal(int32(1), wins.Load())
	s.Less(s.amountOf(token.ID()), int64(workers))
}
