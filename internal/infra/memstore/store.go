// Package memstore is an in-process token store for local runs and tests.
package memstore

import (
	"context"
	"sync"

	"payment-3p/internal/domain/paymenttoken"
	"payment-3p/internal/usecase/shared"
)

// compile-time interface check
var _ shared.TokenStore = (*Store)(nil)

// Store keeps amounts in a map. The mutex stands in for the conditional
// writes a durable backend performs atomically.
type Store struct {
	mu      sync.RWMutex
	amounts map[paymenttoken.ID]int64
}

func New() *Store {
	return &Store{
		amounts: make(map[paymenttoken.ID]int64),
	}
}

func (s *Store) Get(ctx context.Context, id paymenttoken.ID) (*paymenttoken.Token, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	amount, ok := s.amounts[id]
	if !ok {
		return nil, false, nil
	}
	return paymenttoken.Reconstruct(id, paymenttoken.MustAmount(amount)), true, nil
}

func (s *Store) PutIfAbsent(ctx context.Context, token *paymenttoken.Token) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.amounts[token.ID()]; exists {
		return false, nil
	}
	s.amounts[token.ID()] = token.Amount().Minor()
	return true, nil
}

func (s *Store) CompareAndSwapAmount(ctx context.Context, id paymenttoken.ID, expected, next paymenttoken.Amount) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.amounts[id]
	if !ok || current != expected.Minor() {
		return false, nil
	}
	s.amounts[id] = next.Minor()
	return true, nil
}

func (s *Store) DeleteIfPresent(ctx context.Context, id paymenttoken.ID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.amounts[id]; !ok {
		return false, nil
	}
	delete(s.amounts, id)
	return true, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Len reports the number of active tokens.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.amounts)
}
