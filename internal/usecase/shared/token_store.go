package shared

import (
	"context"

	"payment-3p/internal/domain/paymenttoken"
)

// TokenStore is the durable map from token id to reserved amount. Every write
// is conditional and atomic in the backend; callers never lock around it.
type TokenStore interface {
	// Get reports found=false for an unknown id. A backend failure is an
	// error, never a miss.
	Get(ctx context.Context, id paymenttoken.ID) (*paymenttoken.Token, bool, error)
	// PutIfAbsent inserts token only when no record exists for its id.
	PutIfAbsent(ctx context.Context, token *paymenttoken.Token) (bool, error)
	// CompareAndSwapAmount replaces the amount only if the stored amount equals
	// expected. A changed or missing record is applied=false, not an error.
	CompareAndSwapAmount(ctx context.Context, id paymenttoken.ID, expected, next paymenttoken.Amount) (bool, error)
	// DeleteIfPresent removes the record and reports whether this call did it.
	DeleteIfPresent(ctx context.Context, id paymenttoken.ID) (bool, error)
}

type HealthChecker interface {
	Ping(ctx context.Context) error
}
