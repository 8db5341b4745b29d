package shared

import (
	"payment-3p/internal/pkg/errs"
	"payment-3p/internal/pkg/metrics"
)

var (
	// ErrStoreUnavailable marks backend I/O failures and timeouts.
	ErrStoreUnavailable = errs.New("token store unavailable")
	// ErrContentionExhausted marks an operation that lost every bounded attempt.
	ErrContentionExhausted = errs.New("contention exhausted")
)

// StoreUnavailable keeps the cause chain and marks it for errors.Is checks.
func StoreUnavailable(err error) error {
	return errs.Mark(err, ErrStoreUnavailable)
}

// OutcomeOf classifies a finished ledger operation for metrics.
func OutcomeOf(ok bool, err error) metrics.Outcome {
	switch {
	case err == nil && ok:
		return metrics.OutcomeAccepted
	case err == nil:
		return metrics.OutcomeRejected
	case errs.Is(err, ErrContentionExhausted):
		return metrics.OutcomeContentionExhausted
	default:
		return metrics.OutcomeStoreUnavailable
	}
}
