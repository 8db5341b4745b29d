package queries

import (
	"context"
	"time"

	"payment-3p/internal/domain/paymenttoken"
	"payment-3p/internal/pkg/config"
	"payment-3p/internal/pkg/metrics"
	"payment-3p/internal/usecase/shared"
)

const opVerify = "verify"

type PaymentTokenQueries interface {
	// Verify reports whether the token exists and still covers amount. An
	// unknown or consumed token is false, not an error.
	Verify(ctx context.Context, id paymenttoken.ID, amount paymenttoken.Amount) (bool, error)
}

type paymentTokenQueriesImpl struct {
	store    shared.TokenStore
	cfg      config.LedgerConfig
	recorder metrics.Recorder
}

func NewPaymentTokenQueries(store shared.TokenStore, cfg config.LedgerConfig, recorder metrics.Recorder) PaymentTokenQueries {
	if recorder == nil {
		recorder = metrics.NopRecorder{}
	}
	return &paymentTokenQueriesImpl{
		store:    store,
		cfg:      cfg,
		recorder: recorder,
	}
}

func (q *paymentTokenQueriesImpl) Verify(ctx context.Context, id paymenttoken.ID, amount paymenttoken.Amount) (bool, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, q.cfg.StoreTimeout)
	defer cancel()

	ok, err := q.verify(ctx, id, amount)
	q.recorder.ObserveLedgerOperation(opVerify, shared.OutcomeOf(ok, err), time.Since(start))
	return ok, err
}

func (q *paymentTokenQueriesImpl) verify(ctx context.Context, id paymenttoken.ID, amount paymenttoken.Amount) (bool, error) {
	token, found, err := q.store.Get(ctx, id)
	if err != nil {
		return false, shared.StoreUnavailable(err)
	}
	if !found {
		return false, nil
	}
	return token.Covers(amount), nil
}
