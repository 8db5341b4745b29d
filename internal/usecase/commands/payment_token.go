package commands

import (
	"context"
	"time"

	"payment-3p/internal/domain/paymenttoken"
	"payment-3p/internal/pkg/config"
	"payment-3p/internal/pkg/metrics"
	"payment-3p/internal/usecase/shared"
)

const (
	opIssue  = "issue"
	opReduce = "reduce"
)

// PaymentTokenCommands mutates the ledger. A false result is an ordinary
// refusal; errors are marked shared.ErrStoreUnavailable or
// shared.ErrContentionExhausted.
type PaymentTokenCommands interface {
	Issue(ctx context.Context, amount paymenttoken.Amount) (paymenttoken.ID, error)
	Reduce(ctx context.Context, id paymenttoken.ID, amount paymenttoken.Amount) (bool, error)
	Consume(ctx context.Context, id paymenttoken.ID, kind paymenttoken.ConsumeKind) (bool, error)
}

type paymentTokenCommandsImpl struct {
	store    shared.TokenStore
	cfg      config.LedgerConfig
	recorder metrics.Recorder
}

func NewPaymentTokenCommands(store shared.TokenStore, cfg config.LedgerConfig, recorder metrics.Recorder) PaymentTokenCommands {
	if recorder == nil {
		recorder = metrics.NopRecorder{}
	}
	return &paymentTokenCommandsImpl{
		store:    store,
		cfg:      cfg,
		recorder: recorder,
	}
}

func (u *paymentTokenCommandsImpl) Issue(ctx context.Context, amount paymenttoken.Amount) (paymenttoken.ID, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, u.cfg.StoreTimeout)
	defer cancel()

	token := paymenttoken.NewToken(amount)
	id, err := shared.RunWithRetry(ctx, opIssue, u.policy(u.cfg.IssueMaxAttempts), u.onRetry(opIssue),
		func(ctx context.Context, attempt int) (paymenttoken.ID, bool, error) {
			if attempt > 1 {
				token = token.WithNewID()
			}
			created, err := u.store.PutIfAbsent(ctx, token)
			if err != nil {
				return "", false, shared.StoreUnavailable(err)
			}
			return token.ID(), !created, nil
		})

	u.recorder.ObserveLedgerOperation(opIssue, shared.OutcomeOf(err == nil, err), time.Since(start))
	if err != nil {
		return "", err
	}
	return id, nil
}

func (u *paymentTokenCommandsImpl) Reduce(ctx context.Context, id paymenttoken.ID, amount paymenttoken.Amount) (bool, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, u.cfg.StoreTimeout)
	defer cancel()

	ok, err := shared.RunWithRetry(ctx, opReduce, u.policy(u.cfg.ReduceMaxAttempts), u.onRetry(opReduce),
		func(ctx context.Context, _ int) (bool, bool, error) {
			token, found, err := u.store.Get(ctx, id)
			if err != nil {
				return false, false, shared.StoreUnavailable(err)
			}
			if !found {
				return false, false, nil
			}

			next, err := token.ReduceTo(amount)
			if err != nil {
				// raising is refused, not failed
				return false, false, nil
			}

			applied, err := u.store.CompareAndSwapAmount(ctx, id, token.Amount(), next)
			if err != nil {
				return false, false, shared.StoreUnavailable(err)
			}
			return applied, !applied, nil
		})

	u.recorder.ObserveLedgerOperation(opReduce, shared.OutcomeOf(ok, err), time.Since(start))
	if err != nil {
		return false, err
	}
	return ok, nil
}

// Consume removes the token. Of any number of racing callers exactly one
// sees true. kind only labels metrics.
func (u *paymentTokenCommandsImpl) Consume(ctx context.Context, id paymenttoken.ID, kind paymenttoken.ConsumeKind) (bool, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, u.cfg.StoreTimeout)
	defer cancel()

	op := "consume_" + kind.String()
	deleted, err := u.store.DeleteIfPresent(ctx, id)
	if err != nil {
		err = shared.StoreUnavailable(err)
	}

	u.recorder.ObserveLedgerOperation(op, shared.OutcomeOf(deleted, err), time.Since(start))
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (u *paymentTokenCommandsImpl) policy(maxAttempts int) shared.RetryPolicy {
	return shared.RetryPolicy{
		MaxAttempts:     maxAttempts,
		InitialInterval: u.cfg.RetryBackoffInitial,
		MaxInterval:     u.cfg.RetryBackoffMax,
	}
}

func (u *paymentTokenCommandsImpl) onRetry(op string) func() {
	return func() {
		u.recorder.ObserveRetry(op)
	}
}
