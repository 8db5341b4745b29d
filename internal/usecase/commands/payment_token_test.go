//go:build unit

package commands_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"payment-3p/internal/domain/paymenttoken"
	"payment-3p/internal/infra/memstore"
	"payment-3p/internal/pkg/config"
	"payment-3p/internal/pkg/errs"
	"payment-3p/internal/pkg/metrics"
	"payment-3p/internal/usecase/commands"
	"payment-3p/internal/usecase/queries"
	"payment-3p/internal/usecase/shared"
	sharedmock "payment-3p/tests/mock/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type observation struct {
	op      string
	outcome metrics.Outcome
}

type spyRecorder struct {
	mu      sync.Mutex
	ops     []observation
	retries map[string]int
}

func newSpyRecorder() *spyRecorder {
	return &spyRecorder{retries: make(map[string]int)}
}

func (r *spyRecorder) ObserveLedgerOperation(op string, outcome metrics.Outcome, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, observation{op: op, outcome: outcome})
}

func (r *spyRecorder) ObserveRetry(op string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.retries[op]++
}

func (r *spyRecorder) last() observation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ops[len(r.ops)-1]
}

func amount(minor int64) paymenttoken.Amount {
	return paymenttoken.MustAmount(minor)
}

// Ledger behaviour against the in-memory store

type LedgerTestSuite struct {
	suite.Suite
	ctx      context.Context
	store    *memstore.Store
	recorder *spyRecorder
	commands commands.PaymentTokenCommands
	queries  queries.PaymentTokenQueries
}

func (s *LedgerTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memstore.New()
	s.recorder = newSpyRecorder()
	cfg := config.NewTestConfig().Ledger
	s.commands = commands.NewPaymentTokenCommands(s.store, cfg, s.recorder)
	s.queries = queries.NewPaymentTokenQueries(s.store, cfg, s.recorder)
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerTestSuite))
}

func (s *LedgerTestSuite) verify(id paymenttoken.ID, minor int64) bool {
	ok, err := s.queries.Verify(s.ctx, id, amount(minor))
	s.Require().NoError(err)
	return ok
}

func (s *LedgerTestSuite) TestIssueThenVerify() {
	id, err := s.commands.Issue(s.ctx, amount(3000))
	s.Require().NoError(err)
	s.NotEmpty(id)

	s.True(s.verify(id, 3000))
	s.True(s.verify(id, 1))
	s.False(s.verify(id, 3001))
	s.Equal(observation{op: "issue", outcome: metrics.OutcomeAccepted}, s.recorder.ops[0])
}

func (s *LedgerTestSuite) TestIssueZeroAmount() {
	id, err := s.commands.Issue(s.ctx, amount(0))
	s.Require().NoError(err)

	s.True(s.verify(id, 0))
	s.False(s.verify(id, 1))
}

func (s *LedgerTestSuite) TestIssueDistinctIDs() {
	seen := make(map[paymenttoken.ID]struct{})
	for range 50 {
		id, err := s.commands.Issue(s.ctx, amount(10))
		s.Require().NoError(err)
		seen[id] = struct{}{}
	}
	s.Len(seen, 50)
	s.Equal(50, s.store.Len())
}

func (s *LedgerTestSuite) TestReduce() {
	id, err := s.commands.Issue(s.ctx, amount(3000))
	s.Require().NoError(err)

	s.Run("raise is refused and leaves the amount", func() {
		ok, err := s.commands.Reduce(s.ctx, id, amount(4000))
		s.Require().NoError(err)
		s.False(ok)
		s.Equal(observation{op: "reduce", outcome: metrics.OutcomeRejected}, s.recorder.last())
		s.True(s.verify(id, 3000))
	})

	s.Run("same amount is allowed", func() {
		ok, err := s.commands.Reduce(s.ctx, id, amount(3000))
		s.Require().NoError(err)
		s.True(ok)
	})

	s.Run("lower amount is applied", func() {
		ok, err := s.commands.Reduce(s.ctx, id, amount(2000))
		s.Require().NoError(err)
		s.True(ok)
		s.True(s.verify(id, 2000))
		s.False(s.verify(id, 2001))
	})

	s.Run("unknown id", func() {
		ok, err := s.commands.Reduce(s.ctx, paymenttoken.NewID(), amount(1))
		s.Require().NoError(err)
		s.False(ok)
	})
}

func (s *LedgerTestSuite) TestConsume() {
	id, err := s.commands.Issue(s.ctx, amount(3000))
	s.Require().NoError(err)

	ok, err := s.commands.Consume(s.ctx, id, paymenttoken.ConsumeCapture)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(observation{op: "consume_capture", outcome: metrics.OutcomeAccepted}, s.recorder.last())

	ok, err = s.commands.Consume(s.ctx, id, paymenttoken.ConsumeCancel)
	s.Require().NoError(err)
	s.False(ok)
	s.Equal(observation{op: "consume_cancel", outcome: metrics.OutcomeRejected}, s.recorder.last())

	s.False(s.verify(id, 0))
	ok, err = s.commands.Reduce(s.ctx, id, amount(0))
	s.Require().NoError(err)
	s.False(ok)
}

func (s *LedgerTestSuite) TestUnknownIDsAreMisses() {
	for _, id := range []paymenttoken.ID{paymenttoken.NewID(), "TOKEN"} {
		s.False(s.verify(id, 0))

		ok, err := s.commands.Reduce(s.ctx, id, amount(0))
		s.NoError(err)
		s.False(ok)

		ok, err = s.commands.Consume(s.ctx, id, paymenttoken.ConsumeCapture)
		s.NoError(err)
		s.False(ok)
	}
}

func (s *LedgerTestSuite) TestAuthorizationScenario() {
	id, err := s.commands.Issue(s.ctx, amount(3000))
	s.Require().NoError(err)

	s.True(s.verify(id, 3000))
	s.False(s.verify(id, 4000))

	ok, err := s.commands.Reduce(s.ctx, id, amount(4000))
	s.Require().NoError(err)
	s.False(ok)

	ok, err = s.commands.Reduce(s.ctx, id, amount(2000))
	s.Require().NoError(err)
	s.True(ok)
	s.True(s.verify(id, 2000))
	s.False(s.verify(id, 3000))

	ok, err = s.commands.Consume(s.ctx, id, paymenttoken.ConsumeCapture)
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.commands.Consume(s.ctx, id, paymenttoken.ConsumeCapture)
	s.Require().NoError(err)
	s.False(ok)
	s.False(s.verify(id, 2000))
}

func (s *LedgerTestSuite) TestConcurrentConsumeSucceedsOnce() {
	id, err := s.commands.Issue(s.ctx, amount(3000))
	s.Require().NoError(err)

	const callers = 32
	results := make(chan bool, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		kind := paymenttoken.ConsumeCapture
		if i%2 == 1 {
			kind = paymenttoken.ConsumeCancel
		}
		go func() {
			defer wg.Done()
			ok, err := s.commands.Consume(s.ctx, id, kind)
			s.NoError(err)
			results <- ok
		}()
	}
	wg.Wait()
	close(results)

	wins := 0
	for ok := range results {
		if ok {
			wins++
		}
	}
	s.Equal(1, wins)
}

func (s *LedgerTestSuite) TestConcurrentReduceNeverRaises() {
	cfg := config.NewTestConfig().Ledger
	cfg.ReduceMaxAttempts = 100
	cmds := commands.NewPaymentTokenCommands(s.store, cfg, nil)

	id, err := cmds.Issue(s.ctx, amount(10_000))
	s.Require().NoError(err)

	const callers = 20
	type result struct {
		target int64
		ok     bool
	}
	results := make(chan result, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		target := int64(9_000 - (i*397)%9_000)
		go func() {
			defer wg.Done()
			ok, err := cmds.Reduce(s.ctx, id, amount(target))
			if err != nil {
				s.True(errs.Is(err, shared.ErrContentionExhausted), "unexpected error: %v", err)
			}
			results <- result{target: target, ok: ok}
		}()
	}
	wg.Wait()
	close(results)

	lowest := int64(10_000)
	for r := range results {
		if r.ok && r.target < lowest {
			lowest = r.target
		}
	}

	token, found, err := s.store.Get(s.ctx, id)
	s.Require().NoError(err)
	s.Require().True(found)
	s.Equal(lowest, token.Amount().Minor(), "final amount is the lowest applied reduction")
}

// Failure handling against a mocked store

func newMocked(t *testing.T, cfg config.LedgerConfig) (*sharedmock.MockTokenStore, commands.PaymentTokenCommands, *spyRecorder) {
	t.Helper()
	ctrl := gomock.NewController(t)
	store := sharedmock.NewMockTokenStore(ctrl)
	rec := newSpyRecorder()
	return store, commands.NewPaymentTokenCommands(store, cfg, rec), rec
}

func TestIssueRegeneratesIDOnCollision(t *testing.T) {
	store, cmds, rec := newMocked(t, config.NewTestConfig().Ledger)

	var tried []paymenttoken.ID
	gomock.InOrder(
		store.EXPECT().PutIfAbsent(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, token *paymenttoken.Token) (bool, error) {
				tried = append(tried, token.ID())
				return false, nil
			}),
		store.EXPECT().PutIfAbsent(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, token *paymenttoken.Token) (bool, error) {
				tried = append(tried, token.ID())
				assert.Equal(t, int64(500), token.Amount().Minor())
				return true, nil
			}),
	)

	id, err := cmds.Issue(context.Background(), amount(500))
	require.NoError(t, err)
	require.Len(t, tried, 2)
	assert.NotEqual(t, tried[0], tried[1])
	assert.Equal(t, tried[1], id)
	assert.Equal(t, 1, rec.retries["issue"])
}

func TestIssueCollisionExhaustion(t *testing.T) {
	cfg := config.NewTestConfig().Ledger
	store, cmds, rec := newMocked(t, cfg)
	store.EXPECT().PutIfAbsent(gomock.Any(), gomock.Any()).Return(false, nil).Times(cfg.IssueMaxAttempts)

	id, err := cmds.Issue(context.Background(), amount(500))
	require.Error(t, err)
	assert.Empty(t, id)
	assert.True(t, errs.Is(err, shared.ErrContentionExhausted))
	assert.Equal(t, metrics.OutcomeContentionExhausted, rec.last().outcome)
}

func TestReduceContentionExhaustion(t *testing.T) {
	cfg := config.NewTestConfig().Ledger
	store, cmds, rec := newMocked(t, cfg)
	id := paymenttoken.NewID()

	store.EXPECT().Get(gomock.Any(), id).Return(paymenttoken.Reconstruct(id, amount(3000)), true, nil).Times(cfg.ReduceMaxAttempts)
	store.EXPECT().CompareAndSwapAmount(gomock.Any(), id, amount(3000), amount(1000)).Return(false, nil).Times(cfg.ReduceMaxAttempts)

	ok, err := cmds.Reduce(context.Background(), id, amount(1000))
	require.Error(t, err)
	assert.False(t, ok)
	assert.True(t, errs.Is(err, shared.ErrContentionExhausted))
	assert.False(t, errs.Is(err, shared.ErrStoreUnavailable))
	assert.Equal(t, cfg.ReduceMaxAttempts-1, rec.retries["reduce"])
	assert.Equal(t, metrics.OutcomeContentionExhausted, rec.last().outcome)
}

func TestReduceRetriesAfterLostSwap(t *testing.T) {
	store, cmds, _ := newMocked(t, config.NewTestConfig().Ledger)
	id := paymenttoken.NewID()

	gomock.InOrder(
		store.EXPECT().Get(gomock.Any(), id).Return(paymenttoken.Reconstruct(id, amount(3000)), true, nil),
		store.EXPECT().CompareAndSwapAmount(gomock.Any(), id, amount(3000), amount(1000)).Return(false, nil),
		store.EXPECT().Get(gomock.Any(), id).Return(paymenttoken.Reconstruct(id, amount(2500)), true, nil),
		store.EXPECT().CompareAndSwapAmount(gomock.Any(), id, amount(2500), amount(1000)).Return(true, nil),
	)

	ok, err := cmds.Reduce(context.Background(), id, amount(1000))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReduceStopsWhenConcurrentReductionWentLower(t *testing.T) {
	store, cmds, _ := newMocked(t, config.NewTestConfig().Ledger)
	id := paymenttoken.NewID()

	gomock.InOrder(
		store.EXPECT().Get(gomock.Any(), id).Return(paymenttoken.Reconstruct(id, amount(3000)), true, nil),
		store.EXPECT().CompareAndSwapAmount(gomock.Any(), id, amount(3000), amount(1000)).Return(false, nil),
		store.EXPECT().Get(gomock.Any(), id).Return(paymenttoken.Reconstruct(id, amount(500)), true, nil),
	)

	ok, err := cmds.Reduce(context.Background(), id, amount(1000))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreFailuresAreStoreUnavailable(t *testing.T) {
	cause := errors.New("connection reset")
	id := paymenttoken.NewID()

	tests := []struct {
		name   string
		expect func(store *sharedmock.MockTokenStore)
		call   func(cmds commands.PaymentTokenCommands) error
	}{
		{
			name: "issue",
			expect: func(store *sharedmock.MockTokenStore) {
				store.EXPECT().PutIfAbsent(gomock.Any(), gomock.Any()).Return(false, cause)
			},
			call: func(cmds commands.PaymentTokenCommands) error {
				_, err := cmds.Issue(context.Background(), amount(1))
				return err
			},
		},
		{
			name: "reduce read",
			expect: func(store *sharedmock.MockTokenStore) {
				store.EXPECT().Get(gomock.Any(), id).Return(nil, false, cause)
			},
			call: func(cmds commands.PaymentTokenCommands) error {
				_, err := cmds.Reduce(context.Background(), id, amount(1))
				return err
			},
		},
		{
			name: "reduce swap",
			expect: func(store *sharedmock.MockTokenStore) {
				store.EXPECT().Get(gomock.Any(), id).Return(paymenttoken.Reconstruct(id, amount(5)), true, nil)
				store.EXPECT().CompareAndSwapAmount(gomock.Any(), id, amount(5), amount(1)).Return(false, cause)
			},
			call: func(cmds commands.PaymentTokenCommands) error {
				_, err := cmds.Reduce(context.Background(), id, amount(1))
				return err
			},
		},
		{
			name: "consume",
			expect: func(store *sharedmock.MockTokenStore) {
				store.EXPECT().DeleteIfPresent(gomock.Any(), id).Return(false, cause)
			},
			call: func(cmds commands.PaymentTokenCommands) error {
				_, err := cmds.Consume(context.Background(), id, paymenttoken.ConsumeCancel)
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, cmds, rec := newMocked(t, config.NewTestConfig().Ledger)
			tt.expect(store)

			err := tt.call(cmds)
			require.Error(t, err)
			assert.True(t, errs.Is(err, shared.ErrStoreUnavailable))
			assert.ErrorIs(t, err, cause)
			assert.Equal(t, metrics.OutcomeStoreUnavailable, rec.last().outcome)
		})
	}
}

func TestStoreCallsHonourTimeout(t *testing.T) {
	cfg := config.NewTestConfig().Ledger
	cfg.StoreTimeout = 20 * time.Millisecond
	store, cmds, _ := newMocked(t, cfg)
	id := paymenttoken.NewID()

	store.EXPECT().DeleteIfPresent(gomock.Any(), id).DoAndReturn(
		func(ctx context.Context, _ paymenttoken.ID) (bool, error) {
			<-ctx.Done()
			return false, ctx.Err()
		})

	ok, err := cmds.Consume(context.Background(), id, paymenttoken.ConsumeCapture)
	require.Error(t, err)
	assert.False(t, ok)
	assert.True(t, errs.Is(err, shared.ErrStoreUnavailable))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
