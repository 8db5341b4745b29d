package repository

import (
	"context"

	"payment-3p/internal/domain/paymenttoken"
	"payment-3p/internal/infra"
	sqlc "payment-3p/internal/infra/sqlc/generated"
	"payment-3p/internal/pkg/pgconv"
)

type PaymentTokenQueries interface {
	FindPaymentToken(ctx context.Context, db sqlc.DBTX, paymentToken string) (sqlc.PaymentTokens, error)
	InsertPaymentTokenIfAbsent(ctx context.Context, db sqlc.DBTX, arg sqlc.InsertPaymentTokenIfAbsentParams) (int64, error)
	CompareAndSwapPaymentTokenAmount(ctx context.Context, db sqlc.DBTX, arg sqlc.CompareAndSwapPaymentTokenAmountParams) (int64, error)
	DeletePaymentToken(ctx context.Context, db sqlc.DBTX, paymentToken string) (int64, error)
}

// PaymentTokenRepository is the PostgreSQL token store. Every write is a
// single conditional statement, so no transaction is opened.
type PaymentTokenRepository struct {
	queries PaymentTokenQueries
	db      sqlc.DBTX
}

func NewPaymentTokenRepository(queries PaymentTokenQueries, db sqlc.DBTX) *PaymentTokenRepository {
	return &PaymentTokenRepository{
		queries: queries,
		db:      db,
	}
}

func (r *PaymentTokenRepository) Get(ctx context.Context, id paymenttoken.ID) (*paymenttoken.Token, bool, error) {
	row, err := r.queries.FindPaymentToken(ctx, r.db, id.String())
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, false, nil
		}
		return nil, false, infra.WrapRepoErr("failed to find payment token", err)
	}

	token, err := toDomainPaymentToken(row)
	if err != nil {
		return nil, false, infra.WrapRepoErr("stored payment token is invalid", err, infra.KindCorruptRecord)
	}
	return token, true, nil
}

func (r *PaymentTokenRepository) PutIfAbsent(ctx context.Context, token *paymenttoken.Token) (bool, error) {
	affected, err := r.queries.InsertPaymentTokenIfAbsent(ctx, r.db, sqlc.InsertPaymentTokenIfAbsentParams{
		PaymentToken: token.ID().String(),
		Amount:       token.Amount().Minor(),
	})
	if err != nil {
		return false, infra.WrapRepoErr("failed to insert payment token", err)
	}
	return affected == 1, nil
}

func (r *PaymentTokenRepository) CompareAndSwapAmount(ctx context.Context, id paymenttoken.ID, expected, next paymenttoken.Amount) (bool, error) {
	affected, err := r.queries.CompareAndSwapPaymentTokenAmount(ctx, r.db, sqlc.CompareAndSwapPaymentTokenAmountParams{
		PaymentToken: id.String(),
		Amount:       expected.Minor(),
		Amount_2:     next.Minor(),
	})
	if err != nil {
		return false, infra.WrapRepoErr("failed to update payment token amount", err)
	}
	return affected == 1, nil
}

func (r *PaymentTokenRepository) DeleteIfPresent(ctx context.Context, id paymenttoken.ID) (bool, error) {
	affected, err := r.queries.DeletePaymentToken(ctx, r.db, id.String())
	if err != nil {
		return false, infra.WrapRepoErr("failed to delete payment token", err)
	}
	return affected == 1, nil
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Ping checks the pool when the repository was built on one; a bare
// connection or transaction is pinged with a trivial query.
func (r *PaymentTokenRepository) Ping(ctx context.Context) error {
	if p, ok := r.db.(pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return infra.WrapRepoErr("database ping failed", err)
		}
		return nil
	}
	if _, err := r.db.Exec(ctx, "SELECT 1"); err != nil {
		return infra.WrapRepoErr("database ping failed", err)
	}
	return nil
}

func toDomainPaymentToken(row sqlc.PaymentTokens) (*paymenttoken.Token, error) {
	id, err := paymenttoken.ParseID(row.PaymentToken)
	if err != nil {
		return nil, err
	}
	amount, err := paymenttoken.NewAmount(row.Amount)
	if err != nil {
		return nil, err
	}
	return paymenttoken.Reconstruct(id, amount), nil
}
