//go:build unit || e2e

package builder

import (
	"payment-3p/internal/domain/paymenttoken"
	reqdto "payment-3p/internal/handler/dto/request"
)

type PaymentTokenBuilder struct {
	ID         string
	CardNumber string
	Amount     int64
}

func NewPaymentTokenBuilder() *PaymentTokenBuilder {
	return &PaymentTokenBuilder{
		ID:         "2f1c7a52-5c1e-4b8e-9a8f-6d0b4f1e9c21",
		CardNumber: "1234567890123456",
		Amount:     3000,
	}
}

func (b *PaymentTokenBuilder) With(mutate func(*PaymentTokenBuilder)) *PaymentTokenBuilder {
	if mutate != nil {
		mutate(b)
	}
	return b
}

func (b *PaymentTokenBuilder) WithID(id string) *PaymentTokenBuilder {
	b.ID = id
	return b
}

func (b *PaymentTokenBuilder) WithCardNumber(cardNumber string) *PaymentTokenBuilder {
	b.CardNumber = cardNumber
	return b
}

func (b *PaymentTokenBuilder) WithAmount(amount int64) *PaymentTokenBuilder {
	b.Amount = amount
	return b
}

func (b *PaymentTokenBuilder) BuildDomain() (*paymenttoken.Token, error) {
	id, err := paymenttoken.ParseID(b.ID)
	if err != nil {
		return nil, err
	}
	amount, err := paymenttoken.NewAmount(b.Amount)
	if err != nil {
		return nil, err
	}
	return paymenttoken.Reconstruct(id, amount), nil
}

func (b *PaymentTokenBuilder) BuildIssueDTO() reqdto.IssueTokenRequest {
	amount := reqdto.Amount(b.Amount)
	return reqdto.IssueTokenRequest{
		CardNumber: &b.CardNumber,
		Amount:     &amount,
	}
}

func (b *PaymentTokenBuilder) BuildAmountDTO() reqdto.TokenAmountRequest {
	amount := reqdto.Amount(b.Amount)
	return reqdto.TokenAmountRequest{
		PaymentToken: &b.ID,
		Amount:       &amount,
	}
}

func (b *PaymentTokenBuilder) BuildTokenDTO() reqdto.TokenRequest {
	return reqdto.TokenRequest{
		PaymentToken: &b.ID,
	}
}
