package paymenttoken

import "errors"

var ErrAmountIncrease = errors.New("reserved amount can only be lowered")

// Token is an active reservation. Its existence in the store is its state:
// there is no status field, a consumed token is simply gone.
type Token struct {
	id     ID
	amount Amount
}

func NewToken(amount Amount) *Token {
	return &Token{
		id:     NewID(),
		amount: amount,
	}
}

// Reconstruct rebuilds a token read back from a store.
func Reconstruct(id ID, amount Amount) *Token {
	return &Token{
		id:     id,
		amount: amount,
	}
}

func (t *Token) ID() ID {
	return t.id
}

func (t *Token) Amount() Amount {
	return t.amount
}

func (t *Token) Covers(amount Amount) bool {
	return t.amount.Covers(amount)
}

// ReduceTo returns the amount to store, refusing any increase. Lowering to
// the current amount is allowed.
func (t *Token) ReduceTo(amount Amount) (Amount, error) {
	if !t.amount.Covers(amount) {
		return Amount{}, ErrAmountIncrease
	}
	return amount, nil
}

// WithNewID keeps the reservation but draws a fresh id, used when an insert
// collides with an existing token.
func (t *Token) WithNewID() *Token {
	return &Token{
		id:     NewID(),
		amount: t.amount,
	}
}
