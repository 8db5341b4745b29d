package paymenttoken

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

const CardNumberLength = 16

var (
	ErrEmptyID           = errors.New("payment token id is empty")
	ErrNegativeAmount    = errors.New("amount cannot be negative")
	ErrInvalidCardNumber = errors.New("card number must be 16 characters long")
)

// ID is opaque to callers. Issued ids are random (v4) UUIDs but any
// non-empty string is a valid lookup key; unknown ids are simply not found.
type ID string

func NewID() ID {
	return ID(uuid.NewString())
}

func ParseID(s string) (ID, error) {
	if strings.TrimSpace(s) == "" {
		return "", ErrEmptyID
	}
	return ID(s), nil
}

func (id ID) String() string {
	return string(id)
}

// Amount is a non-negative quantity of minor currency units.
type Amount struct {
	minor int64
}

func NewAmount(minor int64) (Amount, error) {
	if minor < 0 {
		return Amount{}, ErrNegativeAmount
	}
	return Amount{minor: minor}, nil
}

// MustAmount is for constants and tests.
func MustAmount(minor int64) Amount {
	a, err := NewAmount(minor)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) Minor() int64 {
	return a.minor
}

func (a Amount) Covers(other Amount) bool {
	return a.minor >= other.minor
}

func (a Amount) Equal(other Amount) bool {
	return a.minor == other.minor
}

// CardNumber is accepted on issue only; it is never stored or logged.
type CardNumber struct {
	value string
}

func NewCardNumber(value string) (CardNumber, error) {
	if utf8.RuneCountInString(value) != CardNumberLength {
		return CardNumber{}, ErrInvalidCardNumber
	}
	return CardNumber{value: value}, nil
}

func (c CardNumber) Last4() string {
	runes := []rune(c.value)
	if len(runes) < 4 {
		return ""
	}
	return string(runes[len(runes)-4:])
}

// String masks everything but the last four characters.
func (c CardNumber) String() string {
	return strings.Repeat("*", CardNumberLength-4) + c.Last4()
}
