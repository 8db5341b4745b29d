package request

import (
	"encoding/json"
	"errors"
	"io"

	"payment-3p/internal/domain/paymenttoken"

	"github.com/gin-gonic/gin"
)

const (
	fieldPaymentToken = "paymentToken"
	fieldCardNumber   = "cardNumber"
	fieldAmount       = "amount"
)

// FieldError is a client mistake in the request body. Message is sent back
// verbatim.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

func missing(field string) *FieldError {
	return &FieldError{Field: field, Message: "Missing '" + field + "' in request body."}
}

// Fields are pointers so that an absent field can be told from a zero value.
type IssueTokenRequest struct {
	CardNumber *string `json:"cardNumber" example:"1234567890123456"`
	Amount     *Amount `json:"amount" swaggertype:"integer" example:"3000"`
}

type TokenAmountRequest struct {
	PaymentToken *string `json:"paymentToken" example:"2f1c7a52-5c1e-4b8e-9a8f-6d0b4f1e9c21"`
	Amount       *Amount `json:"amount" swaggertype:"integer" example:"2000"`
}

type TokenRequest struct {
	PaymentToken *string `json:"paymentToken" example:"2f1c7a52-5c1e-4b8e-9a8f-6d0b4f1e9c21"`
}

func (r *IssueTokenRequest) ToDomain() (paymenttoken.CardNumber, paymenttoken.Amount, error) {
	if r.CardNumber == nil || *r.CardNumber == "" {
		return paymenttoken.CardNumber{}, paymenttoken.Amount{}, missing(fieldCardNumber)
	}
	card, err := paymenttoken.NewCardNumber(*r.CardNumber)
	if err != nil {
		return paymenttoken.CardNumber{}, paymenttoken.Amount{}, &FieldError{
			Field:   fieldCardNumber,
			Message: "'cardNumber' should be 16 characters long.",
		}
	}
	amount, err := toAmount(r.Amount)
	if err != nil {
		return paymenttoken.CardNumber{}, paymenttoken.Amount{}, err
	}
	return card, amount, nil
}

func (r *TokenAmountRequest) ToDomain() (paymenttoken.ID, paymenttoken.Amount, error) {
	id, err := toID(r.PaymentToken)
	if err != nil {
		return "", paymenttoken.Amount{}, err
	}
	amount, err := toAmount(r.Amount)
	if err != nil {
		return "", paymenttoken.Amount{}, err
	}
	return id, amount, nil
}

func (r *TokenRequest) ToDomain() (paymenttoken.ID, error) {
	return toID(r.PaymentToken)
}

func toID(v *string) (paymenttoken.ID, error) {
	if v == nil {
		return "", missing(fieldPaymentToken)
	}
	id, err := paymenttoken.ParseID(*v)
	if err != nil {
		return "", missing(fieldPaymentToken)
	}
	return id, nil
}

func toAmount(v *Amount) (paymenttoken.Amount, error) {
	if v == nil {
		return paymenttoken.Amount{}, missing(fieldAmount)
	}
	amount, err := paymenttoken.NewAmount(int64(*v))
	if err != nil {
		return paymenttoken.Amount{}, &FieldError{
			Field:   fieldAmount,
			Message: "'amount' should be a positive number.",
		}
	}
	return amount, nil
}

// Bind decodes the JSON body into dst and turns decoding failures into
// FieldErrors with the messages clients already rely on.
func Bind(c *gin.Context, dst any) error {
	if c.Request.Body == nil {
		return &FieldError{Message: "Missing request body."}
	}

	err := json.NewDecoder(c.Request.Body).Decode(dst)
	if err == nil {
		return nil
	}

	var (
		fieldErr *FieldError
		typeErr  *json.UnmarshalTypeError
	)
	switch {
	case errors.Is(err, io.EOF):
		return &FieldError{Message: "Missing request body."}
	case errors.As(err, &fieldErr):
		return fieldErr
	case errors.As(err, &typeErr):
		return typeError(typeErr)
	default:
		return &FieldError{Message: "Request body is not valid JSON."}
	}
}

func typeError(err *json.UnmarshalTypeError) *FieldError {
	switch err.Field {
	case "":
		return &FieldError{Message: "Request body is not valid JSON."}
	default:
		return &FieldError{Field: err.Field, Message: "'" + err.Field + "' is not a string."}
	}
}
