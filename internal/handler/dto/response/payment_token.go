package response

import "payment-3p/internal/domain/paymenttoken"

type IssueTokenResponse struct {
	PaymentToken string `json:"paymentToken" example:"2f1c7a52-5c1e-4b8e-9a8f-6d0b4f1e9c21"`
}

func FromTokenID(id paymenttoken.ID) IssueTokenResponse {
	return IssueTokenResponse{PaymentToken: id.String()}
}

type OKResponse struct {
	OK bool `json:"ok"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
