//go:build e2e

package paymenttoken_test

import (
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"payment-3p/internal/handler/dto/response"
	"payment-3p/tests/common/builder"
	"payment-3p/tests/common/dbtest"
	"payment-3p/tests/common/httptest"
	"payment-3p/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	preauthURL        = "/preauth"
	checkURL          = "/check"
	updateAmountURL   = "/updateAmount"
	processPaymentURL = "/processPayment"
	cancelPaymentURL  = "/cancelPayment"
)

type PaymentTokenSuite struct {
	e2e.SharedSuite
}

func TestPaymentTokenSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(PaymentTokenSuite))
}

func (s *PaymentTokenSuite) preauth(amount int64) string {
	t := s.T()

	reqBody := builder.NewPaymentTokenBuilder().WithAmount(amount).BuildIssueDTO()
	w := httptest.PerformRequest(t, s.Router, http.MethodPost, preauthURL, reqBody)

	var res response.IssueTokenResponse
	httptest.AssertSuccessResponse(t, w, http.StatusOK, &res)
	require.NotEmpty(t, res.PaymentToken)
	return res.PaymentToken
}

func (s *PaymentTokenSuite) post(path, id string, amount *int64) bool {
	t := s.T()

	body := map[string]any{"paymentToken": id}
	if amount != nil {
		body["amount"] = *amount
	}
	w := httptest.PerformRequest(t, s.Router, http.MethodPost, path, body)

	var res struct {
		OK *bool `json:"ok"`
	}
	httptest.AssertSuccessResponse(t, w, http.StatusOK, &res)
	require.NotNil(t, res.OK, "response has no ok field: %s", w.Body.String())
	return *res.OK
}

func amt(v int64) *int64 { return &v }

// =============================================================================
// TestLifecycle - the full preauth → check → update → capture flow
// =============================================================================

func (s *PaymentTokenSuite) TestLifecycle() {
	s.Run("Normal case: reserve, lower, capture once", func() {
		t := s.T()

		id := s.preauth(3000)
		_, err := uuid.Parse(id)
		require.NoError(t, err, "token should be a uuid")

		stored, found := dbtest.PaymentTokenAmount(t, s.DB, id)
		require.True(t, found)
		assert.Equal(t, int64(3000), stored)

		assert.True(t, s.post(checkURL, id, amt(3000)))
		assert.False(t, s.post(checkURL, id, amt(3001)))

		assert.True(t, s.post(updateAmountURL, id, amt(2000)))
		assert.True(t, s.post(checkURL, id, amt(2000)))
		assert.False(t, s.post(checkURL, id, amt(2001)))

		assert.False(t, s.post(updateAmountURL, id, amt(2500)), "raising the reservation must fail")
		assert.True(t, s.post(updateAmountURL, id, amt(2000)), "same amount is allowed")

		assert.True(t, s.post(processPaymentURL, id, nil))
		assert.False(t, s.post(processPaymentURL, id, nil))
		assert.False(t, s.post(cancelPaymentURL, id, nil))
		assert.False(t, s.post(checkURL, id, amt(0)))
		assert.False(t, s.post(updateAmountURL, id, amt(0)))

		_, found = dbtest.PaymentTokenAmount(t, s.DB, id)
		assert.False(t, found, "consumed token must be gone")
	})

	s.Run("Normal case: cancel releases the token", func() {
		t := s.T()

		id := s.preauth(500)
		assert.True(t, s.post(cancelPaymentURL, id, nil))
		assert.False(t, s.post(processPaymentURL, id, nil))
		assert.Equal(t, 0, dbtest.CountPaymentTokens(t, s.DB))
	})

	s.Run("Normal case: zero amount token", func() {
		t := s.T()

		id := s.preauth(0)
		assert.True(t, s.post(checkURL, id, amt(0)))
		assert.False(t, s.post(checkURL, id, amt(1)))
	})

	s.Run("Normal case: unknown tokens are misses", func() {
		t := s.T()

		for _, id := range []string{uuid.NewString(), "TOKEN"} {
			assert.False(t, s.post(checkURL, id, amt(0)))
			assert.False(t, s.post(updateAmountURL, id, amt(0)))
			assert.False(t, s.post(processPaymentURL, id, nil))
			assert.False(t, s.post(cancelPaymentURL, id, nil))
		}
	})

	s.Run("Normal case: seeded rows are visible through the API", func() {
		t := s.T()

		dbtest.SeedPaymentToken(t, s.DB, "SEEDED", 1200)
		assert.True(t, s.post(checkURL, "SEEDED", amt(1200)))
		assert.True(t, s.post(updateAmountURL, "SEEDED", amt(100)))

		stored, found := dbtest.PaymentTokenAmount(t, s.DB, "SEEDED")
		require.True(t, found)
		assert.Equal(t, int64(100), stored)
	})
}

// =============================================================================
// TestValidation - malformed requests never reach the store
// =============================================================================

func (s *PaymentTokenSuite) TestValidation() {
	tests := []struct {
		name    string
		path    string
		raw     string
		wantMsg string
	}{
		{name: "preauth without card", path: preauthURL, raw: `{"amount":100}`, wantMsg: "Missing 'cardNumber' in request body."},
		{name: "preauth with short card", path: preauthURL, raw: `{"cardNumber":"1234","amount":100}`, wantMsg: "'cardNumber' should be 16 characters long."},
		{name: "preauth with negative amount", path: preauthURL, raw: `{"cardNumber":"1234567890123456","amount":-1}`, wantMsg: "'amount' should be a positive number."},
		{name: "preauth with fractional amount", path: preauthURL, raw: `{"cardNumber":"1234567890123456","amount":1.5}`, wantMsg: "'amount' should be an integer."},
		{name: "check without token", path: checkURL, raw: `{"amount":100}`, wantMsg: "Missing 'paymentToken' in request body."},
		{name: "check without amount", path: checkURL, raw: `{"paymentToken":"TOKEN"}`, wantMsg: "Missing 'amount' in request body."},
		{name: "update with string amount", path: updateAmountURL, raw: `{"paymentToken":"TOKEN","amount":"100"}`, wantMsg: "'amount' is not a number."},
		{name: "capture with empty token", path: processPaymentURL, raw: `{"paymentToken":""}`, wantMsg: "Missing 'paymentToken' in request body."},
		{name: "cancel with non-string token", path: cancelPaymentURL, raw: `{"paymentToken":42}`, wantMsg: "'paymentToken' is not a string."},
		{name: "broken json", path: checkURL, raw: `{"paymentToken":`, wantMsg: "Request body is not valid JSON."},
		{name: "empty body", path: processPaymentURL, raw: ``, wantMsg: "Missing request body."},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()

			w := httptest.PerformRawRequest(t, s.Router, http.MethodPost, tt.path, tt.raw)
			httptest.AssertErrorResponse(t, w, http.StatusBadRequest, tt.wantMsg)
			assert.Equal(t, 0, dbtest.CountPaymentTokens(t, s.DB))
		})
	}
}

// =============================================================================
// TestConcurrency - single-use and monotonic guarantees under load
// =============================================================================

func (s *PaymentTokenSuite) TestConcurrency() {
	s.Run("Normal case: exactly one consumer wins", func() {
		t := s.T()

		id := s.preauth(3000)

		const workers = 16
		var wins atomic.Int32
		var wg sync.WaitGroup
		for i := range workers {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				path := processPaymentURL
				if i%2 == 1 {
					path = cancelPaymentURL
				}
				w := httptest.PerformRequest(t, s.Router, http.MethodPost, path, map[string]string{"paymentToken": id})
				if w.Code == http.StatusOK && strings.Contains(w.Body.String(), `"ok":true`) {
					wins.Add(1)
				}
			}(i)
		}
		wg.Wait()

		assert.Equal(t, int32(1), wins.Load())
		_, found := dbtest.PaymentTokenAmount(t, s.DB, id)
		assert.False(t, found)
	})

	s.Run("Normal case: concurrent reductions never raise the amount", func() {
		t := s.T()

		id := s.preauth(3000)

		var wg sync.WaitGroup
		for i := range 10 {
			wg.Add(1)
			go func(target int64) {
				defer wg.Done()
				w := httptest.PerformRequest(t, s.Router, http.MethodPost, updateAmountURL,
					map[string]any{"paymentToken": id, "amount": target})
				assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
			}(int64(2000 + i*100))
		}
		wg.Wait()

		stored, found := dbtest.PaymentTokenAmount(t, s.DB, id)
		require.True(t, found)
		assert.LessOrEqual(t, stored, int64(2900))
		assert.GreaterOrEqual(t, stored, int64(2000))
	})
}

// =============================================================================
// TestOperational - health, metrics and CORS
// =============================================================================

func (s *PaymentTokenSuite) TestOperational() {
	s.Run("Normal case: health reports the store reachable", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, "/health", nil)
		var res response.HealthResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &res)
		assert.Equal(t, "ok", res.Status)
	})

	s.Run("Normal case: metrics expose ledger outcomes", func() {
		t := s.T()

		id := s.preauth(10)
		s.post(checkURL, id, amt(10))

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, "/metrics", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "payment3p_")
	})

	s.Run("Normal case: CORS headers on every response", func() {
		t := s.T()

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodOptions, checkURL, nil, map[string]string{
			"Origin":                        "https://shop.example.com",
			"Access-Control-Request-Method": http.MethodPost,
		})
		httptest.AssertHeaders(t, w, map[string]string{"Access-Control-Allow-Origin": "*"})
	})
}
