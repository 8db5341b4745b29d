package api

import (
	"log/slog"
	"net/http"

	"payment-3p/internal/domain/paymenttoken"
	reqdto "payment-3p/internal/handler/dto/request"
	resdto "payment-3p/internal/handler/dto/response"
	"payment-3p/internal/handler/httperr"
	"payment-3p/internal/handler/middleware"
	"payment-3p/internal/pkg/errs"
	"payment-3p/internal/usecase/commands"
	"payment-3p/internal/usecase/queries"
	"payment-3p/internal/usecase/shared"

	"github.com/gin-gonic/gin"
)

const (
	msgIssueFailed   = "Failed to generate a token"
	msgInternalError = "Internal error"
)

type PaymentTokenHandler struct {
	commands commands.PaymentTokenCommands
	queries  queries.PaymentTokenQueries
}

func NewPaymentTokenHandler(commands commands.PaymentTokenCommands, queries queries.PaymentTokenQueries) *PaymentTokenHandler {
	return &PaymentTokenHandler{
		commands: commands,
		queries:  queries,
	}
}

// @Summary Pre-authorize a payment
// @Description Reserve an amount against a card and return a single-use payment token
// @Tags payment-tokens
// @Accept json
// @Produce json
// @Param request body reqdto.IssueTokenRequest true "Card number and amount"
// @Success 200 {object} resdto.IssueTokenResponse
// @Failure 400 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /preauth [post]
func (h *PaymentTokenHandler) Preauth(c *gin.Context) {
	var req reqdto.IssueTokenRequest
	if !bindRequest(c, &req) {
		return
	}

	_, amount, err := req.ToDomain()
	if err != nil {
		badRequest(c, err)
		return
	}

	id, err := h.commands.Issue(c.Request.Context(), amount)
	recordResult(c, "issue", err == nil, err)
	if err != nil {
		ledgerFailure(c, err, msgIssueFailed)
		return
	}

	slog.Info("payment token issued",
		"request_id", middleware.GetRequestID(c),
		"amount", amount.Minor())
	c.JSON(http.StatusOK, resdto.FromTokenID(id))
}

// @Summary Check a payment token
// @Description Report whether the token exists and still covers the amount
// @Tags payment-tokens
// @Accept json
// @Produce json
// @Param request body reqdto.TokenAmountRequest true "Token and amount"
// @Success 200 {object} resdto.OKResponse
// @Failure 400 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /check [post]
func (h *PaymentTokenHandler) Check(c *gin.Context) {
	var req reqdto.TokenAmountRequest
	if !bindRequest(c, &req) {
		return
	}

	id, amount, err := req.ToDomain()
	if err != nil {
		badRequest(c, err)
		return
	}

	ok, err := h.queries.Verify(c.Request.Context(), id, amount)
	recordResult(c, "verify", ok, err)
	if err != nil {
		ledgerFailure(c, err, msgInternalError)
		return
	}
	c.JSON(http.StatusOK, resdto.OKResponse{OK: ok})
}

// @Summary Lower the reserved amount
// @Description Reduce the amount held by the token; raising it is refused with ok=false
// @Tags payment-tokens
// @Accept json
// @Produce json
// @Param request body reqdto.TokenAmountRequest true "Token and new amount"
// @Success 200 {object} resdto.OKResponse
// @Failure 400 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /updateAmount [post]
func (h *PaymentTokenHandler) UpdateAmount(c *gin.Context) {
	var req reqdto.TokenAmountRequest
	if !bindRequest(c, &req) {
		return
	}

	id, amount, err := req.ToDomain()
	if err != nil {
		badRequest(c, err)
		return
	}

	ok, err := h.commands.Reduce(c.Request.Context(), id, amount)
	recordResult(c, "reduce", ok, err)
	if err != nil {
		ledgerFailure(c, err, msgInternalError)
		return
	}
	c.JSON(http.StatusOK, resdto.OKResponse{OK: ok})
}

// @Summary Capture a payment
// @Description Consume the token; only the first caller gets ok=true
// @Tags payment-tokens
// @Accept json
// @Produce json
// @Param request body reqdto.TokenRequest true "Token"
// @Success 200 {object} resdto.OKResponse
// @Failure 400 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /processPayment [post]
func (h *PaymentTokenHandler) ProcessPayment(c *gin.Context) {
	h.consume(c, paymenttoken.ConsumeCapture)
}

// @Summary Cancel a payment
// @Description Release the reservation; only the first caller gets ok=true
// @Tags payment-tokens
// @Accept json
// @Produce json
// @Param request body reqdto.TokenRequest true "Token"
// @Success 200 {object} resdto.OKResponse
// @Failure 400 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /cancelPayment [post]
func (h *PaymentTokenHandler) CancelPayment(c *gin.Context) {
	h.consume(c, paymenttoken.ConsumeCancel)
}

func (h *PaymentTokenHandler) consume(c *gin.Context, kind paymenttoken.ConsumeKind) {
	var req reqdto.TokenRequest
	if !bindRequest(c, &req) {
		return
	}

	id, err := req.ToDomain()
	if err != nil {
		badRequest(c, err)
		return
	}

	ok, err := h.commands.Consume(c.Request.Context(), id, kind)
	recordResult(c, "consume_"+kind.String(), ok, err)
	if err != nil {
		ledgerFailure(c, err, msgInternalError)
		return
	}
	c.JSON(http.StatusOK, resdto.OKResponse{OK: ok})
}

func recordResult(c *gin.Context, op string, ok bool, err error) {
	middleware.SetLedgerResult(c, op, string(shared.OutcomeOf(ok, err)))
}

func bindRequest(c *gin.Context, dst any) bool {
	if err := reqdto.Bind(c, dst); err != nil {
		badRequest(c, err)
		return false
	}
	return true
}

func badRequest(c *gin.Context, err error) {
	httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error())
}

func ledgerFailure(c *gin.Context, err error, msg string) {
	kind := "store_unavailable"
	if errs.Is(err, shared.ErrContentionExhausted) {
		kind = "contention_exhausted"
	}
	slog.Error("ledger operation failed",
		"request_id", middleware.GetRequestID(c),
		"path", c.FullPath(),
		"kind", kind,
		"error", err)
	slog.Debug("ledger failure stack", "stack", errs.ExtractStackLines(err, 12))
	httperr.AbortWithError(c, http.StatusInternalServerError, err, msg)
}
