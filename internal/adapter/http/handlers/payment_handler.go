package handlers

import (
	"errors"
	"net/http"

	request "sasa_billing/internal/adapter/http/dto/request"
	response "sasa_billing/internal/adapter/http/dto/response"
	"sasa_billing/internal/adapter/http/middleware"
	"sasa_billing/internal/domain/entities"
	"sasa_billing/internal/usecase"
	"sasa_billing/pkg"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

var (
	errInvalidPaymentRequest = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	errUnknownAction         = pkg.NewDomainErrorSimple("UNKNOWN_ACTION", "Unknown action", http.StatusBadRequest)
	errUnauthorized          = pkg.NewDomainErrorSimple("UNAUTHORIZED", "Unauthorized", http.StatusUnauthorized)
)

// PaymentHandler serves POST /payment for both checkout steps.
type PaymentHandler struct {
	orders   usecase.IOrderUseCase
	verifier usecase.IPaymentVerificationUseCase
}

func NewPaymentHandler(orders usecase.IOrderUseCase, verifier usecase.IPaymentVerificationUseCase) *PaymentHandler {
	return &PaymentHandler{orders: orders, verifier: verifier}
}

// HandlePaymentAction godoc
// @Summary      Create a checkout order or verify a completed payment
// @Description  action=create_order takes plan or mode+currency and returns the gateway order.
// @Description  action=verify_payment takes payment_id, order_id and signature and settles the purchase.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request  body      request.PaymentActionRequest  true  "Payment action"
// @Success      200      {object}  response.OrderResponse
// @Success      200      {object}  response.VerifyPaymentResponse
// @Failure      400      {object}  pkg.HTTPError
// @Failure      401      {object}  pkg.HTTPError
// @Failure      409      {object}  pkg.HTTPError
// @Failure      502      {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /payment [post]
func (h *PaymentHandler) HandlePaymentAction(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(errUnauthorized.HTTPStatus, errUnauthorized.ToHTTPError())
		return
	}

	var payload request.PaymentActionRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Warn().Err(err).Str("user_id", identity.UserID).Msg("[payment][handler] invalid payload")
		c.JSON(errInvalidPaymentRequest.HTTPStatus, errInvalidPaymentRequest.ToHTTPError())
		return
	}

	switch action := payload.ResolveAction(); action {
	case request.ActionCreateOrder:
		h.createOrder(c, identity, payload)
	case request.ActionVerifyPayment:
		h.verifyPayment(c, identity, payload)
	default:
		log.Warn().Str("user_id", identity.UserID).Str("action", action).Msg("[payment][handler] unknown action")
		c.JSON(errUnknownAction.HTTPStatus, errUnknownAction.ToHTTPError())
	}
}

func (h *PaymentHandler) createOrder(c *gin.Context, identity entities.Identity, payload request.PaymentActionRequest) {
	order, err := h.orders.CreateOrder(c.Request.Context(), identity, payload.Selector())
	if err != nil {
		appErr := mapPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromOrder(order))
}

func (h *PaymentHandler) verifyPayment(c *gin.Context, identity entities.Identity, payload request.PaymentActionRequest) {
	result, err := h.verifier.VerifyAndSettle(c.Request.Context(), identity, payload.VerifyInput())
	if err != nil {
		appErr := mapPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromSettlement(result))
}

func mapPaymentError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrUnauthorized):
		return pkg.NewDomainErrorSimple("UNAUTHORIZED", "Unauthorized", http.StatusUnauthorized)
	case errors.Is(err, usecase.ErrInvalidPlan):
		return pkg.NewDomainErrorSimple("INVALID_PLAN", "Invalid plan", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPlanMismatch):
		return pkg.NewDomainErrorSimple("PLAN_MISMATCH", "Order does not match the requested plan", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrIncompleteVerificationData):
		return pkg.NewDomainErrorSimple("INCOMPLETE_VERIFICATION_DATA", "Missing payment verification data", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidSignature):
		return pkg.NewDomainErrorSimple("INVALID_SIGNATURE", "Invalid payment signature", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrDuplicatePayment):
		return pkg.NewDomainErrorSimple("DUPLICATE_PAYMENT", "Payment already processed", http.StatusConflict)
	case errors.Is(err, usecase.ErrConcurrencyConflict):
		return pkg.NewDomainErrorSimple("CONCURRENCY_CONFLICT", "Account changed concurrently, retry the request", http.StatusConflict)
	case errors.Is(err, usecase.ErrOrderCreationFailed):
		// The provider diagnostic is part of the contract for this error.
		return pkg.NewDomainError("ORDER_CREATION_FAILED", err.Error(), err, http.StatusBadGateway)
	case errors.Is(err, usecase.ErrOrderLookupFailed):
		return pkg.NewDomainError("ORDER_LOOKUP_FAILED", "Could not load the payment order", err, http.StatusBadGateway)
	case errors.Is(err, usecase.ErrGatewayNotConfigured):
		return pkg.NewDomainErrorSimple("GATEWAY_NOT_CONFIGURED", "Payment gateway not configured", http.StatusServiceUnavailable)
	case errors.Is(err, usecase.ErrProfileNotFound):
		return pkg.NewDomainErrorSimple("PROFILE_NOT_FOUND", "Profile not found", http.StatusInternalServerError)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
