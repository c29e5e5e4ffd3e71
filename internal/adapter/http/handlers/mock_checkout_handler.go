package handlers

import (
	"errors"
	"net/http"

	response "sasa_billing/internal/adapter/http/dto/response"
	"sasa_billing/internal/infrastructure/payments"
	"sasa_billing/pkg"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// CheckoutCompleter is implemented by payments.MockGateway.
type CheckoutCompleter interface {
	CompleteCheckout(orderID string) (paymentID, signature string, err error)
}

// MockCheckoutHandler stands in for the hosted checkout page when the mock
// gateway is enabled. It is never mounted against a real gateway.
type MockCheckoutHandler struct {
	gateway CheckoutCompleter
}

func NewMockCheckoutHandler(gateway CheckoutCompleter) *MockCheckoutHandler {
	return &MockCheckoutHandler{gateway: gateway}
}

func (h *MockCheckoutHandler) CompleteCheckout(c *gin.Context) {
	orderID := c.Param("order_id")
	paymentID, signature, err := h.gateway.CompleteCheckout(orderID)
	if err != nil {
		log.Warn().Err(err).Str("order_id", orderID).Msg("[payment][handler] mock checkout failed")
		appErr := pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
		if errors.Is(err, payments.ErrMockOrderNotFound) {
			appErr = pkg.NewDomainErrorSimple("ORDER_NOT_FOUND", "Order not found", http.StatusNotFound)
		}
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.MockCheckoutResponse{OrderID: orderID, PaymentID: paymentID, Signature: signature})
}
