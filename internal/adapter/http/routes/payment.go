package routes

import (
	"sasa_billing/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathPayment      = "/payment"
	PathAccount      = "/account"
	PathPayments     = "/payments"
	PathPlans        = "/plans"
	PathMetrics      = "/metrics"
	PathMockCheckout = "/mock/checkout/:order_id"
)

func addPaymentRoutes(rg *gin.RouterGroup, paymentHandler *handlers.PaymentHandler, accountHandler *handlers.AccountHandler) {
	rg.POST(PathPayment, paymentHandler.HandlePaymentAction)
	rg.GET(PathAccount, accountHandler.GetAccount)
	rg.GET(PathPayments, accountHandler.ListPayments)
}

func addPlanRoutes(rg *gin.RouterGroup, accountHandler *handlers.AccountHandler) {
	rg.GET(PathPlans, accountHandler.ListPlans)
}

func addMockCheckoutRoutes(rg *gin.RouterGroup, h *handlers.MockCheckoutHandler) {
	rg.POST(PathMockCheckout, h.CompleteCheckout)
}
