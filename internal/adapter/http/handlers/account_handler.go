package handlers

import (
	"errors"
	"net/http"

	response "sasa_billing/internal/adapter/http/dto/response"
	"sasa_billing/internal/adapter/http/middleware"
	"sasa_billing/internal/usecase"
	"sasa_billing/pkg"

	"github.com/gin-gonic/gin"
)

// AccountHandler exposes the caller's balance, payment history and the
// public plan catalog.
type AccountHandler struct {
	usecase usecase.IAccountUseCase
}

func NewAccountHandler(uc usecase.IAccountUseCase) *AccountHandler {
	return &AccountHandler{usecase: uc}
}

// GetAccount godoc
// @Summary   Current credits and subscription state
// @Tags      account
// @Produce   json
// @Success   200  {object}  response.AccountResponse
// @Failure   401  {object}  pkg.HTTPError
// @Failure   404  {object}  pkg.HTTPError
// @Security  Bearer
// @Router    /account [get]
func (h *AccountHandler) GetAccount(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(errUnauthorized.HTTPStatus, errUnauthorized.ToHTTPError())
		return
	}

	summary, err := h.usecase.GetAccount(c.Request.Context(), identity)
	if err != nil {
		appErr := mapAccountError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromAccountSummary(summary))
}

// ListPayments godoc
// @Summary   Settled payments of the caller, newest first
// @Tags      account
// @Produce   json
// @Success   200  {array}   response.PaymentTransactionResponse
// @Failure   401  {object}  pkg.HTTPError
// @Security  Bearer
// @Router    /payments [get]
func (h *AccountHandler) ListPayments(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(errUnauthorized.HTTPStatus, errUnauthorized.ToHTTPError())
		return
	}

	txs, err := h.usecase.ListPayments(c.Request.Context(), identity)
	if err != nil {
		appErr := mapAccountError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromPaymentTransactions(txs))
}

// ListPlans godoc
// @Summary  Purchasable plans
// @Tags     plans
// @Produce  json
// @Success  200  {array}  response.PlanResponse
// @Router   /plans [get]
func (h *AccountHandler) ListPlans(c *gin.Context) {
	c.JSON(http.StatusOK, response.FromPlans(h.usecase.ListPlans()))
}

func mapAccountError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrUnauthorized):
		return pkg.NewDomainErrorSimple("UNAUTHORIZED", "Unauthorized", http.StatusUnauthorized)
	case errors.Is(err, usecase.ErrProfileNotFound):
		return pkg.NewDomainErrorSimple("PROFILE_NOT_FOUND", "Profile not found", http.StatusNotFound)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
