package payments

import (
	"fmt"

	"sasa_billing/internal/config"
	"sasa_billing/internal/usecase/interfaces"
)

// NewGateway builds the gateway selected by configuration. sign is only used
// by the mock gateway to produce checkout signatures.
func NewGateway(cfg config.Config, sign func(orderID, paymentID string) string) (interfaces.IPaymentGateway, error) {
	if cfg.Gateway.MockEnabled() {
		return NewMockGateway(sign), nil
	}
	switch cfg.Gateway.Provider {
	case config.GatewayRazorpay:
		g, err := NewRazorpayGateway(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, cfg.Gateway.Timeout)
		if err != nil {
			return nil, err
		}
		return g, nil
	case config.GatewayMercadoPago:
		g, err := NewMercadoPagoGateway(cfg.MercadoPago.AccessToken, cfg.Gateway.Timeout)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, fmt.Errorf("unsupported payment gateway %q", cfg.Gateway.Provider)
	}
}
