package identity

import (
	"fmt"

	"sasa_billing/internal/config"
	"sasa_billing/internal/usecase/interfaces"
)

// NewProvider builds the identity provider selected by AUTH_MODE.
func NewProvider(cfg config.Config) (interfaces.IIdentityProvider, error) {
	switch cfg.Auth.Mode {
	case config.AuthModeJWT:
		p, err := NewJWTIdentityProvider(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience)
		if err != nil {
			return nil, err
		}
		return p, nil
	case config.AuthModeSupabase:
		p, err := NewSupabaseIdentityProvider(cfg.Supabase.URL, cfg.Supabase.AnonKey, cfg.Supabase.Timeout)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unsupported auth mode %q", cfg.Auth.Mode)
	}
}
