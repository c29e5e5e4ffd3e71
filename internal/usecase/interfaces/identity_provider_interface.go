package interfaces

import (
	"context"
	"errors"

	"sasa_billing/internal/domain/entities"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// IIdentityProvider resolves a bearer token to the calling user.
type IIdentityProvider interface {
	ResolveUser(ctx context.Context, bearerToken string) (entities.Identity, error)
}
