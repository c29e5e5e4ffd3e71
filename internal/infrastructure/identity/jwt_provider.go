package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sasa_billing/internal/domain/entities"
	"sasa_billing/internal/usecase/interfaces"

	"github.com/golang-jwt/jwt/v5"
)

var ErrMissingJWTSecret = errors.New("missing jwt secret")

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTIdentityProvider verifies HS256 session tokens locally with the
// project's JWT secret. The user id is the sub claim.
type JWTIdentityProvider struct {
	secret []byte
	parser *jwt.Parser
}

var _ interfaces.IIdentityProvider = (*JWTIdentityProvider)(nil)

func NewJWTIdentityProvider(secret, issuer, audience string) (*JWTIdentityProvider, error) {
	if secret == "" {
		return nil, ErrMissingJWTSecret
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(30 * time.Second),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}
	return &JWTIdentityProvider{secret: []byte(secret), parser: jwt.NewParser(opts...)}, nil
}

func (p *JWTIdentityProvider) ResolveUser(_ context.Context, bearerToken string) (entities.Identity, error) {
	var claims sessionClaims
	_, err := p.parser.ParseWithClaims(strings.TrimSpace(bearerToken), &claims, func(*jwt.Token) (interface{}, error) {
		return p.secret, nil
	})
	if err != nil {
		return entities.Identity{}, fmt.Errorf("%w: %v", interfaces.ErrInvalidToken, err)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return entities.Identity{}, fmt.Errorf("%w: token has no subject", interfaces.ErrInvalidToken)
	}
	return entities.Identity{UserID: claims.Subject, Email: claims.Email}, nil
}
