package middleware

import (
	"errors"
	"net/http"
	"strings"

	"sasa_billing/internal/domain/entities"
	"sasa_billing/internal/usecase/interfaces"
	"sasa_billing/pkg"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const identityKey = "billing.identity"

var (
	errUnauthorized = pkg.NewDomainErrorSimple("UNAUTHORIZED", "Unauthorized", http.StatusUnauthorized)
	errInternal     = pkg.NewDomainErrorSimple("INTERNAL_ERROR", "An internal error occurred", http.StatusInternalServerError)
)

// Auth resolves the bearer token into an Identity and stores it on the
// request. The identity is scoped to this request only.
func Auth(provider interfaces.IIdentityProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(errUnauthorized.HTTPStatus, errUnauthorized.ToHTTPError())
			return
		}

		identity, err := provider.ResolveUser(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, interfaces.ErrInvalidToken) {
				log.Debug().Err(err).Str("request_id", RequestIDFrom(c)).Msg("[auth][middleware] token rejected")
				c.AbortWithStatusJSON(errUnauthorized.HTTPStatus, errUnauthorized.ToHTTPError())
				return
			}
			log.Error().Err(err).Str("request_id", RequestIDFrom(c)).Msg("[auth][middleware] identity provider failed")
			c.AbortWithStatusJSON(errInternal.HTTPStatus, errInternal.ToHTTPError())
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// IdentityFrom returns the identity Auth stored on the request.
func IdentityFrom(c *gin.Context) (entities.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return entities.Identity{}, false
	}
	identity, ok := v.(entities.Identity)
	return identity, ok
}

// SetIdentity is used by tests that mount handlers without Auth.
func SetIdentity(c *gin.Context, identity entities.Identity) {
	c.Set(identityKey, identity)
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
