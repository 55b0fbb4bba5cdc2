package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/retailcore/backend/internal/domain/identity"
	"github.com/retailcore/backend/internal/infrastructure/auth"
	"github.com/retailcore/backend/internal/infrastructure/logger"
	"github.com/retailcore/backend/internal/interfaces/http/dto"
)

// Context keys for authenticated identity
const (
	IdentityKey   = "identity"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// Authenticate verifies the bearer token and attaches the per-request
// identity to the gin context. Every failure, missing header, malformed
// token, expired signature or revoked JTI, is a 401; tenant admission is the
// next middleware's concern.
func Authenticate(jwtService *auth.JWTService, blacklist auth.TokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			abortUnauthenticated(c, "Authentication required")
			return
		}

		claims, err := jwtService.ValidateAccessToken(token)
		if err != nil {
			abortUnauthenticated(c, authFailureMessage(err))
			return
		}

		if blacklist != nil && claims.ID != "" {
			revoked, err := blacklist.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				// Blacklist unavailability must not turn into an open door
				logger.L(c.Request.Context()).Error("token blacklist check failed",
					zap.String("jti", claims.ID), zap.Error(err))
				abortUnauthenticated(c, "Authentication required")
				return
			}
			if revoked {
				abortUnauthenticated(c, "Token has been revoked")
				return
			}
		}

		subjectID, err := claims.SubjectUUID()
		if err != nil {
			abortUnauthenticated(c, "Invalid token")
			return
		}
		tenantID, err := claims.TenantUUID()
		if err != nil {
			abortUnauthenticated(c, "Invalid token")
			return
		}

		ident := identity.NewContext(subjectID, tenantID, identity.Role(claims.Role))
		c.Set(IdentityKey, ident)

		ctx := c.Request.Context()
		log := logger.FromContext(ctx)
		ctx, log = logger.WithSubjectID(ctx, log, subjectID.String())
		if ident.HasTenant() {
			ctx, _ = logger.WithTenantID(ctx, log, tenantID.String())
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetIdentity retrieves the authenticated identity from the gin context.
// The second return is false on routes that never passed Authenticate.
func GetIdentity(c *gin.Context) (identity.Context, bool) {
	v, exists := c.Get(IdentityKey)
	if !exists {
		return identity.Context{}, false
	}
	ident, ok := v.(identity.Context)
	return ident, ok
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader(AuthHeaderKey)
	if header == "" || !strings.HasPrefix(header, BearerPrefix) {
		return "", false
	}
	token := strings.TrimPrefix(header, BearerPrefix)
	return token, token != ""
}

func authFailureMessage(err error) string {
	switch err {
	case auth.ErrExpiredToken:
		return "Token has expired"
	case auth.ErrTokenNotYetValid:
		return "Token is not yet valid"
	default:
		return "Invalid token"
	}
}

func abortUnauthenticated(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponse(dto.ErrCodeUnauthenticated, message))
}
