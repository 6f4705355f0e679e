package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authService "github.com/allisson/farmaggregator/internal/auth/service"
	authUseCase "github.com/allisson/farmaggregator/internal/auth/usecase"
	apperrors "github.com/allisson/farmaggregator/internal/errors"
	"github.com/allisson/farmaggregator/internal/httputil"
)

const bearerPrefix = "bearer "

// AuthenticationMiddleware authenticates requests via a Bearer token in the Authorization header.
//
// On success the client and its farm access grant are stored in the request context
// and can be read with GetClient and GetGrant.
//
// Error handling:
//   - Missing or malformed Authorization header → 401 Unauthorized
//   - Unknown, expired or revoked token → 401 Unauthorized
//   - Inactive client → 403 Forbidden
func AuthenticationMiddleware(
	tokenUseCase authUseCase.TokenUseCase,
	tokenService authService.TokenService,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: missing or malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		plainToken := strings.TrimSpace(authHeader[len(bearerPrefix):])
		if plainToken == "" {
			logger.Debug("authentication failed: empty bearer token")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		client, err := tokenUseCase.Authenticate(c.Request.Context(), tokenService.HashToken(plainToken))
		if err != nil {
			logger.Debug("authentication failed", slog.Any("error", err))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		ctx := WithClient(c.Request.Context(), client)
		ctx = WithGrant(ctx, client.Grant())
		c.Request = c.Request.WithContext(ctx)

		logger.Debug("authentication successful",
			slog.String("client_id", client.ID.String()),
			slog.String("client_name", client.Name))

		c.Next()
	}
}
