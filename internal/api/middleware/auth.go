package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cleanbook/credential-service/internal/api/metrics"
	"github.com/cleanbook/credential-service/internal/core/domain"
	"github.com/cleanbook/credential-service/internal/core/ports"
)

const bearerPrefix = "Bearer "

// Auth validates the bearer token and stores its claims in the request
// context. Rejections return domain.ErrMissingToken or domain.ErrInvalidToken
// for the central error handler to render.
func Auth(verifier ports.TokenVerifier, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(authHeader, bearerPrefix) {
				metrics.GateRejectionsTotal.WithLabelValues("missing_token").Inc()
				return domain.ErrMissingToken
			}
			raw := strings.TrimSpace(authHeader[len(bearerPrefix):])
			if raw == "" {
				metrics.GateRejectionsTotal.WithLabelValues("missing_token").Inc()
				return domain.ErrMissingToken
			}

			claims, err := verifier.Verify(raw)
			if err != nil {
				metrics.GateRejectionsTotal.WithLabelValues("invalid_token").Inc()
				log.Debug().Err(err).Str("path", c.Path()).Msg("token rejected")
				return domain.ErrInvalidToken
			}

			req := c.Request()
			c.SetRequest(req.WithContext(WithClaims(req.Context(), claims)))
			return next(c)
		}
	}
}
