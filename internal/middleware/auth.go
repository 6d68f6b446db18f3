package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"school-service/pkg/jwtutil"
	"school-service/pkg/logger"
)

// JWTAuthMiddleware validates the bearer token and stores the caller's
// identity and tenant scope in the echo context for tenant.FromEcho.
func JWTAuthMiddleware(jwtUtil *jwtutil.JWTUtil) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				log.Warn("Missing authorization header")
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "missing authorization token"})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				log.Warn("Invalid authorization header format")
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "invalid authorization format, expected Bearer token"})
			}

			claims, err := jwtUtil.ValidateToken(parts[1])
			if err != nil {
				log.Warn("Invalid or expired token", zap.Error(err))
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "invalid or expired token"})
			}

			c.Set("user_id", claims.UserID)
			c.Set("email", claims.Email)
			c.Set("aamar_id", claims.AamarID)
			c.Set("school_id", claims.SchoolID)
			c.Set("branch_id", claims.BranchID)
			c.Set("role", claims.Role)

			log.Debug("JWT token validated",
				zap.Uint("user_id", claims.UserID),
				zap.String("aamar_id", claims.AamarID))

			return next(c)
		}
	}
}
