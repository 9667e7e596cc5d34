package jwtmiddleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"family_album/internal/models"
	"family_album/internal/tokens"
)

const (
	ctxUserID = "userID"
	ctxEmail  = "userEmail"
	ctxRole   = "userRole"
)

// RequireAuth verifies the bearer access token and stores the caller's
// identity on the request context.
func RequireAuth(codec *tokens.Codec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" || !codec.Verify(token) {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing access token")
			}

			sub, err := codec.Subject(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
			}
			email, err := codec.Email(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
			}
			role, err := codec.Role(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
			}

			c.Set(ctxUserID, sub)
			c.Set(ctxEmail, email)
			c.Set(ctxRole, role)
			return next(c)
		}
	}
}

// OptionalAuth populates identity when a valid token is present but lets
// anonymous requests through. Used by logout, where the cookie may be
// the only credential.
func OptionalAuth(codec *tokens.Codec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token := bearerToken(c); token != "" && codec.Verify(token) {
				if sub, err := codec.Subject(token); err == nil {
					c.Set(ctxUserID, sub)
				}
				if role, err := codec.Role(token); err == nil {
					c.Set(ctxRole, role)
				}
			}
			return next(c)
		}
	}
}

// RequireAdmin gates upload/management routes. Must run after RequireAuth.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if Role(c) != models.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin role required")
		}
		return next(c)
	}
}

func UserID(c echo.Context) string {
	if v, ok := c.Get(ctxUserID).(string); ok {
		return v
	}
	return ""
}

func Role(c echo.Context) string {
	if v, ok := c.Get(ctxRole).(string); ok {
		return v
	}
	return ""
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
