package handlers

import (
	"context"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"family_album/internal/jwtmiddleware"
	"family_album/internal/service"
)

const refreshCookieName = "refreshToken"
const authCookiePath = "/api/auth"

type AuthHandler struct {
	Auth       *service.AuthService
	Users      *service.UserService
	Producer   service.EventPublisher
	RefreshTTL time.Duration
}

func refreshCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     refreshCookieName,
		Value:    value,
		Path:     authCookiePath,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
}

func (h *AuthHandler) setRefreshCookie(c echo.Context, token string) {
	c.SetCookie(refreshCookie(token, int(h.RefreshTTL.Seconds())))
}

func (h *AuthHandler) clearRefreshCookie(c echo.Context) {
	c.SetCookie(refreshCookie("", -1))
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid email address")
	}
	if len(req.Password) < 8 {
		return echo.NewHTTPError(http.StatusBadRequest, "password must be at least 8 characters")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	result, err := h.Auth.Register(c.Request().Context(), req.Email, req.Password, req.Name)
	if err != nil {
		return fail(c, err)
	}

	h.publish(c, "user_registered", result.User.ID)
	h.setRefreshCookie(c, result.RefreshToken)
	return ok(c, http.StatusCreated, result)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := h.Auth.Login(c.Request().Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		return fail(c, err)
	}

	h.publish(c, "user_logged_in", result.User.ID)
	h.setRefreshCookie(c, result.RefreshToken)
	return ok(c, http.StatusOK, result)
}

// Refresh accepts the token from the auth cookie or, failing that, the
// request body.
func (h *AuthHandler) Refresh(c echo.Context) error {
	token := ""
	if cookie, err := c.Cookie(refreshCookieName); err == nil {
		token = cookie.Value
	}
	if token == "" {
		var req struct {
			RefreshToken string `json:"refresh_token"`
		}
		if err := c.Bind(&req); err == nil {
			token = req.RefreshToken
		}
	}
	if token == "" {
		return c.JSON(http.StatusUnauthorized, ApiResponse{
			Success: false,
			Error:   &ErrorInfo{Code: "UNAUTHORIZED", Message: "refresh token is missing"},
		})
	}

	result, err := h.Auth.Refresh(c.Request().Context(), token)
	if err != nil {
		return fail(c, err)
	}

	h.setRefreshCookie(c, result.RefreshToken)
	return ok(c, http.StatusOK, result)
}

// Logout revokes the cookie's session when present, otherwise falls
// back to revoking every session of the authenticated caller. Either
// way the cookie is cleared and the call succeeds.
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	if cookie, err := c.Cookie(refreshCookieName); err == nil && cookie.Value != "" {
		if err := h.Auth.LogoutWithToken(ctx, cookie.Value); err != nil {
			return fail(c, err)
		}
	} else if userID := jwtmiddleware.UserID(c); userID != "" {
		if err := h.Auth.Logout(ctx, userID); err != nil {
			return fail(c, err)
		}
	}

	h.clearRefreshCookie(c)
	return ok(c, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *AuthHandler) Me(c echo.Context) error {
	userID := jwtmiddleware.UserID(c)
	if userID == "" {
		return c.JSON(http.StatusUnauthorized, ApiResponse{
			Success: false,
			Error:   &ErrorInfo{Code: "UNAUTHORIZED", Message: "authentication required"},
		})
	}

	user, err := h.Users.GetByID(c.Request().Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, user)
}

func (h *AuthHandler) publish(c echo.Context, eventType, userID string) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	event := map[string]interface{}{"type": eventType, "user_id": userID}
	if err := h.Producer.PublishEvent(ctx, "user_events", userID, event); err != nil {
		c.Logger().Errorf("kafka publish error: %v", err)
	}
}
