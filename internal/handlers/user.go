package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"family_album/internal/jwtmiddleware"
	"family_album/internal/service"
)

type UserHandler struct {
	Users *service.UserService
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, err := h.Users.UpdateProfile(c.Request().Context(), jwtmiddleware.UserID(c), req.Name)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, user)
}

func (h *UserHandler) ChangePassword(c echo.Context) error {
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.Users.ChangePassword(c.Request().Context(), jwtmiddleware.UserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, map[string]string{"message": "password changed"})
}

func (h *UserHandler) UpdateRole(c echo.Context) error {
	var req struct {
		Role string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, err := h.Users.UpdateRole(c.Request().Context(), c.Param("id"), req.Role)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, user)
}

func (h *UserHandler) List(c echo.Context) error {
	users, err := h.Users.List(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, users)
}
