package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"family_album/internal/jwtmiddleware"
	"family_album/internal/service"
)

type LikeHandler struct {
	Likes *service.LikeService
}

func (h *LikeHandler) Toggle(c echo.Context) error {
	result, err := h.Likes.Toggle(c.Request().Context(), jwtmiddleware.UserID(c), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, result)
}

func (h *LikeHandler) List(c echo.Context) error {
	likes, err := h.Likes.List(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, likes)
}

func (h *LikeHandler) Count(c echo.Context) error {
	count, err := h.Likes.Count(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, map[string]int64{"like_count": count})
}
