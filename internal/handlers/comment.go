package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"family_album/internal/jwtmiddleware"
	"family_album/internal/service"
)

type CommentHandler struct {
	Comments *service.CommentService
}

func (h *CommentHandler) Create(c echo.Context) error {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	comment, err := h.Comments.Create(c.Request().Context(), jwtmiddleware.UserID(c), c.Param("id"), req.Content)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusCreated, comment)
}

func (h *CommentHandler) List(c echo.Context) error {
	comments, err := h.Comments.List(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, comments)
}

func (h *CommentHandler) Delete(c echo.Context) error {
	if err := h.Comments.Delete(c.Request().Context(), c.Param("commentId"), jwtmiddleware.UserID(c)); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
