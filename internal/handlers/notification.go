package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"family_album/internal/jwtmiddleware"
	"family_album/internal/service"
	"family_album/internal/util"
)

type NotificationHandler struct {
	Notifications *service.NotificationService
}

func (h *NotificationHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	offset, limit := util.Calculate(page, size)
	if page < 1 {
		page = 1
	}

	list, err := h.Notifications.List(c.Request().Context(), jwtmiddleware.UserID(c), page, size, offset, limit)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, list)
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	if err := h.Notifications.MarkRead(c.Request().Context(), c.Param("id"), jwtmiddleware.UserID(c)); err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, map[string]string{"message": "marked as read"})
}

func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	if err := h.Notifications.MarkAllRead(c.Request().Context(), jwtmiddleware.UserID(c)); err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, map[string]string{"message": "all marked as read"})
}

func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	count, err := h.Notifications.UnreadCount(c.Request().Context(), jwtmiddleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, map[string]int64{"unread_count": count})
}
