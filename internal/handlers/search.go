package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"family_album/internal/service/search"
	"family_album/internal/util"
)

type SearchHandler struct {
	Index *search.ESIndex
}

func (h *SearchHandler) Search(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	from, limit := util.Calculate(page, size)

	total, docs, err := h.Index.Search(c.Request().Context(), q, from, limit)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, map[string]any{"total": total, "results": docs})
}
