package handlers

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"family_album/internal/jwtmiddleware"
	"family_album/internal/repo"
	"family_album/internal/service"
	"family_album/internal/storage"
	"family_album/internal/util"
)

type MediaHandler struct {
	Media *service.MediaService
}

// Upload accepts one or more files under the "files" multipart field.
func (h *MediaHandler) Upload(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "multipart form required")
	}
	files := form.File["files"]
	if len(files) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no files provided")
	}

	userID := jwtmiddleware.UserID(c)

	var inputs []service.UploadInput
	var opened []io.Closer
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	for _, fh := range files {
		src, err := fh.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "failed to open upload")
		}
		opened = append(opened, src)
		inputs = append(inputs, service.UploadInput{
			FileName:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Reader:      src,
		})
	}

	if len(inputs) == 1 {
		view, err := h.Media.Upload(c.Request().Context(), userID, inputs[0])
		if err != nil {
			return fail(c, err)
		}
		return ok(c, http.StatusCreated, view)
	}

	result := h.Media.UploadMany(c.Request().Context(), userID, inputs)
	return ok(c, http.StatusCreated, result)
}

func (h *MediaHandler) Get(c echo.Context) error {
	view, err := h.Media.Get(c.Request().Context(), c.Param("id"), jwtmiddleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, view)
}

func (h *MediaHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	offset, limit := util.Calculate(page, size)
	if page < 1 {
		page = 1
	}

	filter := repo.MediaFilter{Type: c.QueryParam("type")}
	if v := c.QueryParam("start_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "start_date must be YYYY-MM-DD")
		}
		filter.StartDate = &t
	}
	if v := c.QueryParam("end_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "end_date must be YYYY-MM-DD")
		}
		// end_date is inclusive; the repo filter is exclusive.
		t = t.AddDate(0, 0, 1)
		filter.EndDate = &t
	}

	list, err := h.Media.List(c.Request().Context(), filter, page, size, offset, limit, jwtmiddleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, list)
}

func (h *MediaHandler) Dates(c echo.Context) error {
	dates, err := h.Media.DistinctDates(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, dates)
}

func (h *MediaHandler) Delete(c echo.Context) error {
	if err := h.Media.Delete(c.Request().Context(), c.Param("id"), jwtmiddleware.UserID(c)); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *MediaHandler) DownloadURL(c echo.Context) error {
	expiry := storage.DefaultURLExpiry
	if v := c.QueryParam("expiry_minutes"); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil || minutes <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "expiry_minutes must be a positive integer")
		}
		expiry = time.Duration(minutes) * time.Minute
	}

	url, err := h.Media.DownloadURL(c.Request().Context(), c.Param("id"), expiry)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, map[string]string{"url": url})
}
