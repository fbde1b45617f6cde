package blobstore

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/chartkeep/chartkeep/pkg/pagination"
)

// Handler serves stored uploads over HTTP: download by reference and a
// paged listing for operational inspection.
type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/files", h.List)
	g.GET("/files/*", h.Download)
}

func (h *Handler) Download(c echo.Context) error {
	ref := "files/" + strings.TrimPrefix(c.Param("*"), "files/")

	rc, info, err := h.store.Open(c.Request().Context(), ref)
	if err != nil {
		if errors.Is(err, ErrFileNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "file not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	defer rc.Close()

	c.Response().Header().Set("Content-Disposition",
		fmt.Sprintf(`inline; filename="%s"`, info.OriginalName))
	return c.Stream(http.StatusOK, info.ContentType, rc)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.store.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
