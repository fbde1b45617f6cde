package attachment

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/chartkeep/chartkeep/internal/platform/auth"
	"github.com/chartkeep/chartkeep/internal/platform/blobstore"
)

// Directory resolves patient identities. Implemented by the patient
// service; declared here so the packages don't import each other.
type Directory interface {
	Exists(ctx context.Context, uhid int64) (bool, error)
}

// uploadField is the multipart field name the legacy upload form posts.
const uploadField = "report_file"

type Handler struct {
	svc      *Service
	patients Directory
	files    blobstore.Store
}

func NewHandler(svc *Service, patients Directory, files blobstore.Store) *Handler {
	return &Handler{svc: svc, patients: patients, files: files}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole("admin", "physician", "nurse"))
	g.GET("/patients/:uhid/attachments", h.Summary)
	g.GET("/patients/:uhid/attachments/:category", h.List)
	g.POST("/patients/:uhid/attachments/:category", h.Create)
	g.GET("/patients/:uhid/attachments/:category/:id", h.Get)
}

func (h *Handler) Summary(c echo.Context) error {
	uhid, err := h.resolvePatient(c)
	if err != nil {
		return err
	}
	summary, err := h.svc.Summary(c.Request().Context(), uhid)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *Handler) List(c echo.Context) error {
	uhid, err := h.resolvePatient(c)
	if err != nil {
		return err
	}
	category, err := ParseCategory(c.Param("category"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	records, err := h.svc.List(c.Request().Context(), uhid, category)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, records)
}

func (h *Handler) Create(c echo.Context) error {
	uhid, err := h.resolvePatient(c)
	if err != nil {
		return err
	}
	category, err := ParseCategory(c.Param("category"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	file, err := c.FormFile(uploadField)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, uploadField+" is required")
	}
	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to open uploaded file")
	}
	defer src.Close()

	info, err := h.files.Save(c.Request().Context(), uploadField,
		file.Filename, file.Header.Get("Content-Type"), src)
	if err != nil {
		switch {
		case errors.Is(err, blobstore.ErrFileTooLarge):
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, err.Error())
		case errors.Is(err, blobstore.ErrInvalidContentType),
			errors.Is(err, blobstore.ErrMissingFileName):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	rec, err := h.svc.Create(c.Request().Context(), uhid, category,
		c.FormValue("report_name"), c.FormValue("report_comments"), info.Ref)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, rec)
}

func (h *Handler) Get(c echo.Context) error {
	uhid, err := h.resolvePatient(c)
	if err != nil {
		return err
	}
	category, err := ParseCategory(c.Param("category"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	rec, err := h.svc.Get(c.Request().Context(), uhid, category, c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) resolvePatient(c echo.Context) (int64, error) {
	uhid, err := strconv.ParseInt(c.Param("uhid"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid uhid")
	}
	ok, err := h.patients.Exists(c.Request().Context(), uhid)
	if err != nil {
		return 0, httpError(err)
	}
	if !ok {
		return 0, echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return uhid, nil
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrRecordNotFound), errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrStorageUnavailable):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
