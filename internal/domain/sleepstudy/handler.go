package sleepstudy

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/internal/platform/auth"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(api *echo.Group, guard echo.MiddlewareFunc) {
	g := api.Group("/sleep-study", guard)
	g.GET("", h.List)
	g.POST("/request", h.Request)
	g.PATCH("/:id/status", h.UpdateStatus)
	g.POST("/:id/upload", h.Upload)
}

func (h *Handler) List(c echo.Context) error {
	callerID, err := callerID(c)
	if err != nil {
		return err
	}
	role := auth.RoleFromContext(c.Request().Context())

	studies, err := h.svc.List(c.Request().Context(), callerID, role)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, studies)
}

func (h *Handler) Request(c echo.Context) error {
	callerID, err := callerID(c)
	if err != nil {
		return err
	}

	var in RequestInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	study, err := h.svc.Request(c.Request().Context(), callerID, in)
	switch {
	case err == nil:
		return c.JSON(http.StatusCreated, study)
	case errors.Is(err, ErrDoctorNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Doctor not found")
	case errors.Is(err, ErrInvalidType):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid study type")
	case errors.Unwrap(err) == nil:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Sleep study not found")
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	study, err := h.svc.UpdateStatus(c.Request().Context(), id, body.Status)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, study)
	case errors.Is(err, ErrInvalidStatus):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid status")
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Sleep study not found")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
}

func (h *Handler) Upload(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Sleep study not found")
	}

	var in DocumentInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	study, err := h.svc.AttachDocument(c.Request().Context(), id, in)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, study)
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Sleep study not found")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
}

func callerID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	return id, nil
}
