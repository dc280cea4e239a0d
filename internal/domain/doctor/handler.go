package doctor

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/internal/domain/identity"
	"github.com/clinic/clinic/internal/platform/auth"
)

type Handler struct {
	svc *Service
	dev bool
}

func NewHandler(svc *Service, dev bool) *Handler {
	return &Handler{svc: svc, dev: dev}
}

func (h *Handler) RegisterRoutes(api *echo.Group, guard echo.MiddlewareFunc) {
	g := api.Group("/doctors")
	g.GET("", h.List)
	g.POST("", h.Create, guard, auth.RequireRole(identity.RoleAdmin))
	if h.dev {
		g.POST("/seed", h.Seed)
	}
}

// List is public: patients browse doctors before they authenticate.
func (h *Handler) List(c echo.Context) error {
	doctors, err := h.svc.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error listing doctors")
	}
	return c.JSON(http.StatusOK, doctors)
}

func (h *Handler) Create(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	d, err := h.svc.Create(c.Request().Context(), in)
	switch {
	case err == nil:
		return c.JSON(http.StatusCreated, d)
	case errors.Is(err, ErrDoctorExists):
		return echo.NewHTTPError(http.StatusConflict, "Doctor with this email already exists")
	case errors.Is(err, ErrEmailRoleConflict):
		return echo.NewHTTPError(http.StatusConflict, "User with this email already exists as a different role")
	case errors.Unwrap(err) == nil:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error creating doctor")
	}
}

func (h *Handler) Seed(c echo.Context) error {
	doctors, err := h.svc.Seed(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error adding sample doctors")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Sample doctors added successfully",
		"doctors": doctors,
	})
}
