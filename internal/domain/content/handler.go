package content

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/internal/domain/identity"
	"github.com/clinic/clinic/internal/platform/auth"
	"github.com/clinic/clinic/pkg/pagination"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(api *echo.Group, guard echo.MiddlewareFunc) {
	g := api.Group("/content", guard)
	g.GET("", h.List)
	g.POST("", h.Create, auth.RequireRole(identity.RoleAdmin))
}

func (h *Handler) List(c echo.Context) error {
	items, err := h.svc.List(c.Request().Context(), c.QueryParam("category"), pagination.FromContext(c))
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, items)
	case errors.Is(err, ErrInvalidCategory):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid category")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
}

func (h *Handler) Create(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	it, err := h.svc.Create(c.Request().Context(), in)
	switch {
	case err == nil:
		return c.JSON(http.StatusCreated, it)
	case errors.Is(err, ErrInvalidCategory):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid category")
	case errors.Unwrap(err) == nil:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
}
