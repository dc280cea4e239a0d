package invoice

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
	g := api.Group("/invoices", guard)
	g.GET("", h.List)
	g.POST("", h.Create)
	g.PATCH("/:id/payment", h.RecordPayment)
}

func (h *Handler) List(c echo.Context) error {
	callerID, err := callerID(c)
	if err != nil {
		return err
	}
	role := auth.RoleFromContext(c.Request().Context())

	invoices, err := h.svc.List(c.Request().Context(), callerID, role)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, invoices)
}

func (h *Handler) Create(c echo.Context) error {
	callerID, err := callerID(c)
	if err != nil {
		return err
	}

	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	inv, err := h.svc.Create(c.Request().Context(), callerID, in)
	switch {
	case err == nil:
		return c.JSON(http.StatusCreated, inv)
	case errors.Unwrap(err) == nil:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
}

func (h *Handler) RecordPayment(c echo.Context) error {
	callerUUID, err := callerID(c)
	if err != nil {
		return err
	}
	role := auth.RoleFromContext(c.Request().Context())

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Invoice not found")
	}

	var body struct {
		PaymentMethod string `json:"paymentMethod"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	inv, err := h.svc.RecordPayment(c.Request().Context(), id, callerUUID, role, body.PaymentMethod)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, inv)
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Invoice not found")
	case errors.Is(err, ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "Access denied")
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
