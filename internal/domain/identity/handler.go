package identity

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/internal/platform/auth"
)

type Handler struct {
	svc *Service
	// dev exposes the admin bootstrap endpoint; never enabled in production.
	dev bool
}

func NewHandler(svc *Service, dev bool) *Handler {
	return &Handler{svc: svc, dev: dev}
}

func (h *Handler) RegisterRoutes(api *echo.Group, guard echo.MiddlewareFunc) {
	authGroup := api.Group("/auth")
	authGroup.POST("/send-otp", h.SendOTP)
	authGroup.POST("/verify-otp", h.VerifyOTP)
	authGroup.POST("/register", h.Register)
	authGroup.POST("/login", h.Login)
	if h.dev {
		authGroup.POST("/create-admin", h.CreateAdmin)
	}

	profile := api.Group("/profile", guard)
	profile.GET("", h.GetProfile)
	profile.PUT("", h.UpdateProfile)
}

func (h *Handler) SendOTP(c echo.Context) error {
	var body struct {
		Phone string `json:"phone"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if body.Phone == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Phone number required")
	}

	err := h.svc.RequestOTP(c.Request().Context(), body.Phone)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, map[string]string{"message": "OTP sent successfully"})
	case errors.Is(err, ErrInvalidPhone):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid phone number format")
	case errors.Is(err, ErrPhoneTaken):
		return echo.NewHTTPError(http.StatusConflict,
			"Phone number already registered. Please use a different number or try logging in.")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error sending OTP")
	}
}

func (h *Handler) VerifyOTP(c echo.Context) error {
	var body struct {
		Phone string `json:"phone"`
		OTP   string `json:"otp"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if !ValidPhone(body.Phone) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid phone number format")
	}
	if len(body.OTP) != 6 {
		return echo.NewHTTPError(http.StatusBadRequest, "OTP must be 6 digits")
	}

	grant, err := h.svc.VerifyOTP(c.Request().Context(), body.Phone, body.OTP)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, grant)
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "User not found. Please request OTP again.")
	case errors.Is(err, ErrOTPExpired):
		return echo.NewHTTPError(http.StatusBadRequest, "OTP has expired. Please request a new one.")
	case errors.Is(err, ErrOTPMismatch):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid OTP. Please check and try again.")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error verifying OTP")
	}
}

func (h *Handler) Register(c echo.Context) error {
	var in RegisterInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	userID, created, err := h.svc.Register(c.Request().Context(), in)
	switch {
	case err == nil:
		message := "Registration successful. Please verify OTP."
		if !created {
			message = "Registration updated. Please verify OTP."
		}
		return c.JSON(http.StatusCreated, map[string]interface{}{
			"message": message,
			"userId":  userID,
		})
	case errors.Is(err, ErrPhoneTaken):
		return echo.NewHTTPError(http.StatusConflict,
			"Phone number already registered. Please use a different number or try logging in.")
	case errors.Is(err, ErrEmailTaken):
		return echo.NewHTTPError(http.StatusConflict,
			"Email already registered. Please use a different email or try logging in.")
	case errors.Is(err, ErrInvalidPhone):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid phone number format")
	case isValidation(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error during registration")
	}
}

func (h *Handler) Login(c echo.Context) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	grant, err := h.svc.Login(c.Request().Context(), body.Email, body.Password)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, grant)
	case errors.Is(err, ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, ErrNoPassword):
		return echo.NewHTTPError(http.StatusUnauthorized,
			"No password set for this account. Please use phone verification.")
	case isValidation(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error during login")
	}
}

func (h *Handler) CreateAdmin(c echo.Context) error {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	grant, created, err := h.svc.CreateAdmin(c.Request().Context(), body.Name, body.Email, body.Password)
	switch {
	case err == nil && created:
		return c.JSON(http.StatusCreated, map[string]interface{}{
			"message": "Admin user created successfully",
			"token":   grant.Token,
			"user":    grant.User,
		})
	case err == nil:
		return c.JSON(http.StatusOK, map[string]interface{}{
			"message": "Admin already exists. Logged in successfully.",
			"token":   grant.Token,
			"user":    grant.User,
		})
	case errors.Is(err, ErrEmailTaken):
		return echo.NewHTTPError(http.StatusConflict, "Email already in use by a non-admin user")
	case errors.Is(err, ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid admin credentials")
	case isValidation(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error creating admin")
	}
}

func (h *Handler) GetProfile(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	user, err := h.svc.Get(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	var in ProfileUpdate
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, err := h.svc.UpdateProfile(c.Request().Context(), userID, in)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, user)
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	case errors.Is(err, ErrEmailTaken):
		return echo.NewHTTPError(http.StatusConflict, "Email already taken")
	case errors.Is(err, ErrPhoneTaken):
		return echo.NewHTTPError(http.StatusConflict, "Phone already taken")
	case errors.Is(err, ErrInvalidPhone):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid phone number format")
	case isValidation(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
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

// isValidation distinguishes input validation failures (plain fmt.Errorf from
// the service's validate paths) from store/signing failures wrapped with %w.
func isValidation(err error) bool {
	return errors.Unwrap(err) == nil
}
