package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"school-service/internal/service"
	"school-service/pkg/logger"
	"school-service/prometheus"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}
	prometheus.LoginCounter.Inc()

	defer prometheus.TrackDBOperation("query")(time.Now())
	result, err := h.svc.Login(service.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return fail(c, err)
	}

	logger.FromEcho(c).Info("user logged in",
		zap.Uint("user_id", result.User.ID),
		zap.String("role", result.User.Role))
	return ok(c, http.StatusOK, result, "login successful")
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c echo.Context) error {
	t, err := scope(c)
	if err != nil {
		return fail(c, err)
	}
	user, err := h.svc.Me(t)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, user, "")
}
