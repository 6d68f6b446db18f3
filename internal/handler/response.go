package handler

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"school-service/internal/apperr"
	"school-service/internal/tenant"
	"school-service/pkg/logger"
	"school-service/prometheus"
)

var validate = validator.New()

// Response is the JSON envelope every endpoint returns.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

// ErrorBody carries the error kind so clients can branch on it instead of
// matching message strings.
type ErrorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func ok(c echo.Context, status int, data interface{}, message string) error {
	return c.JSON(status, Response{Success: true, Data: data, Message: message})
}

// fail converts a service error into the envelope, logging internal errors
// with their cause and counting every failure by kind.
func fail(c echo.Context, err error) error {
	ae := apperr.From(err)
	prometheus.RecordError(string(ae.Kind))
	log := logger.FromEcho(c)
	if ae.Kind == apperr.KindInternal {
		log.Error("request failed", zap.Error(ae))
	} else {
		log.Warn("request rejected",
			zap.String("kind", string(ae.Kind)),
			zap.String("reason", ae.Message))
	}
	return c.JSON(ae.Status(), Response{
		Success: false,
		Error: &ErrorBody{
			Kind:    string(ae.Kind),
			Message: ae.Message,
			Detail:  ae.Detail,
		},
	})
}

// bindAndValidate decodes the JSON body and runs struct tag validation.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperr.Validationf("invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return apperr.Validationf("invalid request body").
				WithDetail("field %s failed on %s", errs[0].Field(), errs[0].Tag())
		}
		return apperr.Validationf("invalid request body")
	}
	return nil
}

func paramID(c echo.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, apperr.Validationf("invalid %s", name)
	}
	return uint(id), nil
}

func queryID(c echo.Context, name string) (uint, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, apperr.Validationf("invalid %s", name)
	}
	return uint(id), nil
}

// scope resolves the caller's tenant context; requests without one fail
// unauthenticated.
func scope(c echo.Context) (tenant.Context, error) {
	return tenant.FromEcho(c)
}
