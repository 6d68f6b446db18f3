package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"school-service/pkg/database"
)

// HealthCheck reports service and database health.
func HealthCheck(c echo.Context) error {
	status := "healthy"
	dbStatus := "up"

	sqlDB, err := database.GetDB().DB()
	if err != nil || sqlDB.Ping() != nil {
		status = "degraded"
		dbStatus = "down"
	}

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, map[string]string{
		"status":   status,
		"database": dbStatus,
		"service":  "school-service",
	})
}
