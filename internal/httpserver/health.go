package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type HealthHTTP struct {
	DB  *gorm.DB
	Env string
}

func (h *HealthHTTP) Health(c echo.Context) error {
	database := "disconnected"
	if h.DB != nil {
		if sqlDB, err := h.DB.DB(); err == nil && sqlDB.PingContext(c.Request().Context()) == nil {
			database = "connected"
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":      "healthy",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"database":    database,
		"environment": h.Env,
	})
}
