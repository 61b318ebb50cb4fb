package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Root godoc
// @Summary Liveness banner
// @Tags status
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "API is running"})
}

// Health godoc
// @Summary Health check
// @Tags status
// @Produce plain
// @Success 200 {string} string "ok"
// @Router /healthz [get]
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
