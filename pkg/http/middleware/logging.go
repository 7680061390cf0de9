package middleware

import (
	"time"

	"InvenPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RequestLogging logs each request with method, path, status and latency.
func RequestLogging(lgr *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			start := time.Now()

			err := next(c)

			lgr.Info("http request",
				logger.String("method", req.Method),
				logger.String("path", req.RequestURI),
				logger.Int("status", c.Response().Status),
				logger.Int64("latency_ms", time.Since(start).Milliseconds()))

			return err
		}
	}
}
