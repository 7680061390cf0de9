package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"InvenPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Recover returns panic recovery middleware.
func Recover(lgr *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				if r := recover(); r != nil {
					err, ok := r.(error)
					if !ok {
						err = fmt.Errorf("%v", r)
					}
					lgr.Error("panic recovered",
						logger.String("path", c.Path()),
						logger.Error(err),
						logger.String("stack", string(debug.Stack())))
					_ = c.JSON(http.StatusInternalServerError, map[string]interface{}{
						"status":  http.StatusInternalServerError,
						"message": "Internal Server Error",
					})
				}
			}()
			return next(c)
		}
	}
}
