package middlewares

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/inferlab/predictd/pkg/metrics"
)

// HeaderXProcessTime reports how long the server spent on a request,
// formatted like "0.004s".
const HeaderXProcessTime = "X-Process-Time"

// Timing stamps every response with X-Request-ID and X-Process-Time and
// feeds the request duration histogram.
//
// An inbound request id is kept so callers can trace a request end to
// end; a request without one gets a fresh uuid. The headers are queued
// on response hooks because the handler commits the response before
// this middleware sees it again.
func Timing(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reqId := c.Request().Header.Get(echo.HeaderXRequestID)
			if reqId == "" {
				reqId = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, reqId)

			begin := time.Now()
			c.Response().Before(func() {
				c.Response().Header().Set(
					HeaderXProcessTime,
					fmt.Sprintf("%.3fs", time.Since(begin).Seconds()),
				)
			})
			c.Response().After(func() {
				m.RequestDuration.WithLabelValues(
					c.Request().Method,
					c.Path(),
					strconv.Itoa(c.Response().Status),
				).Observe(time.Since(begin).Seconds())
			})

			return next(c)
		}
	}
}
