package middlewares

import (
	"crypto/subtle"
	"fmt"

	"github.com/labstack/echo/v4"

	apierr "github.com/inferlab/predictd/pkg/api/types/errors"
)

// APIKeyAuth guards every route except the whitelisted paths.
//
// A request without the key header is rejected 401, one with a wrong key
// 403. The comparison is constant-time, so response timing leaks nothing
// about how much of the key matched. An empty key matches nothing:
// guarded routes reject every caller until a key is configured.
func APIKeyAuth(header string, key string, whitelist ...string) echo.MiddlewareFunc {
	open := make(map[string]bool, len(whitelist))
	for _, path := range whitelist {
		open[path] = true
	}
	expected := []byte(key)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if open[c.Path()] {
				return next(c)
			}

			got := c.Request().Header.Get(header)
			if got == "" {
				return apierr.Unauthorized(fmt.Sprintf("set the %s header", header))
			}
			if subtle.ConstantTimeCompare([]byte(got), expected) != 1 {
				return apierr.Forbidden("the api key is not accepted")
			}
			return next(c)
		}
	}
}
