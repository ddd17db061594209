package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// TokenContextKey is the echo context key holding the raw bearer token.
const TokenContextKey = "bearer_token"

// BearerToken extracts the bearer credential from the Authorization header
// and stashes it in the request context. It never rejects the request:
// mutating endpoints resolve their target before the caller, so token
// validation is deferred to the handler flow. An absent or malformed header
// leaves an empty token, which fails validation downstream.
func BearerToken() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header != "" {
				parts := strings.SplitN(header, " ", 2)
				if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
					c.Set(TokenContextKey, strings.TrimSpace(parts[1]))
				}
			}
			return next(c)
		}
	}
}

// Token returns the bearer token stashed by BearerToken, or "" when the
// request carried none.
func Token(c echo.Context) string {
	token, _ := c.Get(TokenContextKey).(string)
	return token
}
