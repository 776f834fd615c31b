package jwtmiddleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sokomart/shop/internal/service/token"
)

// HeaderName is the header the storefront sends its identity token in.
const HeaderName = "auth-token"

const userIDKey = "userID"

// FetchUser verifies the auth-token header and stashes the caller's user id
// in the echo context. Cart routes sit behind this.
func FetchUser(tokens *token.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Request().Header.Get(HeaderName)
			userID, err := tokens.Verify(raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"errors": "invalid or missing token"})
			}
			c.Set(userIDKey, userID)
			return next(c)
		}
	}
}

// UserID returns the authenticated user id placed in the context by FetchUser.
func UserID(c echo.Context) (string, error) {
	id, ok := c.Get(userIDKey).(string)
	if !ok || id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing user context")
	}
	return id, nil
}
