package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxUserID extracts the identity injected by the Auth middleware and
// fast-fails before any service call. An empty user id means the
// middleware did not run for this route; treat it as unauthenticated
// rather than proceeding with an unscoped identity.
func ctxUserID(c echo.Context) (string, error) {
	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, nil
}
