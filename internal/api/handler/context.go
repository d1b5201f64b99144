package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kshitij-kamdi/civic-stream/internal/core/ports"
)

// ctxActor extracts the acting user injected by the Auth middleware and
// performs a fast-fail check before any service call: both the user id and
// the role must be present, otherwise the token is structurally valid but
// operationally unusable.
func ctxActor(c echo.Context) (ports.Actor, error) {
	userID, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(string)
	if userID == "" || role == "" {
		return ports.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	name, _ := c.Get("name").(string)
	return ports.Actor{ID: userID, Name: name, Role: role}, nil
}
