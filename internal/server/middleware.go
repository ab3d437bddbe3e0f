package server

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"SessionInsightsServer/internal/auth"
)

// SessionAuthMiddleware guards operations behind the admin session cookie.
// API-style calls get a JSON 401; everything else is redirected to the
// login page with a next parameter back to the original URL.
func (s *Server) SessionAuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(auth.CookieName)
		if err == nil && s.sessions.Validate(cookie.Value) {
			return next(c)
		}

		if strings.HasPrefix(c.Request().URL.Path, "/api/") {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
		}

		return c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request().URL.RequestURI()))
	}
}
