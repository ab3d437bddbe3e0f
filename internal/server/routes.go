package server

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"SessionInsightsServer/internal/auth"
	"SessionInsightsServer/internal/model"
)

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	e.Validator = NewValidator()

	renderer, err := NewRenderer()
	if err != nil {
		log.Fatal().Err(err).Msg("could not parse templates")
	}
	e.Renderer = renderer

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.GET("/", s.indexHandler)
	e.GET("/health", s.healthHandler)

	// AUTH endpoints
	e.GET("/login", s.loginPageHandler)
	e.POST("/login", s.loginHandler)
	e.GET("/logout", s.logoutHandler, s.SessionAuthMiddleware)

	// Entry pages and upload paths
	e.GET("/input", s.inputPageHandler, s.SessionAuthMiddleware)
	e.POST("/form-upload", s.formUploadHandler, s.SessionAuthMiddleware)
	e.POST("/upload", s.uploadHandler, s.SessionAuthMiddleware)

	// Report pages
	e.GET("/insights", s.insightsPageHandler)
	e.GET("/reports", s.reportsPageHandler)

	// Api v1 endpoints
	apiV1 := e.Group("/api/v1")
	apiV1.GET("/insights", s.apiInsightsHandler)
	apiV1.GET("/sessions", s.apiSessionsHandler)
	apiV1.GET("/sessions/:id", s.apiGetSessionHandler)
	apiV1.POST("/upload", s.apiUploadHandler, s.SessionAuthMiddleware)
	apiV1.DELETE("/sessions/:id", s.apiDeleteSessionHandler, s.SessionAuthMiddleware)

	return e
}

// flash carries the one-shot messages pages show after a redirect.
type flash struct {
	Error   string
	Message string
}

func flashFrom(c echo.Context) flash {
	return flash{
		Error:   c.QueryParam("error"),
		Message: c.QueryParam("message"),
	}
}

// redirectWith sends the browser to path with a flash parameter attached.
func redirectWith(c echo.Context, path, kind, text string) error {
	return c.Redirect(http.StatusFound, path+"?"+kind+"="+url.QueryEscape(text))
}

func (s *Server) healthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, s.db.Health())
}

func (s *Server) indexHandler(c echo.Context) error {
	return c.Render(http.StatusOK, "index.html", flashFrom(c))
}

func (s *Server) inputPageHandler(c echo.Context) error {
	return c.Render(http.StatusOK, "input.html", flashFrom(c))
}

type loginPage struct {
	flash
	Next string
}

func (s *Server) loginPageHandler(c echo.Context) error {
	return c.Render(http.StatusOK, "login.html", loginPage{
		flash: flashFrom(c),
		Next:  c.QueryParam("next"),
	})
}

func (s *Server) loginHandler(c echo.Context) error {
	username := strings.TrimSpace(c.FormValue("username"))
	password := strings.TrimSpace(c.FormValue("password"))

	if !s.verifier.Verify(username, password) {
		return c.Render(http.StatusUnauthorized, "login.html", loginPage{
			flash: flash{Error: "Invalid username or password"},
			Next:  c.QueryParam("next"),
		})
	}

	token, expiresAt, err := s.sessions.Create()
	if err != nil {
		log.Error().Err(err).Msg("could not create session")
		return c.Render(http.StatusInternalServerError, "login.html", loginPage{
			flash: flash{Error: "Login failed, please try again"},
		})
	}

	c.SetCookie(&http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	if next := c.QueryParam("next"); next != "" && strings.HasPrefix(next, "/") {
		return c.Redirect(http.StatusFound, next)
	}
	return redirectWith(c, "/", "message", "Login successful!")
}

func (s *Server) logoutHandler(c echo.Context) error {
	if cookie, err := c.Cookie(auth.CookieName); err == nil {
		s.sessions.Destroy(cookie.Value)
	}

	c.SetCookie(&http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	})

	return redirectWith(c, "/", "message", "You have been logged out")
}

type insightsPage struct {
	flash
	Insights any
}

func (s *Server) insightsPageHandler(c echo.Context) error {
	insights, err := s.db.GetInsights()
	if err != nil {
		log.Error().Err(err).Msg("could not compute insights")
		return echo.NewHTTPError(http.StatusInternalServerError, "Could not compute insights")
	}

	return c.Render(http.StatusOK, "insights.html", insightsPage{
		flash:    flashFrom(c),
		Insights: insights,
	})
}

type reportsPage struct {
	flash
	Sessions any
	Insights any
}

func (s *Server) reportsPageHandler(c echo.Context) error {
	records, err := s.db.GetSessionRecords()
	if err != nil {
		log.Error().Err(err).Msg("could not list session records")
		return echo.NewHTTPError(http.StatusInternalServerError, "Could not list session records")
	}

	insights, err := s.db.GetInsights()
	if err != nil {
		log.Error().Err(err).Msg("could not compute insights")
		return echo.NewHTTPError(http.StatusInternalServerError, "Could not compute insights")
	}

	dtos := make([]model.SessionRecordDTO, len(records), len(records))
	for i, record := range records {
		dtos[i] = record.DTO()
	}

	return c.Render(http.StatusOK, "reports.html", reportsPage{
		flash:    flashFrom(c),
		Sessions: dtos,
		Insights: insights,
	})
}
