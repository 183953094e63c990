package http

import (
	"log/slog"
	"net/http"

	"parceltrack/internal/core/domain/model/user"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router builds the echo instance with middleware and every route registered.
func (s *Server) Router() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewRequestValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     s.allowedOrigins(),
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: len(s.opts.AllowedOrigins) > 0,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			s.logger.LogAttrs(c.Request().Context(), level, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			)
			return nil
		},
	}))

	s.Register(e)
	return e
}

// Register mounts the API on e.
func (s *Server) Register(e *echo.Echo) {
	auth := Authenticate(s.opts.JWTSecret)

	e.GET("/health", s.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/api/live", s.Live, auth)

	parcels := e.Group("/api/parcels")
	parcels.GET("/track/:trackingNumber", s.TrackParcel)
	parcels.POST("/book", s.BookParcel, auth, RequireRole(user.Customer))
	parcels.GET("/my-parcels", s.ListMyParcels, auth, RequireRole(user.Customer))
	parcels.GET("/:id", s.GetParcel, auth)
	parcels.PATCH("/:id/status", s.UpdateParcelStatus, auth, RequireRole(user.Admin))
	parcels.GET("/:id/qr-code", s.GetParcelQRCode, auth)

	agents := e.Group("/api/agents", auth, RequireRole(user.Agent))
	agents.GET("/assigned", s.ListAssignedParcels)
	agents.POST("/scan-pickup", s.ScanForPickup)
	agents.POST("/scan-delivery", s.ScanForDelivery)
	agents.PATCH("/:parcelId/location", s.UpdateLocation)
	agents.PATCH("/:parcelId/complete", s.CompleteDelivery)

	admin := e.Group("/api/admin", auth, RequireRole(user.Admin))
	admin.POST("/assign-agent", s.AssignAgent)
}

// Health handles GET /health.
func (s *Server) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.hub.SessionCount(),
		"time":     s.now().UTC(),
	})
}

func (s *Server) allowedOrigins() []string {
	if len(s.opts.AllowedOrigins) == 0 {
		return []string{"*"}
	}
	return s.opts.AllowedOrigins
}
