package api

import (
	"path/filepath"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/Goodness-MArcel/oasis/docs"
	"github.com/Goodness-MArcel/oasis/internal/api/handler"
	"github.com/Goodness-MArcel/oasis/internal/api/middleware"
	"github.com/Goodness-MArcel/oasis/internal/core/domain"
	"github.com/Goodness-MArcel/oasis/internal/infrastructure/http/handlers"
)

const defaultBodyLimit = "12M"

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth        *handler.AuthHandler
	AdminAuth   *handler.AdminAuthHandler
	Analytics   *handler.AnalyticsHandler
	Courses     *handler.CourseHandler
	Enrollments *handler.EnrollmentHandler
	Meetings    *handler.MeetingHandler
	Users       *handler.UserAdminHandler
	Health      *handlers.HealthHandler
	Ready       *handlers.HealthDependenciesHandler
}

// RouterConfig carries the router's non-handler dependencies.
type RouterConfig struct {
	Tokens    middleware.TokenVerifier
	UploadDir string // course images; its parent is served under /uploads
	BodyLimit string
	// Registry receives the HTTP request metrics and backs /metrics. Nil uses
	// the process-wide default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig, h Handlers, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	bodyLimit := cfg.BodyLimit
	if bodyLimit == "" {
		bodyLimit = defaultBodyLimit
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(log))
	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if cfg.Registry != nil {
		registerer, gatherer = cfg.Registry, cfg.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "oasis",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.Use(echomiddleware.BodyLimit(bodyLimit))

	// --- Ops ---
	e.GET("/health", h.Health.Liveness)
	e.GET("/health/ready", h.Ready.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	if cfg.UploadDir != "" {
		e.Static("/uploads", filepath.Dir(filepath.Clean(cfg.UploadDir)))
	}

	// --- Public ---
	auth := e.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/logout", h.Auth.Logout)
	auth.POST("/forgot-password", h.Auth.ForgotPassword)
	auth.POST("/reset-password", h.Auth.ResetPassword)
	auth.POST("/reset-password/:token", h.Auth.ResetPassword)

	e.GET("/courses", h.Courses.List)
	e.GET("/courses/:id", h.Courses.Get)

	// --- Learner ---
	user := e.Group("/user",
		middleware.Auth(cfg.Tokens, middleware.UserCookie),
		middleware.RBAC(domain.RoleStudent),
	)
	user.GET("/profile", h.Auth.Profile)
	user.PUT("/profile", h.Auth.UpdateProfile)
	user.GET("/courses", h.Enrollments.MyCourses)
	user.POST("/courses/:id/enroll", h.Enrollments.Enroll)

	// --- Admin ---
	e.POST("/admin/auth/login", h.AdminAuth.Login)
	e.POST("/admin/logout", h.AdminAuth.Logout)

	admin := e.Group("/admin",
		middleware.Auth(cfg.Tokens, middleware.AdminCookie),
		middleware.RBAC(domain.RoleAdmin),
	)
	admin.GET("/analytics", h.Analytics.Report)
	admin.GET("/analytics/export", h.Analytics.Export)

	admin.GET("/courses", h.Courses.List)
	admin.POST("/courses", h.Courses.Create)
	admin.GET("/courses/:id", h.Courses.Get)
	admin.PUT("/courses/:id", h.Courses.Update)
	admin.DELETE("/courses/:id", h.Courses.Delete)

	admin.GET("/meetings", h.Meetings.List)
	admin.POST("/meetings", h.Meetings.Create)
	admin.PUT("/meetings/:id", h.Meetings.Update)
	admin.DELETE("/meetings/:id", h.Meetings.Delete)

	admin.GET("/users", h.Users.ListUsers)
	admin.POST("/users/followup", h.Users.SendFollowups)
	admin.DELETE("/users/:id", h.Users.DeleteUser)
	admin.GET("/users/:id/payments", h.Users.UserPayments)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	httpLog := log.With().Str("component", "http").Logger()
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := httpLog.Info()
			switch {
			case v.Status >= 500:
				ev = httpLog.Error().Err(v.Error)
			case v.Status >= 400:
				ev = httpLog.Warn()
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
