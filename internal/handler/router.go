package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/liftco/backend/internal/config"
	"github.com/liftco/backend/internal/obs"
	"go.uber.org/zap"
)

// RouterDeps bundles the handlers and middleware inputs of the API.
type RouterDeps struct {
	Server     config.ServerConfig
	Auth       accessTokenParser
	Attendance *AttendanceHandler
	Sessions   *SessionHandler
	Profiles   *AuthHandler
	Limiter    *RateLimiter
	Logger     *zap.Logger
}

func NewRouter(d RouterDeps) (*gin.Engine, error) {
	if err := RegisterValidators(); err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		RequestLogger(d.Logger),
		obs.Instrument(),
		CORSMiddleware(d.Server.CORSOrigins, d.Server.CORSCredentials),
		MaxBodyBytes(d.Server.MaxBodyBytes),
		RequestTimeout(d.Server.RequestTimeout),
	)

	router.GET("/ping", Ping)
	router.GET("/", Root)
	router.GET("/openapi.json", OpenAPIDoc)
	router.GET("/metrics", gin.WrapH(obs.Handler()))

	api := router.Group("/api/v1")

	scanner := api.Group("/attendance")
	if d.Limiter != nil {
		scanner.Use(d.Limiter.Middleware())
	}
	scanner.POST("/verify", d.Attendance.Verify)
	scanner.POST("/scanner/validate", d.Attendance.ValidateScanner)

	authed := api.Group("")
	authed.Use(AuthMiddleware(d.Auth))
	authed.GET("/me", d.Profiles.Me)
	authed.POST("/attendance/token", d.Attendance.IssueToken)
	authed.POST("/sessions/:id/join", d.Sessions.Join)
	authed.POST("/sessions/:id/leave", d.Sessions.Leave)

	return router, nil
}
