// Package router wires handlers to routes and attaches the
// middleware chain.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/rentcar-reservation/internal/config"
	"github.com/iliyamo/rentcar-reservation/internal/handler"
	"github.com/iliyamo/rentcar-reservation/internal/middleware"
)

// Handlers collects the handler set registered on the server.
type Handlers struct {
	Auth         *handler.AuthHandler
	Vehicles     *handler.VehicleHandler
	Customers    *handler.CustomerHandler
	Reservations *handler.ReservationHandler
	Calendar     *handler.CalendarHandler
}

// Register mounts all routes.  /auth endpoints are reachable without
// a token (rate limited per IP); everything under /v1 requires a
// valid access token, is rate limited per user and serves cached GET
// responses when Redis is available.
func Register(e *echo.Echo, cfg config.Config, rdb *redis.Client, h Handlers) {
	e.GET("/healthz", handler.Health)

	rateLimit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	respCache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	auth := e.Group("/auth", rateLimit)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/logout", h.Auth.Logout)

	v1 := e.Group("/v1", middleware.JWTAuth(cfg.JWTSecret), rateLimit, respCache)
	v1.GET("/me", h.Auth.Me)

	v1.GET("/vehicles", h.Vehicles.List)
	v1.POST("/vehicles", h.Vehicles.Create)
	v1.GET("/vehicles/:vin", h.Vehicles.Get)
	v1.PUT("/vehicles/:vin", h.Vehicles.Update)
	v1.DELETE("/vehicles/:vin", h.Vehicles.Delete)

	v1.GET("/customers", h.Customers.List)
	v1.POST("/customers", h.Customers.Create)
	v1.GET("/customers/:id", h.Customers.Get)
	v1.PUT("/customers/:id", h.Customers.Update)
	v1.DELETE("/customers/:id", h.Customers.Delete)
	v1.PATCH("/customers/:id/blacklist", h.Customers.SetBlacklisted)

	v1.GET("/reservations", h.Reservations.List)
	v1.POST("/reservations", h.Reservations.Create)
	v1.GET("/reservations/conflicts", h.Reservations.CheckConflict)
	v1.GET("/reservations/:id", h.Reservations.Get)
	v1.PUT("/reservations/:id", h.Reservations.Update)
	v1.DELETE("/reservations/:id", h.Reservations.Delete)

	v1.GET("/calendar", h.Calendar.Get)
}
