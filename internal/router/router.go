// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/habit-tracker/internal/config"
	"github.com/iliyamo/habit-tracker/internal/handler"
	"github.com/iliyamo/habit-tracker/internal/middleware"
	"github.com/iliyamo/habit-tracker/internal/repository"
)

// Deps bundles everything route registration needs.  Rdb may be nil, in
// which case the cache and rate-limit middleware degrade to pass-throughs.
type Deps struct {
	Cfg               config.Config
	AdminPasswordHash string
	Users             *repository.UserRepo
	Auth              *handler.AuthHandler
	Admin             *handler.AdminHandler
	Catalog           *handler.CatalogHandler
	Tracker           *handler.TrackerHandler
	Rdb               *redis.Client
}

// RegisterRoutes wires all endpoints onto the Echo instance: the public
// surface (health, register, login, catalog listing), the admin-gated
// account and catalog administration, and the authenticated tracker
// operations.
func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	// Public account endpoints.
	e.POST("/v1/register", d.Auth.Register)
	e.POST("/v1/login", d.Auth.Login)

	// Public catalog listing, cached: the template list changes only on
	// admin writes and is identical for every caller.
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), d.Rdb)
	e.GET("/v1/habits", d.Catalog.ListTemplates, cache)

	// Admin-gated account and catalog administration.
	admin := e.Group("/v1/admin", middleware.AdminAuth(d.Cfg.AdminUsername, d.AdminPasswordHash))
	admin.POST("/validate", d.Admin.Validate)
	admin.GET("/users", d.Admin.ListUsers)
	admin.DELETE("/users", d.Admin.DeleteUser)
	admin.POST("/habits", d.Admin.AddTemplate)
	admin.DELETE("/habits", d.Admin.RemoveTemplate)

	// Tracker operations: authenticated via Bearer token or Basic
	// credentials, rate limited per IP and route.
	user := e.Group("/v1/user",
		middleware.UserAuth(d.Users, d.Cfg.JWTSecret),
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), d.Rdb),
	)
	user.POST("/habits", d.Tracker.List)
	user.POST("/assign_habit", d.Tracker.Assign)
	user.POST("/assign_custom_habit", d.Tracker.AssignCustom)
	user.POST("/remove_habit", d.Tracker.Remove)
	user.POST("/update_daily_habit", d.Tracker.UpdateDaily)
	user.POST("/update_weekly_habit", d.Tracker.UpdateWeekly)
	user.POST("/longest_streak", d.Tracker.LongestStreak)
	user.POST("/strugglest_habit", d.Tracker.Strugglest)
}
