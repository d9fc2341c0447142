package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/tilawat/internal/app"
	"github.com/Nixie-Tech-LLC/tilawat/internal/config"
	"github.com/Nixie-Tech-LLC/tilawat/internal/http/api"
	recitationapi "github.com/Nixie-Tech-LLC/tilawat/internal/http/api/recitations/endpoints"
	"github.com/Nixie-Tech-LLC/tilawat/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/tilawat/internal/http/web"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, cfg *config.Config, site *app.Site) {
	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
		},
		ExposeHeaders: []string{
			"Content-Length",
		},
		AllowCredentials: false,
	}))

	api.MountGroup(r, api.GroupConfig{}, recitationapi.HealthModule())

	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api",
		Visitor:   true,
		SecretKey: cfg.SecretKey,
	},
		recitationapi.RecitationModule(site),
	)

	// HTML pages
	pages := r.Group("/")
	pages.Use(middleware.Visitor(cfg.SecretKey))
	web.Register(pages, site)
}
