// Package server wires the HTTP router, middleware and routes.
package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/gestor-labs/be-case-tracking/internal/handler"
	"github.com/gestor-labs/be-case-tracking/internal/logger"
)

// RouterConfig carries the handlers and transport settings.
type RouterConfig struct {
	Cases    *handler.CaseHandler
	Catalogs *handler.CatalogHandler
	Users    *handler.UserHandler

	BasePath       string
	AllowedOrigins []string
	Environment    string
	Log            *logger.Logger
}

// NewRouter builds the gin engine with the full middleware chain and route
// table.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Environment == "production" || cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(RequestID())
	r.Use(RequestLogger(cfg.Log))
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	api := r.Group(cfg.BasePath)
	{
		if cfg.Catalogs != nil {
			api.GET("/catalogs/states", cfg.Catalogs.ListStates)
			api.GET("/catalogs/comment-templates", cfg.Catalogs.ListCommentTemplates)
		}

		if cfg.Users != nil {
			api.GET("/users", cfg.Users.List)
		}

		if cfg.Cases != nil {
			api.GET("/cases", cfg.Cases.List)
			api.POST("/cases", cfg.Cases.Create)
			api.GET("/cases/:code", cfg.Cases.Get)
			api.PUT("/cases/:code", cfg.Cases.Update)
			api.DELETE("/cases/:code", cfg.Cases.Delete)
			api.GET("/cases/:code/transitions", cfg.Cases.EligibleTargets)
			api.POST("/cases/:code/events", cfg.Cases.CreateEvent)
		}
	}

	return r
}
