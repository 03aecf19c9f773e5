// Package api serves the REST control surface of the monitor.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/urmzd/wardwatch/pkg/api/handlers"
	"github.com/urmzd/wardwatch/pkg/schema"
)

// Router holds the Gin engine and dependencies
type Router struct {
	engine    *gin.Engine
	monitor   handlers.Monitor
	config    handlers.ConfigStore
	validator *schema.Validator
}

// NewRouter creates a new API router
func NewRouter(m handlers.Monitor, config handlers.ConfigStore, validator *schema.Validator) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	SetupMiddleware(engine)

	router := &Router{
		engine:    engine,
		monitor:   m,
		config:    config,
		validator: validator,
	}

	router.setupRoutes()

	return router
}

func (r *Router) setupRoutes() {
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	healthHandler := handlers.NewHealthHandler(r.monitor)
	r.engine.GET("/health", healthHandler.Health)

	v1 := r.engine.Group("/api/v1")
	{
		v1.GET("/health", healthHandler.Health)

		statusHandler := handlers.NewStatusHandler(r.monitor)
		v1.GET("/status", statusHandler.Status)

		controlHandler := handlers.NewControlHandler(r.monitor, r.validator)
		v1.POST("/commands", controlHandler.SendCommand)
		v1.POST("/commissioning", controlHandler.ToggleCommissioning)

		configHandler := handlers.NewConfigHandler(r.config, r.monitor)
		v1.GET("/beacons", configHandler.ListBeacons)
		v1.GET("/beacons/:key", configHandler.GetBeacon)
		v1.PUT("/beacons/:key", configHandler.SaveBeacon)
		v1.DELETE("/beacons/:key", configHandler.DeleteBeacon)
		v1.GET("/site", configHandler.GetSite)
		v1.PUT("/site", configHandler.SaveSite)
		v1.GET("/broker", configHandler.GetBroker)
		v1.PUT("/broker", configHandler.SaveBroker)
	}
}

// Handler returns the router as an http.Handler
func (r *Router) Handler() http.Handler {
	return r.engine
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
