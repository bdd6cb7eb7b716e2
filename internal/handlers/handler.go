package handlers

import (
	"time"

	"delivery_kitchen/internal/logger"
	"delivery_kitchen/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	sim      simulationDefaults
}

type simulationDefaults struct {
	rate, minPickup, maxPickup time.Duration
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{
		services: services,
		log:      log,
		sim: simulationDefaults{
			rate:      defaultRate,
			minPickup: defaultMinPickup,
			maxPickup: defaultMaxPickup,
		},
	}
}

// SetSimulationDefaults sets the timing used when a simulation request
// leaves it out.
func (h *Handler) SetSimulationDefaults(rate, minPickup, maxPickup time.Duration) {
	h.sim = simulationDefaults{rate: rate, minPickup: minPickup, maxPickup: maxPickup}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", h.health)

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	// live kitchen state, same port
	router.GET("/ws", h.streamKitchen)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.requireDispatcher)
	{
		api.GET("/me", h.whoAmI)
		h.registerKitchenRoutes(api)
		h.registerActionRoutes(api)
		h.registerSimulationRoutes(api)
	}
}

func (h *Handler) registerKitchenRoutes(api *gin.RouterGroup) {
	// Body example: {"id":"a1","name":"Pho","temp":"hot","price":9,"freshness":300,"dispatch":{"min_ms":4000,"max_ms":8000}}
	api.POST("/orders", h.placeOrder)
	api.POST("/orders/:id/pickup", h.pickupOrder)

	kitchen := api.Group("/kitchen")
	{
		kitchen.GET("/state", h.getState)
		kitchen.DELETE("", h.resetKitchen)
	}
}

func (h *Handler) registerActionRoutes(api *gin.RouterGroup) {
	api.GET("/actions", h.getActions)
}

func (h *Handler) registerSimulationRoutes(api *gin.RouterGroup) {
	sims := api.Group("/simulations")
	{
		sims.POST("", h.startSimulation)
		sims.GET("", h.listSimulations)
		sims.GET("/:id", h.getSimulation)
	}
}
