package handlers

import (
	"net/http"
	"strconv"
	"time"

	"delivery_kitchen/internal/models"
	"delivery_kitchen/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	defaultRate      = 500 * time.Millisecond
	defaultMinPickup = 4 * time.Second
	defaultMaxPickup = 8 * time.Second

	maxListLimit = 500
)

// SimulationRequest is the payload of POST /api/v1/simulations. Without
// orders the problem is fetched from the challenge server.
type SimulationRequest struct {
	Orders []OrderRequest `json:"orders,omitempty"`
	Name   string         `json:"name,omitempty" example:"daily"`
	Seed   int64          `json:"seed,omitempty" example:"42"`
	RateMs *int64         `json:"rate_ms,omitempty" example:"500"`
	MinMs  *int64         `json:"min_ms,omitempty" example:"4000"`
	MaxMs  *int64         `json:"max_ms,omitempty" example:"8000"`
}

func msOr(v *int64, def time.Duration) time.Duration {
	if v == nil {
		return def
	}
	return time.Duration(*v) * time.Millisecond
}

func (h *Handler) simulationParams(req SimulationRequest) service.SimulationParams {
	p := service.SimulationParams{
		Name:      req.Name,
		Seed:      req.Seed,
		Rate:      msOr(req.RateMs, h.sim.rate),
		MinPickup: msOr(req.MinMs, h.sim.minPickup),
		MaxPickup: msOr(req.MaxMs, h.sim.maxPickup),
	}
	if len(req.Orders) > 0 {
		p.Orders = make([]models.Order, 0, len(req.Orders))
		for _, o := range req.Orders {
			p.Orders = append(p.Orders, o.order())
		}
	}
	return p
}

// @Summary      Start simulation
// @Description  Runs the orders (or a fetched challenge problem) against a fresh kitchen in the background.
// @Tags         simulations
// @Accept       json
// @Produce      json
// @Param        body  body      SimulationRequest  false  "Simulation"
// @Success      202   {object}  models.Run
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/simulations [post]
// @Security     BearerAuth
func (h *Handler) startSimulation(c *gin.Context) {
	var req SimulationRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
			return
		}
	}

	params := h.simulationParams(req)
	params.StartedBy = dispatcherFrom(c).Username
	run, err := h.services.Simulation.Start(c.Request.Context(), params)
	if err != nil {
		h.respondServiceError(c, err, "failed to start simulation", "simulation_start_failed")
		return
	}
	h.audit(c, "simulation_accepted", "run_id", run.ID, "orders", len(params.Orders))
	c.JSON(http.StatusAccepted, run)
}

// @Summary      List simulations
// @Tags         simulations
// @Produce      json
// @Param        limit  query     int   false  "Most recent runs to return"  default(50)
// @Param        mine   query     bool  false  "Only runs started by the caller"
// @Success      200    {object}  map[string]interface{}  "count, runs"
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /api/v1/simulations [get]
// @Security     BearerAuth
func (h *Handler) listSimulations(c *gin.Context) {
	var f service.RunFilter
	if qs := c.Query("limit"); qs != "" {
		v, err := strconv.Atoi(qs)
		if err != nil || v <= 0 || v > maxListLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and " + strconv.Itoa(maxListLimit)})
			return
		}
		f.Limit = v
	}
	if qs := c.Query("mine"); qs != "" {
		mine, err := strconv.ParseBool(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "mine must be a boolean"})
			return
		}
		if mine {
			f.StartedBy = dispatcherFrom(c).Username
		}
	}

	runs, err := h.services.Simulation.List(c.Request.Context(), f)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to list simulations", "simulation_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(runs), "runs": runs})
}

// @Summary      Get simulation
// @Tags         simulations
// @Produce      json
// @Param        id   path      string  true  "Run id"
// @Success      200  {object}  models.Run
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/simulations/{id} [get]
// @Security     BearerAuth
func (h *Handler) getSimulation(c *gin.Context) {
	id := c.Param("id")
	run, err := h.services.Simulation.Get(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err, "failed to load simulation", "simulation_get_failed", "run_id", id)
		return
	}
	c.JSON(http.StatusOK, run)
}
