package handlers

import (
	"errors"
	"net/http"
	"time"

	"delivery_kitchen/internal/models"
	"delivery_kitchen/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusOK    = "ok"
	statusReset = "reset"

	errGetState        = "failed to load kitchen state"
	errResetKitchen    = "failed to reset kitchen"
	errNoSlot          = "no storage slot available"
	errNotPickedUp     = "order not found or expired"
	errInvalidBodyPref = "invalid body: "
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// statusFor maps service errors onto HTTP codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidOrder),
		errors.Is(err, service.ErrInvalidPickupWindow),
		errors.Is(err, service.ErrInvalidFilter),
		errors.Is(err, service.ErrNoChallenge):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrDuplicateOrder):
		return http.StatusConflict
	case errors.Is(err, service.ErrRunNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError writes client errors verbatim and hides server ones.
func (h *Handler) respondServiceError(c *gin.Context, err error, userMsg, logKey string, kv ...interface{}) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		h.logAndJSONError(c, code, userMsg, logKey, err, kv...)
		return
	}
	c.JSON(code, gin.H{"error": err.Error()})
}

// PickupWindow asks for a driver to be dispatched after placement.
type PickupWindow struct {
	MinMs int64 `json:"min_ms" example:"4000"`
	MaxMs int64 `json:"max_ms" example:"8000"`
}

// OrderRequest is the payload of POST /api/v1/orders.
type OrderRequest struct {
	ID        string        `json:"id" binding:"required" example:"a8cfd2"`
	Name      string        `json:"name" example:"Cheese Pizza"`
	Temp      string        `json:"temp" binding:"required" example:"hot"`
	Price     int           `json:"price" example:"12"`
	Freshness int           `json:"freshness" example:"120"`
	Dispatch  *PickupWindow `json:"dispatch,omitempty"`
}

func (r OrderRequest) order() models.Order {
	return models.Order{
		ID:        r.ID,
		Name:      r.Name,
		Temp:      models.Temperature(r.Temp),
		Price:     r.Price,
		Freshness: r.Freshness,
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Place order
// @Description  Stores the order in its ideal container or on the shelf. 409 when no slot can be freed.
// @Tags         kitchen
// @Accept       json
// @Produce      json
// @Param        body  body      OrderRequest  true  "Order"
// @Success      201   {object}  map[string]interface{}  "placed, order_id"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]interface{}
// @Router       /api/v1/orders [post]
// @Security     BearerAuth
func (h *Handler) placeOrder(c *gin.Context) {
	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	params := service.PlaceParams{Order: req.order()}
	if req.Dispatch != nil {
		params.Dispatch = true
		params.MinPickup = time.Duration(req.Dispatch.MinMs) * time.Millisecond
		params.MaxPickup = time.Duration(req.Dispatch.MaxMs) * time.Millisecond
	}

	placed, err := h.services.Kitchen.PlaceOrder(c.Request.Context(), params)
	if err != nil {
		h.respondServiceError(c, err, "failed to place order", "kitchen_place_failed", "order_id", req.ID)
		return
	}
	h.audit(c, "kitchen_order_submitted", "order_id", req.ID, "temp", req.Temp, "placed", placed, "dispatch", params.Dispatch)
	if !placed {
		c.JSON(http.StatusConflict, gin.H{"placed": false, "order_id": req.ID, "error": errNoSlot})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"placed": true, "order_id": req.ID})
}

// @Summary      Pick up order
// @Description  Removes the order from storage. Expired orders are discarded and reported as 404.
// @Tags         kitchen
// @Produce      json
// @Param        id   path      string  true  "Order id"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]interface{}
// @Router       /api/v1/orders/{id}/pickup [post]
// @Security     BearerAuth
func (h *Handler) pickupOrder(c *gin.Context) {
	id := c.Param("id")
	ok, err := h.services.Kitchen.PickupOrder(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err, "failed to pick up order", "kitchen_pickup_failed", "order_id", id)
		return
	}
	h.audit(c, "kitchen_order_handed_out", "order_id", id, "picked_up", ok)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"picked_up": false, "order_id": id, "error": errNotPickedUp})
		return
	}
	c.JSON(http.StatusOK, gin.H{"picked_up": true, "order_id": id})
}

// @Summary      Get kitchen state
// @Tags         kitchen
// @Produce      json
// @Success      200  {object}  models.KitchenState
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/kitchen/state [get]
// @Security     BearerAuth
func (h *Handler) getState(c *gin.Context) {
	st, err := h.services.Monitoring.GetState(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetState, "kitchen_get_state_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Reset kitchen
// @Description  Empties every container and the live action log.
// @Tags         kitchen
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/kitchen [delete]
// @Security     BearerAuth
func (h *Handler) resetKitchen(c *gin.Context) {
	if err := h.services.Kitchen.Reset(c.Request.Context()); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errResetKitchen, "kitchen_reset_failed", err)
		return
	}
	h.audit(c, "kitchen_reset")
	c.JSON(http.StatusOK, gin.H{"status": statusReset})
}
