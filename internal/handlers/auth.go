package handlers

import (
	"errors"
	"net/http"

	"delivery_kitchen/internal/service"

	"github.com/gin-gonic/gin"
)

// Credentials is the body of both sign-up and sign-in.
type Credentials struct {
	Username string `json:"username" binding:"required" example:"expo"`
	Password string `json:"password" binding:"required" example:"correct-horse"`
}

// @Summary      Register dispatcher
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      Credentials  true  "Credentials"
// @Success      201   {object}  models.Dispatcher
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/sign-up [post]
func (h *Handler) signUp(c *gin.Context) {
	var in Credentials
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	d, err := h.services.SignUp(c.Request.Context(), in.Username, in.Password)
	switch {
	case errors.Is(err, service.ErrInvalidUsername), errors.Is(err, service.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, service.ErrUsernameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "username is already taken"})
		return
	case err != nil:
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to register dispatcher", "auth_sign_up_failed", err)
		return
	}

	if h.log != nil {
		h.log.Infow("dispatcher_registered", "dispatcher", d.Username, "dispatcher_id", d.ID)
	}
	c.JSON(http.StatusCreated, d)
}

// @Summary      Sign in
// @Description  Returns a bearer token for the /api/v1 routes, valid for one shift.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      Credentials  true  "Credentials"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/sign-in [post]
func (h *Handler) signIn(c *gin.Context) {
	var in Credentials
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	token, err := h.services.SignIn(c.Request.Context(), in.Username, in.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to sign in", "auth_sign_in_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// @Summary      Current dispatcher
// @Tags         auth
// @Produce      json
// @Success      200  {object}  models.Identity
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/me [get]
// @Security     BearerAuth
func (h *Handler) whoAmI(c *gin.Context) {
	c.JSON(http.StatusOK, dispatcherFrom(c))
}
