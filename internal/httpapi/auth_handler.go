package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jamesprial/marketplace-mcp/internal/auth"
	"github.com/jamesprial/marketplace-mcp/internal/middleware"
	"github.com/sirupsen/logrus"
)

// AuthHandler serves the social login endpoints.
type AuthHandler struct {
	mgr auth.AuthManager
	log logrus.FieldLogger
}

// NewAuthHandler returns an AuthHandler backed by mgr.
func NewAuthHandler(mgr auth.AuthManager, logger logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{mgr: mgr, log: logger}
}

// RegisterRoutes mounts the login endpoints under router.
func (h *AuthHandler) RegisterRoutes(router gin.IRouter) {
	group := router.Group("/auth")
	{
		group.POST("/google", h.LoginGoogle)
		group.POST("/apple", h.LoginApple)
	}
}

// errorResponse writes {"error": msg}.
func errorResponse(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// LoginGoogle exchanges a Google ID token for a marketplace session.
func (h *AuthHandler) LoginGoogle(c *gin.Context) {
	const failure = "Error al autenticar con Google."

	var input auth.SocialLoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logFailure(c, "loginWithGoogle", err)
		errorResponse(c, http.StatusInternalServerError, failure)
		return
	}

	resp, err := h.mgr.LoginWithGoogle(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, "loginWithGoogle", err, failure)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LoginApple exchanges an Apple identity token for a marketplace session.
func (h *AuthHandler) LoginApple(c *gin.Context) {
	const failure = "Error al autenticar con Apple."

	var input auth.AppleLoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logFailure(c, "loginWithApple", err)
		errorResponse(c, http.StatusInternalServerError, failure)
		return
	}

	resp, err := h.mgr.LoginWithApple(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, "loginWithApple", err, failure)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// respondError maps input errors to 400 with their message and everything
// else to 500 with the generic failure text.
func (h *AuthHandler) respondError(c *gin.Context, op string, err error, failure string) {
	var inputErr *auth.InputError
	if errors.As(err, &inputErr) {
		errorResponse(c, http.StatusBadRequest, inputErr.Message)
		return
	}
	h.logFailure(c, op, err)
	errorResponse(c, http.StatusInternalServerError, failure)
}

func (h *AuthHandler) logFailure(c *gin.Context, op string, err error) {
	h.log.WithFields(logrus.Fields{
		"operation":  op,
		"request_id": c.GetString(middleware.RequestIDKey),
	}).WithError(err).Error("social login failed")
}
