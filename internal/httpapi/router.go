// Package httpapi builds the HTTP surface of the server: the social login
// endpoints used by the web front end, a health check, and the MCP endpoint.
package httpapi

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jamesprial/marketplace-mcp/internal/auth"
	"github.com/jamesprial/marketplace-mcp/internal/middleware"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

// MCPPath is where the MCP streamable HTTP handler is mounted.
const MCPPath = "/mcp"

// Options configures NewRouter.
type Options struct {
	// Auth serves the login endpoints. Nil disables them.
	Auth auth.AuthManager
	// MCP is the MCP transport handler. Nil disables MCPPath.
	MCP http.Handler
	// MCPToken protects MCPPath with bearer authentication when non-empty.
	MCPToken    string
	CORSOrigins []string
	Logger      logrus.FieldLogger
}

// NewRouter returns the server's root handler with CORS applied.
func NewRouter(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if opts.Auth != nil {
		h := NewAuthHandler(opts.Auth, logger)
		h.RegisterRoutes(r.Group("/api"))
	}

	if opts.MCP != nil {
		r.Any(MCPPath, gin.WrapH(middleware.NewBearerAuth(opts.MCPToken, logger)(opts.MCP)))
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader, "Mcp-Session-Id"},
		ExposedHeaders:   []string{middleware.RequestIDHeader, "Mcp-Session-Id"},
		AllowCredentials: credentialedOrigins(opts.CORSOrigins),
	})
	return c.Handler(r)
}

// credentialedOrigins reports whether credentials may be allowed: only for an
// explicit origin list without wildcards, since rs/cors otherwise reflects any
// origin.
func credentialedOrigins(origins []string) bool {
	if len(origins) == 0 {
		return false
	}
	for _, o := range origins {
		if strings.Contains(o, "*") {
			return false
		}
	}
	return true
}
