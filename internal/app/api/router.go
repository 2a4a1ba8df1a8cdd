package api

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	cataloghttp "github.com/shelfwise/rental-api/internal/domains/catalog/adapters/http"
	catalogports "github.com/shelfwise/rental-api/internal/domains/catalog/ports"
	checkouthttp "github.com/shelfwise/rental-api/internal/domains/checkout/adapters/http"
	checkoutports "github.com/shelfwise/rental-api/internal/domains/checkout/ports"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-Id"

// NewRouter assembles the gin engine with both bounded contexts mounted
// under /api/v1.
func NewRouter(serviceName string, catalog catalogports.Service, checkout checkoutports.Service, placement checkoutports.PlacementOrchestrator) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(otelgin.Middleware(serviceName))

	v1 := router.Group("/api/v1")
	cataloghttp.NewHandler(catalog).Register(v1)
	checkouthttp.NewHandler(checkout, placement).Register(v1)
	return router
}

// requestID echoes the incoming correlation id or mints one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
