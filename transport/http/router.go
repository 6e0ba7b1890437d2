package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/flarexio/toolcatalog"

	mcpE "github.com/flarexio/toolcatalog/mcp"
)

func AddRouters(r *gin.Engine, endpoints toolcatalog.EndpointSet) {
	api := r.Group("/api")
	{
		api.GET("/collections", ListCollectionsHandler(endpoints.ListCollections))
		api.GET("/collections/:collection/search", SearchToolsHandler(endpoints.SearchTools))
	}
}

func AddStreamableRouters(r *gin.Engine, endpoints map[mcp.MCPMethod]mcpE.MCPEndpoint) {
	mcp := r.Group("/mcp")
	{
		mcp.POST("/", MCPStreamableHandler(endpoints))
	}
}

func AddMetricsRouter(r *gin.Engine, handler http.Handler) {
	r.GET("/metrics", gin.WrapH(handler))
}
