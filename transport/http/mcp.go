package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/mcp"

	mcpE "github.com/flarexio/toolcatalog/mcp"
)

func MCPStreamableHandler(endpoints map[mcp.MCPMethod]mcpE.MCPEndpoint) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req mcpE.JSONRPCRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(err)
			c.Abort()

			resp := mcpE.ErrorResponse(req.ID, mcp.PARSE_ERROR, err.Error())
			c.JSON(http.StatusBadRequest, &resp)
			return
		}

		endpoint, ok := endpoints[req.Method]
		if !ok {
			c.Abort()

			resp := mcpE.ErrorResponse(req.ID, mcp.METHOD_NOT_FOUND, "method not found")
			c.JSON(http.StatusNotFound, &resp)
			return
		}

		ctx := c.Request.Context()
		resp := endpoint(ctx, req)

		c.JSON(http.StatusOK, &resp)
	}
}
