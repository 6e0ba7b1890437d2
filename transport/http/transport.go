package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/kit/endpoint"

	"github.com/flarexio/toolcatalog"
	"github.com/flarexio/toolcatalog/vector"
)

func statusCode(err error) int {
	switch {
	case errors.Is(err, vector.ErrCollectionNotFound):
		return http.StatusNotFound

	case errors.Is(err, toolcatalog.ErrEmptyQuery),
		errors.Is(err, toolcatalog.ErrInvalidCollectionName):
		return http.StatusBadRequest

	case errors.Is(err, toolcatalog.ErrQueryEmbedding):
		return http.StatusBadGateway

	default:
		return http.StatusExpectationFailed
	}
}

func ListCollectionsHandler(endpoint endpoint.Endpoint) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		resp, err := endpoint(ctx, nil)
		if err != nil {
			c.JSON(statusCode(err), toolcatalog.ErrorResponse{Error: err.Error()})
			c.Error(err)
			c.Abort()
			return
		}

		c.JSON(http.StatusOK, &resp)
	}
}

func SearchToolsHandler(endpoint endpoint.Endpoint) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req toolcatalog.SearchToolsRequest
		if err := c.ShouldBindQuery(&req); err != nil {
			c.JSON(http.StatusBadRequest, toolcatalog.ErrorResponse{Error: err.Error()})
			c.Error(err)
			c.Abort()
			return
		}

		req.Collection = c.Param("collection")

		ctx := c.Request.Context()
		resp, err := endpoint(ctx, req)
		if err != nil {
			details := map[string]string{
				"collection": req.Collection,
				"query":      req.Query,
			}

			c.JSON(statusCode(err), toolcatalog.NewSearchErrorResponse(err, details))
			c.Error(err)
			c.Abort()
			return
		}

		result, ok := resp.(*toolcatalog.QueryResult)
		if !ok {
			err := errors.New("invalid response type")
			c.JSON(http.StatusInternalServerError, toolcatalog.ErrorResponse{Error: err.Error()})
			c.Error(err)
			c.Abort()
			return
		}

		c.JSON(http.StatusOK, result.Response())
	}
}
