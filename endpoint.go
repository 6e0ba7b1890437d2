package toolcatalog

import (
	"context"
	"errors"

	"github.com/go-kit/kit/endpoint"
)

type EndpointSet struct {
	ListCollections endpoint.Endpoint
	SearchTools     endpoint.Endpoint
}

func ListCollectionsEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		return svc.ListCollections(ctx)
	}
}

type SearchToolsRequest struct {
	Collection string `json:"collection" form:"collection"`
	Query      string `json:"query" form:"query"`
	K          int    `json:"k,omitempty" form:"k"`
}

func SearchToolsEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(SearchToolsRequest)
		if !ok {
			return nil, errors.New("invalid request type")
		}

		return svc.SearchTools(ctx, req.Collection, req.Query, req.K)
	}
}
