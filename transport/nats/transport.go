package nats

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/go-kit/kit/endpoint"
	"github.com/nats-io/nats.go/micro"

	"github.com/flarexio/toolcatalog"
	"github.com/flarexio/toolcatalog/vector"
)

const (
	codeBadRequest = "400"
	codeNotFound   = "404"
	codeFailed     = "417"
	codeInternal   = "500"
)

func errorCode(err error) string {
	switch {
	case errors.Is(err, vector.ErrCollectionNotFound):
		return codeNotFound

	case errors.Is(err, toolcatalog.ErrEmptyQuery),
		errors.Is(err, toolcatalog.ErrInvalidCollectionName):
		return codeBadRequest

	default:
		return codeFailed
	}
}

func ListCollectionsHandler(endpoint endpoint.Endpoint) micro.HandlerFunc {
	return func(r micro.Request) {
		ctx := context.Background()
		resp, err := endpoint(ctx, nil)
		if err != nil {
			r.Error(errorCode(err), err.Error(), nil)
			return
		}

		collections, ok := resp.([]toolcatalog.CollectionInfo)
		if !ok {
			r.Error(codeInternal, "invalid response type", nil)
			return
		}

		r.RespondJSON(&collections)
	}
}

func SearchToolsHandler(endpoint endpoint.Endpoint) micro.HandlerFunc {
	return func(r micro.Request) {
		var req toolcatalog.SearchToolsRequest
		if err := json.Unmarshal(r.Data(), &req); err != nil {
			r.Error(codeBadRequest, err.Error(), nil)
			return
		}

		ctx := context.Background()
		resp, err := endpoint(ctx, req)
		if err != nil {
			r.Error(errorCode(err), err.Error(), nil)
			return
		}

		result, ok := resp.(*toolcatalog.QueryResult)
		if !ok {
			r.Error(codeInternal, "invalid response type", nil)
			return
		}

		r.RespondJSON(result)
	}
}
