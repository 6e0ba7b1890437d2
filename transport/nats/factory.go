package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-kit/kit/endpoint"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/micro"

	"github.com/flarexio/toolcatalog"
	"github.com/flarexio/toolcatalog/vector"
)

func MakeEndpoints(nc *nats.Conn, prefix string) *toolcatalog.EndpointSet {
	return &toolcatalog.EndpointSet{
		ListCollections: ListCollectionsEndpoint(nc, prefix+".list_collections"),
		SearchTools:     SearchToolsEndpoint(nc, prefix+".search_tools"),
	}
}

func ListCollectionsEndpoint(nc *nats.Conn, topic string) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		resp, err := nc.Request(topic, nil, nats.DefaultTimeout)
		if err != nil {
			return nil, err
		}

		if err := Error(resp); err != nil {
			return nil, err
		}

		var collections []toolcatalog.CollectionInfo
		if err := json.Unmarshal(resp.Data, &collections); err != nil {
			return nil, err
		}

		return collections, nil
	}
}

func SearchToolsEndpoint(nc *nats.Conn, topic string) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(toolcatalog.SearchToolsRequest)
		if !ok {
			return nil, errors.New("invalid request")
		}

		data, err := json.Marshal(&req)
		if err != nil {
			return nil, err
		}

		resp, err := nc.Request(topic, data, nats.DefaultTimeout)
		if err != nil {
			return nil, err
		}

		if err := Error(resp); err != nil {
			return nil, err
		}

		var result toolcatalog.QueryResult
		if err := json.Unmarshal(resp.Data, &result); err != nil {
			return nil, err
		}

		return &result, nil
	}
}

// Error decodes a micro service error reply. Unknown collections map back to
// vector.ErrCollectionNotFound.
func Error(msg *nats.Msg) error {
	if msg == nil {
		return errors.New("nil message")
	}

	code := msg.Header.Get(micro.ErrorCodeHeader)
	if code == "" {
		return nil
	}

	description := msg.Header.Get(micro.ErrorHeader)
	if description == "" {
		description = "unknown error"
	}

	if code == codeNotFound {
		name := strings.TrimPrefix(description, vector.ErrCollectionNotFound.Error()+": ")
		return fmt.Errorf("%w: %s", vector.ErrCollectionNotFound, name)
	}

	return errors.New(code + ":" + description)
}
