package nats

import (
	"github.com/nats-io/nats.go/micro"

	"github.com/flarexio/toolcatalog"
)

func AddEndpoints(group micro.Group, endpoints toolcatalog.EndpointSet) {
	group.AddEndpoint("list_collections", ListCollectionsHandler(endpoints.ListCollections))
	group.AddEndpoint("search_tools", SearchToolsHandler(endpoints.SearchTools))
}
