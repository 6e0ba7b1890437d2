package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"slices"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/flarexio/toolcatalog"
)

type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      mcp.RequestId   `json:"id"`
	Method  mcp.MCPMethod   `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

func ErrorResponse(id mcp.RequestId, code int, message string) mcp.JSONRPCError {
	return mcp.JSONRPCError{
		JSONRPC: mcp.JSONRPC_VERSION,
		ID:      id,
		Error: struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Data    any    `json:"data,omitempty"`
		}{
			Code:    code,
			Message: message,
		},
	}
}

type MCPEndpoint func(ctx context.Context, req JSONRPCRequest) mcp.JSONRPCMessage

const MCPSERVER_INSTRUCTIONS string = `toolcatalog indexes catalogs of AI agent tools, one collection per agent category.

Use search_tools with a collection name and a natural language description of what you need.
Results are ordered by distance, nearest first, and carry the tool metadata:
name, category, pricing tiers, ratings, platforms and integration options.`

const SearchToolsName = "search_tools"

var ErrUnknownTool = errors.New("unknown tool")

func SearchTool() mcp.Tool {
	return mcp.NewTool(SearchToolsName,
		mcp.WithDescription("Search a tool catalog collection by semantic similarity."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithString("collection",
			mcp.Required(),
			mcp.Description("Collection to search, for example ux_design_agents."),
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Free-text description of the wanted tool."),
		),
		mcp.WithNumber("k",
			mcp.Description("Maximum number of results."),
		),
	)
}

func InitializeEndpoint(svc toolcatalog.Service) MCPEndpoint {
	return func(ctx context.Context, req JSONRPCRequest) mcp.JSONRPCMessage {
		var params mcp.InitializeParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return ErrorResponse(req.ID, mcp.INVALID_PARAMS, err.Error())
		}

		protocolVersion := mcp.LATEST_PROTOCOL_VERSION
		if clientVersion := params.ProtocolVersion; clientVersion != "" {
			if slices.Contains(mcp.ValidProtocolVersions, clientVersion) {
				protocolVersion = clientVersion
			}
		}

		result := &mcp.InitializeResult{
			ProtocolVersion: protocolVersion,
			Capabilities: mcp.ServerCapabilities{
				Tools: &struct {
					ListChanged bool `json:"listChanged,omitempty"`
				}{},
			},
			ServerInfo: mcp.Implementation{
				Name:    "toolcatalog",
				Version: "1.0.0",
			},
			Instructions: MCPSERVER_INSTRUCTIONS,
		}

		return mcp.JSONRPCResponse{
			JSONRPC: mcp.JSONRPC_VERSION,
			ID:      req.ID,
			Result:  result,
		}
	}
}

func PingEndpoint(svc toolcatalog.Service) MCPEndpoint {
	return func(ctx context.Context, req JSONRPCRequest) mcp.JSONRPCMessage {
		return mcp.JSONRPCResponse{
			JSONRPC: mcp.JSONRPC_VERSION,
			ID:      req.ID,
			Result:  struct{}{}, // empty response
		}
	}
}

func ListToolsEndpoint(svc toolcatalog.Service) MCPEndpoint {
	return func(ctx context.Context, req JSONRPCRequest) mcp.JSONRPCMessage {
		result := &mcp.ListToolsResult{
			Tools: []mcp.Tool{SearchTool()},
		}

		return mcp.JSONRPCResponse{
			JSONRPC: mcp.JSONRPC_VERSION,
			ID:      req.ID,
			Result:  result,
		}
	}
}

type searchToolsArguments struct {
	Collection string `json:"collection"`
	Query      string `json:"query"`
	K          int    `json:"k,omitempty"`
}

func CallToolEndpoint(svc toolcatalog.Service) MCPEndpoint {
	return func(ctx context.Context, req JSONRPCRequest) mcp.JSONRPCMessage {
		var params struct {
			Name      string          `json:"name"`
			Arguments json.RawMessage `json:"arguments,omitempty"`
		}

		if err := json.Unmarshal(req.Params, &params); err != nil {
			return ErrorResponse(req.ID, mcp.INVALID_PARAMS, err.Error())
		}

		if params.Name != SearchToolsName {
			return ErrorResponse(req.ID, mcp.INVALID_PARAMS, ErrUnknownTool.Error()+": "+params.Name)
		}

		var args searchToolsArguments
		if len(params.Arguments) > 0 {
			if err := json.Unmarshal(params.Arguments, &args); err != nil {
				return ErrorResponse(req.ID, mcp.INVALID_PARAMS, err.Error())
			}
		}

		// Tool failures are reported in the result so the model can read them.
		var result *mcp.CallToolResult

		found, err := svc.SearchTools(ctx, args.Collection, args.Query, args.K)
		if err != nil {
			result = mcp.NewToolResultError(err.Error())
		} else {
			bs, err := json.Marshal(found.Response())
			if err != nil {
				return ErrorResponse(req.ID, mcp.INTERNAL_ERROR, err.Error())
			}

			result = mcp.NewToolResultText(string(bs))
		}

		return mcp.JSONRPCResponse{
			JSONRPC: mcp.JSONRPC_VERSION,
			ID:      req.ID,
			Result:  result,
		}
	}
}
