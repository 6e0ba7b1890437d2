package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"

	mcpE "github.com/flarexio/toolcatalog/mcp"
)

func TestStdioMCPServer(t *testing.T) {
	assert := assert.New(t)

	input := strings.Join([]string{
		`{"jsonrpc": "2.0", "id": 1, "method": "ping"}`,
		``,
		`not json`,
		`{"jsonrpc": "2.0", "method": "notifications/initialized"}`,
		`{"jsonrpc": "2.0", "id": 2, "method": "tools/list"}`,
		`{"jsonrpc": "2.0", "id": 3, "method": "resources/list"}`,
	}, "\n")

	var out bytes.Buffer

	s := NewStdioMCPServer(strings.NewReader(input), &out)
	assert.NoError(s.AddEndpoint(mcp.MethodPing, mcpE.PingEndpoint(nil)))
	assert.NoError(s.AddEndpoint(mcp.MethodToolsList, mcpE.ListToolsEndpoint(nil)))
	assert.Error(s.AddEndpoint(mcp.MethodPing, mcpE.PingEndpoint(nil)))

	err := s.Listen(context.Background())
	assert.NoError(err)

	var responses []map[string]any

	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		var resp map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
			assert.Fail(err.Error())
			return
		}

		responses = append(responses, resp)
	}

	if !assert.Len(responses, 3) {
		return
	}

	assert.Equal(float64(1), responses[0]["id"])
	assert.Contains(responses[0], "result")

	assert.Equal(float64(2), responses[1]["id"])
	assert.Contains(responses[1], "result")

	assert.Equal(float64(3), responses[2]["id"])
	if e, ok := responses[2]["error"].(map[string]any); assert.True(ok) {
		assert.Equal(float64(mcp.METHOD_NOT_FOUND), e["code"])
	}
}

func TestStdioMCPServerCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewStdioMCPServer(strings.NewReader(""), &bytes.Buffer{})

	err := s.Listen(ctx)
	if err != nil {
		assert.ErrorIs(t, err, context.Canceled)
	}
}
