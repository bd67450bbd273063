// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package mcpserver exposes the tool catalog over the Model Context Protocol,
// on stdio or on streamable HTTP.
package mcpserver

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"odoomcp/cli/internal/tools"
)

var logger = xlog.NewPackageLogger("odoomcp/cli/internal", "mcpserver")

// Name is the implementation name announced to clients.
const Name = "odoo-mcp-server"

// New builds an MCP server with one tool per catalog entry. Calls naming a
// tool outside the catalog are answered by the adapter as well, so clients
// always receive a text result.
func New(adapter *tools.Adapter, version string) (*mcp.Server, error) {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    Name,
		Version: version,
	}, nil)

	for _, def := range adapter.ListTools() {
		schema, err := def.InputSchema()
		if err != nil {
			return nil, err
		}
		server.AddTool(&mcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: schema,
		}, handler(adapter))
	}

	server.AddReceivingMiddleware(unknownToolMiddleware(adapter))
	return server, nil
}

func handler(adapter *tools.Adapter) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res := adapter.InvokeJSON(ctx, req.Params.Name, req.Params.Arguments)
		return textResult(res.Text), nil
	}
}

// unknownToolMiddleware answers tools/call for names outside the catalog
// with the adapter's payload instead of a protocol error.
func unknownToolMiddleware(adapter *tools.Adapter) mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			if method != "tools/call" {
				return next(ctx, method, req)
			}
			call, ok := req.(*mcp.CallToolRequest)
			if !ok || call.Params == nil {
				return next(ctx, method, req)
			}
			if _, known := tools.Lookup(call.Params.Name); known {
				return next(ctx, method, req)
			}
			res := adapter.InvokeJSON(ctx, call.Params.Name, call.Params.Arguments)
			return textResult(res.Text), nil
		}
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// ServeStdio runs the server on stdin/stdout until the client disconnects or
// ctx is canceled.
func ServeStdio(ctx context.Context, server *mcp.Server) error {
	logger.KV(xlog.NOTICE, "status", "serving", "transport", "stdio")
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return errors.Wrap(err, "mcp stdio server")
	}
	return nil
}
