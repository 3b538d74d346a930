// Package middleware provides middleware components for wrapping MCP tool handlers
package middleware

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handler is the signature shared by every MCP tool handler
type Handler = func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

// Middleware wraps a handler with additional behavior
type Middleware func(Handler) Handler

// Chain applies middlewares so that the first one given is the outermost
func Chain(handler Handler, middlewares ...Middleware) Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}

	return handler
}

// Logging records every tool call with its duration and outcome
func Logging(handler Handler) Handler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		requestContext := extractContext(request)

		log.Debug("Tool call started", "request", requestContext)

		result, err := handler(ctx, request)

		switch {
		case err != nil:
			log.Error("Tool call failed", "request", requestContext, "err", err, "took", time.Since(start))
		case result != nil && result.IsError:
			log.Warn("Tool call returned an error result", "request", requestContext, "took", time.Since(start))
		default:
			log.Info("Tool call completed", "request", requestContext, "took", time.Since(start))
		}

		return result, err
	}
}

// Recover turns a panic inside a handler into an error result
func Recover(handler Handler) Handler {
	return func(ctx context.Context, request mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("Tool call panicked", "tool", request.Params.Name, "panic", r)
				result = mcp.NewToolResultError(fmt.Sprintf("internal error in %s", request.Params.Name))
				err = nil
			}
		}()

		return handler(ctx, request)
	}
}

// extractContext summarizes the request for log lines
func extractContext(request mcp.CallToolRequest) string {
	contextParts := []string{fmt.Sprintf("tool=%s", request.Params.Name)}

	for _, key := range []string{"operation", "collection", "key"} {
		if value, ok := request.Params.Arguments[key].(string); ok && value != "" {
			contextParts = append(contextParts, fmt.Sprintf("%s=%s", key, value))
		}
	}

	if execute, ok := request.Params.Arguments["execute"].(bool); ok && execute {
		contextParts = append(contextParts, "execute=true")
	}

	return strings.Join(contextParts, " ")
}
