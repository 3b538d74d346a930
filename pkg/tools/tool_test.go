package tools

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/theapemachine/neo4j-vector-memory/core/middleware"
	"github.com/theapemachine/neo4j-vector-memory/pkg/memory/query"
	"github.com/theapemachine/neo4j-vector-memory/pkg/tools/memory"
)

func TestRegistry(t *testing.T) {
	Convey("Given an MCP server and a registry", t, func() {
		registry := NewRegistry(server.NewMCPServer("test", "0.0.0"))

		factory, err := query.NewIndexFactory(query.Identity{
			Name:          "memories",
			Node:          "Memory",
			IndexProperty: "embedding",
			Dimensions:    3,
		})
		So(err, ShouldBeNil)

		Convey("When registering the vector index tool", func() {
			tool := memory.New(factory, nil)
			registry.Register(tool)

			Convey("It should be stored under its name", func() {
				So(tool, ShouldImplement, (*Tool)(nil))
				So(registry.Tools(), ShouldContainKey, "vector_index")
			})
		})

		Convey("When the registry carries middlewares", func() {
			var seen []string

			counting := func(next middleware.Handler) middleware.Handler {
				return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
					seen = append(seen, request.Params.Name)
					return next(ctx, request)
				}
			}

			wrapped := NewRegistry(server.NewMCPServer("test", "0.0.0"), counting, middleware.Recover)
			handler := wrapped.Wrap(memory.New(factory, nil))

			request := mcp.CallToolRequest{}
			request.Params.Name = "vector_index"
			request.Params.Arguments = map[string]interface{}{"operation": "list_indexes"}

			Convey("The tool handler should run through them", func() {
				result, err := handler(context.Background(), request)
				So(err, ShouldBeNil)
				So(result.IsError, ShouldBeFalse)
				So(seen, ShouldResemble, []string{"vector_index"})
			})
		})
	})
}
