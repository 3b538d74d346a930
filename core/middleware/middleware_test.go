package middleware

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	. "github.com/smartystreets/goconvey/convey"
)

func newRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	request := mcp.CallToolRequest{}
	request.Params.Name = name
	request.Params.Arguments = args
	return request
}

func TestChain(t *testing.T) {
	Convey("Given two middlewares that record their order", t, func() {
		var order []string

		record := func(name string) Middleware {
			return func(next Handler) Handler {
				return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
					order = append(order, name)
					return next(ctx, request)
				}
			}
		}

		handler := Chain(func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			order = append(order, "handler")
			return mcp.NewToolResultText("ok"), nil
		}, record("outer"), record("inner"))

		Convey("The first middleware should run first", func() {
			result, err := handler(context.Background(), newRequest("vector_index", nil))
			So(err, ShouldBeNil)
			So(result, ShouldNotBeNil)
			So(order, ShouldResemble, []string{"outer", "inner", "handler"})
		})
	})
}

func TestRecover(t *testing.T) {
	Convey("Given a handler that panics", t, func() {
		handler := Chain(func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			panic("boom")
		}, Logging, Recover)

		Convey("It should return an error result instead", func() {
			result, err := handler(context.Background(), newRequest("vector_index", nil))
			So(err, ShouldBeNil)
			So(result, ShouldNotBeNil)
			So(result.IsError, ShouldBeTrue)
		})
	})
}

func TestExtractContext(t *testing.T) {
	Convey("Given a vector index request", t, func() {
		request := newRequest("vector_index", map[string]interface{}{
			"operation":  "get",
			"collection": "memories",
			"key":        "k1",
			"execute":    true,
			"embedding":  "[1,2,3]",
		})

		Convey("It should only summarize the identifying arguments", func() {
			So(extractContext(request), ShouldEqual, "tool=vector_index operation=get collection=memories key=k1 execute=true")
		})
	})
}
