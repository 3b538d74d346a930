// Package memory provides the vector index tool implementation
package memory

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/invopop/jsonschema"
	"github.com/mark3labs/mcp-go/mcp"
	memstore "github.com/theapemachine/neo4j-vector-memory/pkg/memory"
	"github.com/theapemachine/neo4j-vector-memory/pkg/memory/query"
	"github.com/theapemachine/neo4j-vector-memory/pkg/tools/utils"
)

const toolName = "vector_index"

// operations maps tool operation names onto catalog kinds
var operations = map[string]query.Kind{
	"list_indexes":  query.KindListIndex,
	"create_index":  query.KindCreateIndex,
	"drop_index":    query.KindDropIndex,
	"upsert":        query.KindUpsert,
	"upsert_batch":  query.KindUpsertBatch,
	"get":           query.KindGet,
	"get_batch":     query.KindGetBatch,
	"remove":        query.KindRemove,
	"remove_batch":  query.KindRemoveBatch,
	"nearest_match": query.KindNearestMatch,
}

// Tool implements the vector index tool
type Tool struct {
	handle  mcp.Tool
	factory query.Factory
	memory  *memstore.VectorMemory
}

// New creates a new vector index tool. store may be nil, in which case the
// tool only renders queries.
func New(factory query.Factory, store memstore.GraphStore) *Tool {
	tool := &Tool{
		handle: mcp.NewTool(
			toolName,
			mcp.WithDescription("Build, and optionally run, Cypher queries against a Neo4j vector index"),
			mcp.WithString(
				"operation",
				mcp.Required(),
				mcp.Description("The operation to perform (list_indexes, create_index, drop_index, upsert, upsert_batch, get, get_batch, remove, remove_batch, nearest_match, query_schema)"),
			),
			mcp.WithString(
				"collection",
				mcp.Description("The vector index the operation targets"),
			),
			mcp.WithString(
				"key",
				mcp.Description("The id of a single node; upsert generates one when empty"),
			),
			mcp.WithString(
				"keys",
				mcp.Description("Comma-separated node ids for batch operations"),
			),
			mcp.WithString(
				"embedding",
				mcp.Description("A JSON array of numbers"),
			),
			mcp.WithString(
				"embeddings",
				mcp.Description("A JSON array of JSON arrays, one per key"),
			),
			mcp.WithNumber(
				"min_relevance_score",
				mcp.Description("Lowest similarity score a nearest match may have"),
			),
			mcp.WithNumber(
				"limit",
				mcp.Description("Maximum number of nearest matches, 1 when omitted"),
			),
			mcp.WithBoolean(
				"execute",
				mcp.Description("Run the query against Neo4j instead of returning it"),
			),
		),
		factory: factory,
	}

	if store != nil {
		tool.memory = memstore.NewVectorMemory(factory, store)
	}

	return tool
}

// Handle returns the MCP tool definition
func (tool *Tool) Handle() mcp.Tool {
	return tool.handle
}

// Name returns the name of the tool
func (tool *Tool) Name() string {
	return toolName
}

// arguments holds the parsed request arguments
type arguments struct {
	operation  string
	collection string
	key        string
	keys       []string
	embedding  []float32
	embeddings [][]float32
	minScore   float64
	limit      []int
	execute    bool
}

// parse checks the request and extracts its arguments
func (tool *Tool) parse(request mcp.CallToolRequest) (args arguments, err error) {
	if args.operation, err = utils.GetStringParam(request, "operation", false); err != nil {
		return args, err
	}

	if args.operation == "" {
		return args, fmt.Errorf("operation is required")
	}

	if args.operation == "query_schema" {
		return args, nil
	}

	kind, ok := operations[args.operation]
	if !ok {
		return args, fmt.Errorf("invalid operation: %s", args.operation)
	}

	if args.collection, err = utils.GetOptionalStringParam(request, "collection"); err != nil {
		return args, err
	}

	if args.collection == "" && kind != query.KindListIndex {
		return args, fmt.Errorf("collection is required for %s", args.operation)
	}

	if args.key, err = utils.GetOptionalStringParam(request, "key"); err != nil {
		return args, err
	}

	if args.execute, err = utils.GetOptionalBoolParam(request, "execute"); err != nil {
		return args, err
	}

	if args.minScore, err = utils.GetOptionalFloat64Param(request, "min_relevance_score"); err != nil {
		return args, err
	}

	if utils.HasParam(request, "limit") {
		limit, err := utils.GetOptionalIntParam(request, "limit")
		if err != nil {
			return args, err
		}
		args.limit = []int{limit}
	}

	if args.keys, err = utils.GetStringListParam(request, "keys"); err != nil {
		return args, err
	}

	if args.embedding, err = utils.GetVectorParam(request, "embedding"); err != nil {
		return args, err
	}

	if args.embeddings, err = utils.GetVectorListParam(request, "embeddings"); err != nil {
		return args, err
	}

	switch kind {
	case query.KindGet, query.KindRemove:
		if args.key == "" {
			return args, fmt.Errorf("key is required for %s", args.operation)
		}
	case query.KindUpsert:
		if args.key == "" {
			args.key = uuid.NewString()
		}
		if args.embedding == nil {
			return args, fmt.Errorf("embedding is required for %s", args.operation)
		}
	case query.KindNearestMatch:
		if args.embedding == nil {
			return args, fmt.Errorf("embedding is required for %s", args.operation)
		}
	case query.KindGetBatch, query.KindRemoveBatch, query.KindUpsertBatch:
		if len(args.keys) == 0 {
			return args, fmt.Errorf("keys are required for %s", args.operation)
		}
	}

	return args, nil
}

// Handler processes vector index tool requests
func (tool *Tool) Handler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := tool.parse(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if args.operation == "query_schema" {
		return jsonResult(jsonschema.Reflect(&query.Query{}))
	}

	if args.execute {
		return tool.handleExecute(ctx, args)
	}

	q, err := Build(tool.factory, operations[args.operation], args.collection, args.key, args.keys,
		args.embedding, args.embeddings, args.minScore, args.limit...)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(q)
}

// handleExecute runs the operation through the vector memory
func (tool *Tool) handleExecute(ctx context.Context, args arguments) (*mcp.CallToolResult, error) {
	if tool.memory == nil {
		return mcp.NewToolResultError("Neo4j is not configured, queries can only be rendered"), nil
	}

	var (
		result any
		err    error
	)

	switch operations[args.operation] {
	case query.KindListIndex:
		result, err = tool.memory.Collections(ctx)
	case query.KindCreateIndex:
		err = tool.memory.CreateCollection(ctx, args.collection)
	case query.KindDropIndex:
		err = tool.memory.DropCollection(ctx, args.collection)
	case query.KindUpsert:
		err = tool.memory.Upsert(ctx, args.collection, args.key, args.embedding)
		result = map[string]string{"id": args.key}
	case query.KindUpsertBatch:
		err = tool.memory.UpsertBatch(ctx, args.collection, args.keys, args.embeddings)
	case query.KindGet:
		result, err = tool.memory.Get(ctx, args.collection, args.key)
	case query.KindGetBatch:
		result, err = tool.memory.GetBatch(ctx, args.collection, args.keys)
	case query.KindRemove:
		err = tool.memory.Remove(ctx, args.collection, args.key)
	case query.KindRemoveBatch:
		err = tool.memory.RemoveBatch(ctx, args.collection, args.keys)
	case query.KindNearestMatch:
		limit := query.DefaultLimit
		if len(args.limit) > 0 {
			limit = args.limit[0]
		}
		result, err = tool.memory.NearestMatches(ctx, args.collection, args.embedding, args.minScore, limit)
	}

	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to %s: %v", args.operation, err)), nil
	}

	if result == nil {
		return mcp.NewToolResultText(fmt.Sprintf("%s completed", args.operation)), nil
	}

	return jsonResult(result)
}

/*
Build asks factory for the query of kind, taking from the remaining arguments
only what that operation needs. It is shared by the tool and the CLI.
*/
func Build(
	factory query.Factory,
	kind query.Kind,
	collection, key string,
	keys []string,
	embedding []float32,
	embeddings [][]float32,
	minScore float64,
	limit ...int,
) (query.Query, error) {
	switch kind {
	case query.KindListIndex:
		return factory.ListIndexQuery(), nil
	case query.KindCreateIndex:
		return factory.CreateIndexQuery(collection)
	case query.KindDropIndex:
		return factory.DropIndexQuery(collection)
	case query.KindUpsert:
		return factory.UpsertQuery(collection, key, embedding)
	case query.KindUpsertBatch:
		return factory.UpsertBatchQuery(collection, keys, embeddings)
	case query.KindGet:
		return factory.GetQuery(collection, key)
	case query.KindGetBatch:
		return factory.GetBatchQuery(collection, keys)
	case query.KindRemove:
		return factory.RemoveQuery(collection, key)
	case query.KindRemoveBatch:
		return factory.RemoveBatchQuery(collection, keys)
	case query.KindNearestMatch:
		return factory.NearestMatchQuery(collection, embedding, minScore, limit...)
	}

	return query.Query{}, fmt.Errorf("unsupported operation: %s", kind)
}

// Operation returns the catalog kind for a tool operation name
func Operation(name string) (query.Kind, bool) {
	kind, ok := operations[name]
	return kind, ok
}

func jsonResult(value any) (*mcp.CallToolResult, error) {
	buf, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		log.Error(err)
		return mcp.NewToolResultError("Error marshalling result"), nil
	}

	return mcp.NewToolResultText(string(buf)), nil
}
