// Package memory runs vector index queries against a graph database.
package memory

import (
	"context"

	"github.com/theapemachine/neo4j-vector-memory/pkg/memory/query"
)

// GraphStore defines the interface for graph database operations
type GraphStore interface {
	// Execute runs a write query and discards its records
	Execute(ctx context.Context, q query.Query) error

	// Read runs a read query and returns its records, with nodes flattened to their properties
	Read(ctx context.Context, q query.Query) ([]map[string]any, error)
}
