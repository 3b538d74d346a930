package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	sdk "github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/theapemachine/neo4j-vector-memory/pkg/memory/query"
)

// Neo4jStore implements the GraphStore interface for Neo4j
type Neo4jStore struct {
	client sdk.DriverWithContext
	dbName string
}

// NewNeo4jStore connects to Neo4j and verifies the connection
func NewNeo4jStore(url, username, password, dbName string) (*Neo4jStore, error) {
	if dbName == "" {
		dbName = "neo4j" // Default database name
	}

	driver, err := sdk.NewDriverWithContext(
		url,
		sdk.BasicAuth(
			username,
			password,
			"",
		),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create Neo4j driver: %w", err)
	}

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err = driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("failed to connect to Neo4j: %w", err)
	}

	return &Neo4jStore{
		client: driver,
		dbName: dbName,
	}, nil
}

// Execute runs a write query with its parameters
func (store *Neo4jStore) Execute(ctx context.Context, q query.Query) error {
	session := store.client.NewSession(ctx, sdk.SessionConfig{
		DatabaseName: store.dbName,
		AccessMode:   sdk.AccessModeWrite,
	})
	defer session.Close(ctx)

	log.Debug("executing query", "kind", q.Kind, "database", store.dbName)

	result, err := session.Run(ctx, q.Text, q.Params)
	if err != nil {
		return fmt.Errorf("failed to execute %s query: %w", q.Kind, err)
	}

	if _, err = result.Consume(ctx); err != nil {
		return fmt.Errorf("error processing %s results: %w", q.Kind, err)
	}

	return nil
}

// Read runs a read query and collects every record
func (store *Neo4jStore) Read(ctx context.Context, q query.Query) ([]map[string]any, error) {
	session := store.client.NewSession(ctx, sdk.SessionConfig{
		DatabaseName: store.dbName,
		AccessMode:   sdk.AccessModeRead,
	})
	defer session.Close(ctx)

	log.Debug("reading query", "kind", q.Kind, "database", store.dbName)

	result, err := session.Run(ctx, q.Text, q.Params)
	if err != nil {
		return nil, fmt.Errorf("failed to execute %s query: %w", q.Kind, err)
	}

	var records []map[string]any
	for result.Next(ctx) {
		records = append(records, flattenRecord(result.Record().AsMap()))
	}

	if err := result.Err(); err != nil {
		return records, fmt.Errorf("error processing %s results: %w", q.Kind, err)
	}

	return records, nil
}

// Close releases all resources held by the driver
func (store *Neo4jStore) Close(ctx context.Context) error {
	return store.client.Close(ctx)
}

// flattenRecord replaces node values with their property maps
func flattenRecord(record map[string]any) map[string]any {
	for key, value := range record {
		if node, ok := value.(sdk.Node); ok {
			record[key] = node.Props
		}
	}

	return record
}
