package memory

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/theapemachine/neo4j-vector-memory/pkg/memory/query"
)

// ErrRecordNotFound is returned by Get when no node carries the key.
var ErrRecordNotFound = errors.New("memory record not found")

// MemoryRecord is a node of the vector index as read back from the graph.
type MemoryRecord struct {
	ID         string         `json:"id"`
	Text       string         `json:"text,omitempty"`
	Embedding  []float32      `json:"embedding,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Match is one nearest-neighbour result.
type Match struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

/*
VectorMemory pairs a query factory with a graph store. It owns no query text:
every call asks the factory for a query and hands it to the store, so a
mismatched collection name fails before the database is contacted.
*/
type VectorMemory struct {
	factory query.Factory
	store   GraphStore
}

// NewVectorMemory creates a vector memory over factory and store.
func NewVectorMemory(factory query.Factory, store GraphStore) *VectorMemory {
	return &VectorMemory{factory: factory, store: store}
}

// Factory returns the query factory in use.
func (memory *VectorMemory) Factory() query.Factory {
	return memory.factory
}

// Collections lists the names of the vector indexes in the database.
func (memory *VectorMemory) Collections(ctx context.Context) ([]string, error) {
	records, err := memory.store.Read(ctx, memory.factory.ListIndexQuery())
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(records))
	for _, record := range records {
		if name, ok := record["name"].(string); ok {
			names = append(names, name)
		}
	}

	return names, nil
}

// CreateCollection creates the bound vector index.
func (memory *VectorMemory) CreateCollection(ctx context.Context, collection string) error {
	return memory.execute(ctx, func() (query.Query, error) {
		return memory.factory.CreateIndexQuery(collection)
	})
}

// DropCollection drops the bound vector index.
func (memory *VectorMemory) DropCollection(ctx context.Context, collection string) error {
	return memory.execute(ctx, func() (query.Query, error) {
		return memory.factory.DropIndexQuery(collection)
	})
}

// Upsert writes the embedding onto the node with the given key.
func (memory *VectorMemory) Upsert(ctx context.Context, collection, key string, embedding []float32) error {
	return memory.execute(ctx, func() (query.Query, error) {
		return memory.factory.UpsertQuery(collection, key, embedding)
	})
}

// UpsertBatch writes each embedding onto the node of the key at the same position.
func (memory *VectorMemory) UpsertBatch(ctx context.Context, collection string, keys []string, embeddings [][]float32) error {
	return memory.execute(ctx, func() (query.Query, error) {
		return memory.factory.UpsertBatchQuery(collection, keys, embeddings)
	})
}

// Remove deletes the node with the given key.
func (memory *VectorMemory) Remove(ctx context.Context, collection, key string) error {
	return memory.execute(ctx, func() (query.Query, error) {
		return memory.factory.RemoveQuery(collection, key)
	})
}

// RemoveBatch deletes the nodes with the given keys.
func (memory *VectorMemory) RemoveBatch(ctx context.Context, collection string, keys []string) error {
	return memory.execute(ctx, func() (query.Query, error) {
		return memory.factory.RemoveBatchQuery(collection, keys)
	})
}

// Get reads the node with the given key.
func (memory *VectorMemory) Get(ctx context.Context, collection, key string) (*MemoryRecord, error) {
	q, err := memory.factory.GetQuery(collection, key)
	if err != nil {
		return nil, err
	}

	records, err := memory.read(ctx, q)
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, key)
	}

	return &records[0], nil
}

// GetBatch reads the nodes with the given keys. Missing keys are skipped.
func (memory *VectorMemory) GetBatch(ctx context.Context, collection string, keys []string) ([]MemoryRecord, error) {
	q, err := memory.factory.GetBatchQuery(collection, keys)
	if err != nil {
		return nil, err
	}

	return memory.read(ctx, q)
}

// NearestMatches returns up to limit ids closest to embedding with a score of at least minRelevanceScore.
func (memory *VectorMemory) NearestMatches(
	ctx context.Context, collection string, embedding []float32, minRelevanceScore float64, limit int,
) ([]Match, error) {
	q, err := memory.factory.NearestMatchQuery(collection, embedding, minRelevanceScore, limit)
	if err != nil {
		return nil, err
	}

	records, err := memory.store.Read(ctx, q)
	if err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(records))
	for _, record := range records {
		match := Match{ID: toID(record["id"])}
		if score, ok := record["score"].(float64); ok {
			match.Score = score
		}
		matches = append(matches, match)
	}

	return matches, nil
}

func (memory *VectorMemory) execute(ctx context.Context, build func() (query.Query, error)) error {
	q, err := build()
	if err != nil {
		return err
	}

	if err := memory.store.Execute(ctx, q); err != nil {
		log.Error("vector memory write failed", "kind", q.Kind, "err", err)
		return err
	}

	return nil
}

func (memory *VectorMemory) read(ctx context.Context, q query.Query) ([]MemoryRecord, error) {
	records, err := memory.store.Read(ctx, q)
	if err != nil {
		log.Error("vector memory read failed", "kind", q.Kind, "err", err)
		return nil, err
	}

	out := make([]MemoryRecord, 0, len(records))
	for _, record := range records {
		props, ok := record["n"].(map[string]any)
		if !ok {
			continue
		}

		out = append(out, memory.toRecord(props))
	}

	return out, nil
}

// toRecord lifts the id, text and vector properties out of a node's property map.
func (memory *VectorMemory) toRecord(props map[string]any) MemoryRecord {
	record := MemoryRecord{
		ID:         toID(props["id"]),
		Properties: make(map[string]any, len(props)),
	}

	for key, value := range props {
		switch key {
		case "id":
		case memory.factory.TextProperty():
			record.Text, _ = value.(string)
		case memory.factory.IndexProperty():
			record.Embedding = toVector(value)
		default:
			record.Properties[key] = value
		}
	}

	return record
}

func toID(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// toVector accepts the list types the driver hands back for a vector property.
func toVector(value any) []float32 {
	switch v := value.(type) {
	case []float32:
		return v
	case []float64:
		out := make([]float32, len(v))
		for i, f := range v {
			out[i] = float32(f)
		}
		return out
	case []any:
		out := make([]float32, 0, len(v))
		for _, item := range v {
			switch f := item.(type) {
			case float64:
				out = append(out, float32(f))
			case float32:
				out = append(out, f)
			case int64:
				out = append(out, float32(f))
			}
		}
		return out
	}

	return nil
}
