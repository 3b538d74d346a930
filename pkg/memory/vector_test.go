package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/theapemachine/neo4j-vector-memory/pkg/memory/query"
)

// MockGraphStore mocks the GraphStore interface for testing
type MockGraphStore struct {
	mock.Mock
}

func (m *MockGraphStore) Execute(ctx context.Context, q query.Query) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockGraphStore) Read(ctx context.Context, q query.Query) ([]map[string]any, error) {
	args := m.Called(ctx, q)
	records, _ := args.Get(0).([]map[string]any)
	return records, args.Error(1)
}

func newTestMemory(t *testing.T) (*VectorMemory, *query.IndexFactory, *MockGraphStore) {
	factory, err := query.NewIndexFactory(query.Identity{
		Name:          "memories",
		Node:          "Memory",
		IndexProperty: "embedding",
		TextProperty:  "text",
		Dimensions:    3,
	})
	require.NoError(t, err)

	store := &MockGraphStore{}
	return NewVectorMemory(factory, store), factory, store
}

func TestVectorMemoryWrites(t *testing.T) {
	ctx := context.Background()

	t.Run("create_collection", func(t *testing.T) {
		memory, factory, store := newTestMemory(t)
		expected, err := factory.CreateIndexQuery("memories")
		require.NoError(t, err)

		store.On("Execute", ctx, expected).Return(nil).Once()

		require.NoError(t, memory.CreateCollection(ctx, "memories"))
		store.AssertExpectations(t)
	})

	t.Run("upsert_batch", func(t *testing.T) {
		memory, factory, store := newTestMemory(t)
		keys := []string{"a", "b"}
		embeddings := [][]float32{{1, 0, 0}, {0, 1, 0}}
		expected, err := factory.UpsertBatchQuery("memories", keys, embeddings)
		require.NoError(t, err)

		store.On("Execute", ctx, expected).Return(nil).Once()

		require.NoError(t, memory.UpsertBatch(ctx, "memories", keys, embeddings))
		store.AssertExpectations(t)
	})

	t.Run("store_error_propagates", func(t *testing.T) {
		memory, _, store := newTestMemory(t)
		boom := errors.New("connection refused")

		store.On("Execute", ctx, mock.AnythingOfType("query.Query")).Return(boom).Once()

		err := memory.Remove(ctx, "memories", "k1")
		assert.ErrorIs(t, err, boom)
	})

	t.Run("mismatch_never_reaches_store", func(t *testing.T) {
		memory, _, store := newTestMemory(t)

		err := memory.Upsert(ctx, "other", "k1", []float32{1, 0, 0})
		assert.ErrorIs(t, err, query.ErrIdentityMismatch)

		err = memory.DropCollection(ctx, "other")
		assert.ErrorIs(t, err, query.ErrIdentityMismatch)

		_, err = memory.NearestMatches(ctx, "other", []float32{1, 0, 0}, 0.5, 3)
		assert.ErrorIs(t, err, query.ErrIdentityMismatch)

		store.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
		store.AssertNotCalled(t, "Read", mock.Anything, mock.Anything)
	})
}

func TestVectorMemoryReads(t *testing.T) {
	ctx := context.Background()

	t.Run("collections", func(t *testing.T) {
		memory, factory, store := newTestMemory(t)
		store.On("Read", ctx, factory.ListIndexQuery()).Return([]map[string]any{
			{"name": "memories"},
			{"name": "documents"},
		}, nil)

		names, err := memory.Collections(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"memories", "documents"}, names)
	})

	t.Run("get", func(t *testing.T) {
		memory, factory, store := newTestMemory(t)
		expected, err := factory.GetQuery("memories", "k1")
		require.NoError(t, err)

		store.On("Read", ctx, expected).Return([]map[string]any{
			{"n": map[string]any{
				"id":        "k1",
				"text":      "hello",
				"embedding": []any{0.5, 0.25, 1.0},
				"source":    "test",
			}},
		}, nil)

		record, err := memory.Get(ctx, "memories", "k1")
		require.NoError(t, err)
		assert.Equal(t, "k1", record.ID)
		assert.Equal(t, "hello", record.Text)
		assert.Equal(t, []float32{0.5, 0.25, 1}, record.Embedding)
		assert.Equal(t, map[string]any{"source": "test"}, record.Properties)
	})

	t.Run("get_missing", func(t *testing.T) {
		memory, _, store := newTestMemory(t)
		store.On("Read", ctx, mock.AnythingOfType("query.Query")).Return(nil, nil)

		record, err := memory.Get(ctx, "memories", "nope")
		assert.Nil(t, record)
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("get_batch", func(t *testing.T) {
		memory, factory, store := newTestMemory(t)
		expected, err := factory.GetBatchQuery("memories", []string{"a", "b"})
		require.NoError(t, err)

		store.On("Read", ctx, expected).Return([]map[string]any{
			{"n": map[string]any{"id": "a", "embedding": []float64{1, 0, 0}}},
			{"n": map[string]any{"id": "b"}},
		}, nil)

		records, err := memory.GetBatch(ctx, "memories", []string{"a", "b"})
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, []float32{1, 0, 0}, records[0].Embedding)
		assert.Equal(t, "b", records[1].ID)
	})

	t.Run("nearest_matches", func(t *testing.T) {
		memory, factory, store := newTestMemory(t)
		expected, err := factory.NearestMatchQuery("memories", []float32{1, 0, 0}, 0.8, 2)
		require.NoError(t, err)

		store.On("Read", ctx, expected).Return([]map[string]any{
			{"id": "a", "score": 0.99},
			{"id": int64(7), "score": 0.81},
		}, nil)

		matches, err := memory.NearestMatches(ctx, "memories", []float32{1, 0, 0}, 0.8, 2)
		require.NoError(t, err)
		assert.Equal(t, []Match{{ID: "a", Score: 0.99}, {ID: "7", Score: 0.81}}, matches)
	})
}
