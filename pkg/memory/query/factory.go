package query

import (
	"github.com/charmbracelet/log"
)

// DefaultLimit is the nearest-match limit used when the caller passes none.
const DefaultLimit = 1

// Params maps placeholder names to bound values.
type Params map[string]any

// Query is a Cypher text paired with the parameters it binds.
type Query struct {
	Kind   Kind   `json:"kind" yaml:"kind"`
	Text   string `json:"text" yaml:"text"`
	Params Params `json:"params,omitempty" yaml:"params,omitempty"`
}

// Factory builds the queries of one vector index.
type Factory interface {
	TextProperty() string
	IndexProperty() string
	ListIndexQuery() Query
	CreateIndexQuery(collection string) (Query, error)
	DropIndexQuery(collection string) (Query, error)
	UpsertQuery(collection, key string, embedding []float32) (Query, error)
	UpsertBatchQuery(collection string, keys []string, embeddings [][]float32) (Query, error)
	GetQuery(collection, key string) (Query, error)
	GetBatchQuery(collection string, keys []string) (Query, error)
	RemoveQuery(collection, key string) (Query, error)
	RemoveBatchQuery(collection string, keys []string) (Query, error)
	NearestMatchQuery(collection string, embedding []float32, minRelevanceScore float64, limit ...int) (Query, error)
}

var _ Factory = (*IndexFactory)(nil)

// BatchPolicy decides what UpsertBatchQuery does with unequal input lengths.
type BatchPolicy int

const (
	// BatchTruncate pairs keys and embeddings up to the shorter of the two.
	BatchTruncate BatchPolicy = iota
	// BatchStrict rejects unequal lengths with ErrBatchLengthMismatch.
	BatchStrict
)

// Option configures an IndexFactory.
type Option func(*IndexFactory)

// WithBatchPolicy sets the batch upsert length policy.
func WithBatchPolicy(policy BatchPolicy) Option {
	return func(factory *IndexFactory) {
		factory.policy = policy
	}
}

/*
IndexFactory is the default Factory. It is bound to one Identity for its
whole lifetime and rejects any operation naming another collection. Requires
Neo4j 5.15 or later for the vector procedures used by the catalog.
*/
type IndexFactory struct {
	identity Identity
	policy   BatchPolicy
	props    *DynamicProperties
}

// NewIndexFactory binds a factory to identity.
func NewIndexFactory(identity Identity, opts ...Option) (*IndexFactory, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}

	factory := &IndexFactory{
		identity: identity,
		policy:   BatchTruncate,
		props:    NewDynamicProperties(),
	}

	for _, opt := range opts {
		opt(factory)
	}

	return factory, nil
}

// Identity returns a copy of the bound identity.
func (factory *IndexFactory) Identity() Identity {
	return factory.identity
}

// TextProperty returns the property holding the original text.
func (factory *IndexFactory) TextProperty() string {
	return factory.identity.TextProperty
}

// IndexProperty returns the property holding the vector.
func (factory *IndexFactory) IndexProperty() string {
	return factory.identity.IndexProperty
}

// BatchPolicy returns the configured batch upsert policy.
func (factory *IndexFactory) BatchPolicy() BatchPolicy {
	return factory.policy
}

// DynamicProperties returns the factory's side-table for overrides.
func (factory *IndexFactory) DynamicProperties() *DynamicProperties {
	return factory.props
}

// Text returns the template of kind with the bound identity substituted into
// its schema positions.
func (factory *IndexFactory) Text(kind Kind) string {
	return render(kind, factory.identity)
}

// CheckCollection fails with a *MismatchError unless collection is the bound index name.
func (factory *IndexFactory) CheckCollection(collection string) error {
	if collection == factory.identity.Name {
		return nil
	}

	log.Debug(
		"collection does not match bound index",
		"requested", collection,
		"bound", factory.identity.Name,
	)

	return &MismatchError{Requested: collection, Bound: factory.identity.Name}
}

// build checks the collection before any parameter shaping happens.
func (factory *IndexFactory) build(kind Kind, collection string, shape func() (Params, error)) (Query, error) {
	if err := factory.CheckCollection(collection); err != nil {
		return Query{}, err
	}

	params, err := shape()
	if err != nil {
		return Query{}, err
	}

	return Query{Kind: kind, Text: factory.Text(kind), Params: params}, nil
}

// ListIndexQuery lists vector indexes. It is not bound to a collection.
func (factory *IndexFactory) ListIndexQuery() Query {
	return Query{Kind: KindListIndex, Text: factory.Text(KindListIndex), Params: Params{}}
}

func (factory *IndexFactory) CreateIndexQuery(collection string) (Query, error) {
	return factory.build(KindCreateIndex, collection, func() (Params, error) {
		return Params{
			"name":          factory.identity.Name,
			"node":          factory.identity.Node,
			"indexProperty": factory.identity.IndexProperty,
			"dimensions":    factory.identity.Dimensions,
		}, nil
	})
}

func (factory *IndexFactory) DropIndexQuery(collection string) (Query, error) {
	return factory.build(KindDropIndex, collection, func() (Params, error) {
		return Params{"name": factory.identity.Name}, nil
	})
}

func (factory *IndexFactory) UpsertQuery(collection, key string, embedding []float32) (Query, error) {
	return factory.build(KindUpsert, collection, func() (Params, error) {
		return Params{
			"id":        key,
			"node":      factory.identity.Node,
			"embedding": cloneVector(embedding),
		}, nil
	})
}

/*
UpsertBatchQuery pairs keys and embeddings by position. Under BatchTruncate
the pairing stops at the shorter input and the tail of the longer one is
dropped without error; under BatchStrict unequal lengths fail.
*/
func (factory *IndexFactory) UpsertBatchQuery(collection string, keys []string, embeddings [][]float32) (Query, error) {
	return factory.build(KindUpsertBatch, collection, func() (Params, error) {
		if len(keys) != len(embeddings) && factory.policy == BatchStrict {
			return nil, ErrBatchLengthMismatch
		}

		n := min(len(keys), len(embeddings))
		updates := make([]map[string]any, 0, n)

		for i := 0; i < n; i++ {
			updates = append(updates, map[string]any{
				"id":        keys[i],
				"embedding": cloneVector(embeddings[i]),
			})
		}

		return Params{
			"node":    factory.identity.Node,
			"updates": updates,
		}, nil
	})
}

func (factory *IndexFactory) GetQuery(collection, key string) (Query, error) {
	return factory.build(KindGet, collection, func() (Params, error) {
		return Params{"id": key, "node": factory.identity.Node}, nil
	})
}

func (factory *IndexFactory) GetBatchQuery(collection string, keys []string) (Query, error) {
	return factory.build(KindGetBatch, collection, func() (Params, error) {
		return Params{"ids": cloneKeys(keys), "node": factory.identity.Node}, nil
	})
}

func (factory *IndexFactory) RemoveQuery(collection, key string) (Query, error) {
	return factory.build(KindRemove, collection, func() (Params, error) {
		return Params{"id": key, "node": factory.identity.Node}, nil
	})
}

func (factory *IndexFactory) RemoveBatchQuery(collection string, keys []string) (Query, error) {
	return factory.build(KindRemoveBatch, collection, func() (Params, error) {
		return Params{"ids": cloneKeys(keys), "node": factory.identity.Node}, nil
	})
}

/*
NearestMatchQuery searches the index for the embedding's nearest nodes. The
database keeps matches scoring at least minRelevanceScore and returns at most
limit of them, each as an id and a score. limit defaults to DefaultLimit.
*/
func (factory *IndexFactory) NearestMatchQuery(
	collection string, embedding []float32, minRelevanceScore float64, limit ...int,
) (Query, error) {
	return factory.build(KindNearestMatch, collection, func() (Params, error) {
		n := DefaultLimit
		if len(limit) > 0 {
			n = limit[0]
		}

		return Params{
			"name":              factory.identity.Name,
			"limit":             n,
			"embedding":         cloneVector(embedding),
			"minRelevanceScore": minRelevanceScore,
		}, nil
	})
}

func cloneVector(embedding []float32) []float32 {
	out := make([]float32, len(embedding))
	copy(out, embedding)
	return out
}

func cloneKeys(keys []string) []string {
	out := make([]string, len(keys))
	copy(out, keys)
	return out
}
