package query

/*
Overrides replaces individual operations of an IndexFactory. A nil field keeps
the default. The collection name has already been checked against the bound
index when an override runs, and the override receives the base factory so it
can reuse Text, DynamicProperties or the default method itself.

Upsert and batch upsert cannot be overridden.
*/
type Overrides struct {
	ListIndex    func(base *IndexFactory) Query
	CreateIndex  func(base *IndexFactory, collection string) (Query, error)
	DropIndex    func(base *IndexFactory, collection string) (Query, error)
	Get          func(base *IndexFactory, collection, key string) (Query, error)
	GetBatch     func(base *IndexFactory, collection string, keys []string) (Query, error)
	Remove       func(base *IndexFactory, collection, key string) (Query, error)
	RemoveBatch  func(base *IndexFactory, collection string, keys []string) (Query, error)
	NearestMatch func(base *IndexFactory, collection string, embedding []float32, minRelevanceScore float64, limit int) (Query, error)
}

// OverriddenFactory is a Factory that consults Overrides before the defaults.
type OverriddenFactory struct {
	*IndexFactory
	overrides Overrides
}

var _ Factory = (*OverriddenFactory)(nil)

// NewOverridden wraps base with overrides.
func NewOverridden(base *IndexFactory, overrides Overrides) *OverriddenFactory {
	return &OverriddenFactory{IndexFactory: base, overrides: overrides}
}

func (factory *OverriddenFactory) ListIndexQuery() Query {
	if factory.overrides.ListIndex == nil {
		return factory.IndexFactory.ListIndexQuery()
	}

	return factory.overrides.ListIndex(factory.IndexFactory)
}

func (factory *OverriddenFactory) CreateIndexQuery(collection string) (Query, error) {
	if factory.overrides.CreateIndex == nil {
		return factory.IndexFactory.CreateIndexQuery(collection)
	}

	if err := factory.CheckCollection(collection); err != nil {
		return Query{}, err
	}

	return factory.overrides.CreateIndex(factory.IndexFactory, collection)
}

func (factory *OverriddenFactory) DropIndexQuery(collection string) (Query, error) {
	if factory.overrides.DropIndex == nil {
		return factory.IndexFactory.DropIndexQuery(collection)
	}

	if err := factory.CheckCollection(collection); err != nil {
		return Query{}, err
	}

	return factory.overrides.DropIndex(factory.IndexFactory, collection)
}

func (factory *OverriddenFactory) GetQuery(collection, key string) (Query, error) {
	if factory.overrides.Get == nil {
		return factory.IndexFactory.GetQuery(collection, key)
	}

	if err := factory.CheckCollection(collection); err != nil {
		return Query{}, err
	}

	return factory.overrides.Get(factory.IndexFactory, collection, key)
}

func (factory *OverriddenFactory) GetBatchQuery(collection string, keys []string) (Query, error) {
	if factory.overrides.GetBatch == nil {
		return factory.IndexFactory.GetBatchQuery(collection, keys)
	}

	if err := factory.CheckCollection(collection); err != nil {
		return Query{}, err
	}

	return factory.overrides.GetBatch(factory.IndexFactory, collection, keys)
}

func (factory *OverriddenFactory) RemoveQuery(collection, key string) (Query, error) {
	if factory.overrides.Remove == nil {
		return factory.IndexFactory.RemoveQuery(collection, key)
	}

	if err := factory.CheckCollection(collection); err != nil {
		return Query{}, err
	}

	return factory.overrides.Remove(factory.IndexFactory, collection, key)
}

func (factory *OverriddenFactory) RemoveBatchQuery(collection string, keys []string) (Query, error) {
	if factory.overrides.RemoveBatch == nil {
		return factory.IndexFactory.RemoveBatchQuery(collection, keys)
	}

	if err := factory.CheckCollection(collection); err != nil {
		return Query{}, err
	}

	return factory.overrides.RemoveBatch(factory.IndexFactory, collection, keys)
}

func (factory *OverriddenFactory) NearestMatchQuery(
	collection string, embedding []float32, minRelevanceScore float64, limit ...int,
) (Query, error) {
	if factory.overrides.NearestMatch == nil {
		return factory.IndexFactory.NearestMatchQuery(collection, embedding, minRelevanceScore, limit...)
	}

	if err := factory.CheckCollection(collection); err != nil {
		return Query{}, err
	}

	n := DefaultLimit
	if len(limit) > 0 {
		n = limit[0]
	}

	return factory.overrides.NearestMatch(factory.IndexFactory, collection, embedding, minRelevanceScore, n)
}
