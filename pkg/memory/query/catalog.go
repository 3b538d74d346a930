// Package query builds parameterized Cypher for Neo4j vector indexes.
//
// A factory is bound to exactly one index. Each operation checks the caller's
// collection name against that index, shapes a parameter map and pairs it with
// a template from the catalog below. Nothing in this package talks to the
// database.
package query

// Kind names one operation of the catalog.
type Kind string

const (
	KindListIndex    Kind = "list_index"
	KindCreateIndex  Kind = "create_index"
	KindDropIndex    Kind = "drop_index"
	KindUpsert       Kind = "upsert"
	KindUpsertBatch  Kind = "upsert_batch"
	KindGet          Kind = "get"
	KindGetBatch     Kind = "get_batch"
	KindRemove       Kind = "remove"
	KindRemoveBatch  Kind = "remove_batch"
	KindNearestMatch Kind = "nearest_match"
)

// Kinds lists every operation in catalog order.
var Kinds = []Kind{
	KindListIndex,
	KindCreateIndex,
	KindDropIndex,
	KindUpsert,
	KindUpsertBatch,
	KindGet,
	KindGetBatch,
	KindRemove,
	KindRemoveBatch,
	KindNearestMatch,
}

/*
Templates are written against Neo4j 5.15 or later. Placeholders in schema
position (index names, labels, property keys, OPTIONS values) cannot be bound
at runtime, so the catalog records them per template and the factory
substitutes them from the bound identity. Every other placeholder is a bound
parameter.
*/
const (
	ListIndexTemplate = `SHOW VECTOR INDEXES YIELD name`

	// name, node, indexProperty and dimensions are substituted.
	CreateIndexTemplate = `CREATE VECTOR INDEX $name IF NOT EXISTS
FOR (n:$node) ON (n.$indexProperty)
OPTIONS {indexConfig: {
  ` + "`vector.dimensions`" + `: $dimensions,
  ` + "`vector.similarity_function`" + `: 'cosine'
}}`

	// name is substituted.
	DropIndexTemplate = `DROP INDEX $name IF EXISTS`

	// indexProperty is substituted as the procedure's property key.
	UpsertTemplate = `MATCH (n {id: $id})
WHERE $node IN labels(n)
CALL db.create.setNodeVectorProperty(n, $indexProperty, $embedding)
RETURN n.id AS id`

	// indexProperty is substituted as the procedure's property key.
	UpsertBatchTemplate = `UNWIND $updates AS row
MATCH (n {id: row.id})
WHERE $node IN labels(n)
CALL db.create.setNodeVectorProperty(n, $indexProperty, row.embedding)
RETURN n.id AS id`

	GetTemplate = `MATCH (n {id: $id})
WHERE $node IN labels(n)
RETURN n`

	GetBatchTemplate = `UNWIND $ids AS id
MATCH (n {id: id})
WHERE $node IN labels(n)
RETURN n`

	RemoveTemplate = `MATCH (n {id: $id})
WHERE $node IN labels(n)
DETACH DELETE n`

	RemoveBatchTemplate = `UNWIND $ids AS id
MATCH (n {id: id})
WHERE $node IN labels(n)
DETACH DELETE n`

	// name is substituted as the procedure's index name argument.
	NearestMatchTemplate = `CALL db.index.vector.queryNodes($name, $limit, $embedding)
YIELD node, score
WHERE score >= $minRelevanceScore
RETURN node.id AS id, score`
)

// tokenForm is how a schema-position placeholder is written into the text.
type tokenForm int

const (
	formIdentifier tokenForm = iota
	formString
	formInteger
)

// schemaToken is a placeholder that the factory substitutes rather than binds.
type schemaToken struct {
	placeholder string
	form        tokenForm
}

type entry struct {
	template string
	schema   []schemaToken
}

var catalog = map[Kind]entry{
	KindListIndex: {template: ListIndexTemplate},
	KindCreateIndex: {
		template: CreateIndexTemplate,
		schema: []schemaToken{
			{"name", formIdentifier},
			{"node", formIdentifier},
			{"indexProperty", formIdentifier},
			{"dimensions", formInteger},
		},
	},
	KindDropIndex: {
		template: DropIndexTemplate,
		schema:   []schemaToken{{"name", formIdentifier}},
	},
	KindUpsert: {
		template: UpsertTemplate,
		schema:   []schemaToken{{"indexProperty", formString}},
	},
	KindUpsertBatch: {
		template: UpsertBatchTemplate,
		schema:   []schemaToken{{"indexProperty", formString}},
	},
	KindGet:         {template: GetTemplate},
	KindGetBatch:    {template: GetBatchTemplate},
	KindRemove:      {template: RemoveTemplate},
	KindRemoveBatch: {template: RemoveBatchTemplate},
	KindNearestMatch: {
		template: NearestMatchTemplate,
		schema:   []schemaToken{{"name", formString}},
	},
}

// Template returns the raw catalog text for an operation, placeholders intact.
func Template(kind Kind) (string, bool) {
	e, ok := catalog[kind]
	return e.template, ok
}

// SchemaPlaceholders returns the placeholders of a template that are
// substituted from the index identity instead of bound as parameters.
func SchemaPlaceholders(kind Kind) []string {
	e := catalog[kind]
	out := make([]string, 0, len(e.schema))
	for _, token := range e.schema {
		out = append(out, token.placeholder)
	}
	return out
}
