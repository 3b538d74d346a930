package config

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/theapemachine/neo4j-vector-memory/pkg/memory/query"
)

func TestDefaults(t *testing.T) {
	Convey("Given no environment", t, func() {
		cfg := fromViper(newViper())

		Convey("It should describe the default index", func() {
			So(cfg.Identity(), ShouldResemble, query.Identity{
				Name:          "vector_index",
				Node:          "Memory",
				IndexProperty: "embedding",
				TextProperty:  "text",
				Dimensions:    1536,
			})
			So(cfg.Neo4j.Database, ShouldEqual, "neo4j")
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.HasNeo4j(), ShouldBeFalse)
			So(cfg.Validate(), ShouldBeNil)
		})

		Convey("It should truncate batches", func() {
			policy, err := cfg.BatchPolicy()
			So(err, ShouldBeNil)
			So(policy, ShouldEqual, query.BatchTruncate)
		})
	})
}

func TestEnvironment(t *testing.T) {
	Convey("Given environment overrides", t, func() {
		t.Setenv("NEO4J_URL", "neo4j://graph:7687")
		t.Setenv("NEO4J_USER", "neo4j")
		t.Setenv("NEO4J_PASSWORD", "secret")
		t.Setenv("VECTOR_INDEX_NAME", "documents")
		t.Setenv("VECTOR_DIMENSIONS", "384")
		t.Setenv("VECTOR_BATCH_POLICY", "STRICT")

		cfg := fromViper(newViper())

		Convey("It should read them", func() {
			So(cfg.Neo4j.URL, ShouldEqual, "neo4j://graph:7687")
			So(cfg.Neo4j.Username, ShouldEqual, "neo4j")
			So(cfg.HasNeo4j(), ShouldBeTrue)
			So(cfg.Index.Name, ShouldEqual, "documents")
			So(cfg.Index.Dimensions, ShouldEqual, 384)

			policy, err := cfg.BatchPolicy()
			So(err, ShouldBeNil)
			So(policy, ShouldEqual, query.BatchStrict)
		})
	})

	Convey("Given an invalid configuration", t, func() {
		t.Setenv("NEO4J_URL", "neo4j://graph:7687")
		t.Setenv("NEO4J_USER", "")
		t.Setenv("NEO4J_PASSWORD", "")
		t.Setenv("VECTOR_DIMENSIONS", "0")
		t.Setenv("VECTOR_BATCH_POLICY", "zip")

		err := fromViper(newViper()).Validate()

		Convey("It should report every problem", func() {
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "dimensions must be positive")
			So(err.Error(), ShouldContainSubstring, `unknown batch policy "zip"`)
			So(err.Error(), ShouldContainSubstring, "Neo4j configuration is incomplete")
		})
	})
}

func TestFromFile(t *testing.T) {
	Convey("Given a YAML config file", t, func() {
		path := filepath.Join(t.TempDir(), "config.yaml")
		err := os.WriteFile(path, []byte(`
neo4j:
  url: neo4j://file:7687
vector:
  index:
    name: notes
    node: Note
  dimensions: 768
`), 0o600)
		So(err, ShouldBeNil)

		cfg, err := FromFile(path)

		Convey("It should read the file", func() {
			So(err, ShouldBeNil)
			So(cfg.Neo4j.URL, ShouldEqual, "neo4j://file:7687")
			So(cfg.Index.Name, ShouldEqual, "notes")
			So(cfg.Index.Node, ShouldEqual, "Note")
			So(cfg.Index.Dimensions, ShouldEqual, 768)
			So(cfg.Index.IndexProperty, ShouldEqual, "embedding")
		})
	})

	Convey("Given a missing config file", t, func() {
		_, err := FromFile(filepath.Join(t.TempDir(), "missing.yaml"))

		Convey("It should fail", func() {
			So(err, ShouldNotBeNil)
		})
	})
}
