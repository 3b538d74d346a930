package main

import (
	"bytes"
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/theapemachine/neo4j-vector-memory/pkg/memory/query"
	"gopkg.in/yaml.v3"
)

func runRender(args ...string) (string, error) {
	cmd := newRootCmd()
	out := &bytes.Buffer{}

	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"render"}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestRenderCommand(t *testing.T) {
	Convey("Given the render command with the default configuration", t, func() {
		Convey("When rendering an upsert as JSON", func() {
			out, err := runRender("upsert", "--key", "k1", "--embedding", "[0.1,0.2,0.3]")

			Convey("It should print the query and its parameters", func() {
				So(err, ShouldBeNil)

				var q query.Query
				So(json.Unmarshal([]byte(out), &q), ShouldBeNil)
				So(q.Kind, ShouldEqual, query.KindUpsert)
				So(q.Params["id"], ShouldEqual, "k1")
				So(q.Params["node"], ShouldEqual, "Memory")
				So(q.Params["embedding"], ShouldResemble, []any{0.1, 0.2, 0.3})
			})
		})

		Convey("When rendering a create index as YAML", func() {
			out, err := runRender("create_index", "--format", "yaml")

			Convey("It should print the substituted schema", func() {
				So(err, ShouldBeNil)

				var q map[string]any
				So(yaml.Unmarshal([]byte(out), &q), ShouldBeNil)
				So(q["kind"], ShouldEqual, "create_index")
				So(q["text"], ShouldContainSubstring, "CREATE VECTOR INDEX `vector_index`")
				So(q["text"], ShouldContainSubstring, "`vector.dimensions`: 1536")
			})
		})

		Convey("When rendering a nearest match without a limit", func() {
			out, err := runRender("nearest_match", "--embedding", "[1,0]", "--min-score", "0.7")

			Convey("It should use the default limit", func() {
				So(err, ShouldBeNil)

				var q query.Query
				So(json.Unmarshal([]byte(out), &q), ShouldBeNil)
				So(q.Params["limit"], ShouldEqual, float64(1))
				So(q.Params["minRelevanceScore"], ShouldEqual, 0.7)
			})
		})

		Convey("When the collection does not match the index", func() {
			_, err := runRender("drop_index", "--collection", "documents")

			Convey("It should fail with the mismatch", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, `"documents"`)
			})
		})

		Convey("When the operation is unknown", func() {
			_, err := runRender("merge")

			Convey("It should fail", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
