package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/theapemachine/neo4j-vector-memory/pkg/memory/query"
	"github.com/theapemachine/neo4j-vector-memory/pkg/tools/memory"
	"gopkg.in/yaml.v3"
)

type renderOptions struct {
	collection string
	key        string
	keys       []string
	embedding  string
	embeddings string
	minScore   float64
	limit      int
	format     string
}

func newRenderCmd() *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render <operation>",
		Short: "Print the Cypher and parameters of one operation without a database",
		Long: `Render builds the query the vector_index tool would send for an operation.
Operations: list_indexes, create_index, drop_index, upsert, upsert_batch, get,
get_batch, remove, remove_batch, nearest_match.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			factory, err := newFactory(cfg)
			if err != nil {
				return err
			}

			if opts.collection == "" {
				opts.collection = cfg.Index.Name
			}

			q, err := opts.build(factory, args[0], cmd.Flags().Changed("limit"))
			if err != nil {
				return err
			}

			return writeQuery(cmd.OutOrStdout(), q, opts.format)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.collection, "collection", "", "Collection name, defaults to the configured index")
	flags.StringVar(&opts.key, "key", "", "Node id")
	flags.StringSliceVar(&opts.keys, "keys", nil, "Node ids for batch operations")
	flags.StringVar(&opts.embedding, "embedding", "", "JSON array of numbers")
	flags.StringVar(&opts.embeddings, "embeddings", "", "JSON array of arrays, one per key")
	flags.Float64Var(&opts.minScore, "min-score", 0, "Lowest similarity score for nearest_match")
	flags.IntVar(&opts.limit, "limit", query.DefaultLimit, "Maximum nearest matches")
	flags.StringVar(&opts.format, "format", "json", "Output format: json or yaml")

	return cmd
}

func (opts *renderOptions) build(factory query.Factory, operation string, withLimit bool) (query.Query, error) {
	kind, ok := memory.Operation(operation)
	if !ok {
		return query.Query{}, fmt.Errorf("invalid operation: %s", operation)
	}

	var (
		embedding  []float32
		embeddings [][]float32
		limit      []int
	)

	if opts.embedding != "" {
		if err := json.Unmarshal([]byte(opts.embedding), &embedding); err != nil {
			return query.Query{}, fmt.Errorf("embedding: %w", err)
		}
	}

	if opts.embeddings != "" {
		if err := json.Unmarshal([]byte(opts.embeddings), &embeddings); err != nil {
			return query.Query{}, fmt.Errorf("embeddings: %w", err)
		}
	}

	if withLimit {
		limit = []int{opts.limit}
	}

	return memory.Build(factory, kind, opts.collection, opts.key, opts.keys, embedding, embeddings, opts.minScore, limit...)
}

func writeQuery(w io.Writer, q query.Query, format string) error {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(q); err != nil {
			return err
		}
		return encoder.Close()
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(q)
	}

	return fmt.Errorf("unknown format %q", format)
}
