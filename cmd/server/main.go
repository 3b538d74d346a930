// Command server is the main entry point for the vector index MCP server
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"github.com/theapemachine/neo4j-vector-memory/core/middleware"
	"github.com/theapemachine/neo4j-vector-memory/pkg/config"
	memstore "github.com/theapemachine/neo4j-vector-memory/pkg/memory"
	"github.com/theapemachine/neo4j-vector-memory/pkg/memory/query"
	"github.com/theapemachine/neo4j-vector-memory/pkg/tools"
	"github.com/theapemachine/neo4j-vector-memory/pkg/tools/memory"
)

var configFile string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "server",
		Short:         "Cypher query factory for Neo4j vector indexes",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a YAML config file (environment variables still apply)")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newRenderCmd())

	return rootCmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the vector_index tool over MCP stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			factory, err := newFactory(cfg)
			if err != nil {
				return err
			}

			var store memstore.GraphStore

			// Without Neo4j the tool still renders queries
			if cfg.HasNeo4j() {
				neo4jStore, err := memstore.NewNeo4jStore(cfg.Neo4j.URL, cfg.Neo4j.Username, cfg.Neo4j.Password, cfg.Neo4j.Database)
				if err != nil {
					log.Warn("Could not initialize graph store", "err", err)
				} else {
					defer neo4jStore.Close(context.Background())
					store = neo4jStore
				}
			}

			mcpServer := server.NewMCPServer(
				"Vector Index MCP Server",
				"1.0.0",
				server.WithResourceCapabilities(false, false),
				server.WithLogging(),
			)

			registry := tools.NewRegistry(mcpServer, middleware.Logging, middleware.Recover)
			registry.Register(memory.New(factory, store))

			log.Info("Server started, waiting for requests...", "index", cfg.Index.Name, "execute", store != nil)

			if err := server.ServeStdio(mcpServer); err != nil {
				return fmt.Errorf("server error: %w", err)
			}

			log.Info("Server shutdown complete")
			return nil
		},
	}
}

// loadConfig reads the configuration and applies the log level
func loadConfig() (*config.Config, error) {
	cfg := config.Load()

	if configFile != "" {
		var err error
		if cfg, err = config.FromFile(configFile); err != nil {
			return nil, err
		}
	}

	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.Warn("Unknown log level, keeping info", "level", cfg.LogLevel)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func newFactory(cfg *config.Config) (*query.IndexFactory, error) {
	policy, err := cfg.BatchPolicy()
	if err != nil {
		return nil, err
	}

	return query.NewIndexFactory(cfg.Identity(), query.WithBatchPolicy(policy))
}
