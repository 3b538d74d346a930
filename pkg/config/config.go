// Package config provides centralized configuration management for the vector memory server.
package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"
	"github.com/theapemachine/neo4j-vector-memory/pkg/memory/query"
)

// Config holds the complete configuration for the application
type Config struct {
	// Graph database (Neo4j)
	Neo4j struct {
		URL      string
		Username string
		Password string
		Database string
	}

	// Vector index the query factory is bound to
	Index struct {
		Name          string
		Node          string
		IndexProperty string
		TextProperty  string
		Dimensions    int
		BatchPolicy   string
	}

	LogLevel string
}

var (
	once   sync.Once
	config *Config
)

func newViper() *viper.Viper {
	v := viper.New()

	// Set default values
	v.SetDefault("neo4j.database", "neo4j")
	v.SetDefault("vector.index.name", "vector_index")
	v.SetDefault("vector.index.node", "Memory")
	v.SetDefault("vector.index.property", "embedding")
	v.SetDefault("vector.text.property", "text")
	v.SetDefault("vector.dimensions", 1536)
	v.SetDefault("vector.batch.policy", "truncate")
	v.SetDefault("log.level", "info")

	// NEO4J_URL maps to neo4j.url, VECTOR_INDEX_NAME to vector.index.name and so on
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Neo4j.URL = v.GetString("neo4j.url")
	cfg.Neo4j.Username = v.GetString("neo4j.username")
	// Fallback to NEO4J_USER if NEO4J_USERNAME not set
	if cfg.Neo4j.Username == "" {
		cfg.Neo4j.Username = v.GetString("neo4j.user")
	}
	cfg.Neo4j.Password = v.GetString("neo4j.password")
	cfg.Neo4j.Database = v.GetString("neo4j.database")

	cfg.Index.Name = v.GetString("vector.index.name")
	cfg.Index.Node = v.GetString("vector.index.node")
	cfg.Index.IndexProperty = v.GetString("vector.index.property")
	cfg.Index.TextProperty = v.GetString("vector.text.property")
	cfg.Index.Dimensions = v.GetInt("vector.dimensions")
	cfg.Index.BatchPolicy = strings.ToLower(v.GetString("vector.batch.policy"))

	cfg.LogLevel = v.GetString("log.level")

	return cfg
}

// Load initializes and loads the configuration from environment variables
func Load() *Config {
	once.Do(func() {
		config = fromViper(newViper())
	})

	return config
}

// FromFile loads the configuration from a YAML, JSON or TOML file, with
// environment variables taking precedence over the file
func FromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return fromViper(v), nil
}

// Identity returns the vector index identity described by the configuration
func (c *Config) Identity() query.Identity {
	return query.Identity{
		Name:          c.Index.Name,
		Node:          c.Index.Node,
		IndexProperty: c.Index.IndexProperty,
		TextProperty:  c.Index.TextProperty,
		Dimensions:    c.Index.Dimensions,
	}
}

// BatchPolicy maps the configured policy name onto the query factory option
func (c *Config) BatchPolicy() (query.BatchPolicy, error) {
	switch c.Index.BatchPolicy {
	case "", "truncate":
		return query.BatchTruncate, nil
	case "strict":
		return query.BatchStrict, nil
	default:
		return query.BatchTruncate, fmt.Errorf("unknown batch policy %q", c.Index.BatchPolicy)
	}
}

// HasNeo4j reports whether enough is configured to connect to Neo4j
func (c *Config) HasNeo4j() bool {
	return c.Neo4j.URL != "" && c.Neo4j.Username != "" && c.Neo4j.Password != ""
}

// Validate checks if all required configuration values are set
func (c *Config) Validate() error {
	// List of validation errors
	var errors []string

	if err := c.Identity().Validate(); err != nil {
		errors = append(errors, err.Error())
	}

	if _, err := c.BatchPolicy(); err != nil {
		errors = append(errors, err.Error())
	}

	if c.Neo4j.URL != "" && !c.HasNeo4j() {
		errors = append(errors, "Neo4j configuration is incomplete")
	}

	// If any errors were found, return them as a combined error
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %v", errors)
	}

	return nil
}
