package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

type Neo4jConfig struct {
	URI      string `toml:"uri" validate:"required"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type ServerConfig struct {
	Port string `toml:"port"`
}

// ExtractionConfig selects and parameterizes the keyword-extraction
// collaborator. An empty provider disables extraction; creates then
// require explicit keywords.
type ExtractionConfig struct {
	Provider string `toml:"provider" validate:"omitempty,oneof=openai claude ollama"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
	Prompt   string `toml:"prompt"`
}

type Config struct {
	Neo4j      Neo4jConfig      `toml:"neo4j"`
	Server     ServerConfig     `toml:"server"`
	Extraction ExtractionConfig `toml:"extraction"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Environment variables override file values so deployments can keep
// secrets out of the TOML.
func (c *Config) applyEnv() {
	if v := os.Getenv("NEO4J_URI"); v != "" {
		c.Neo4j.URI = v
	}
	if v := os.Getenv("NEO4J_USER"); v != "" {
		c.Neo4j.User = v
	}
	if v := os.Getenv("NEO4J_PASSWORD"); v != "" {
		c.Neo4j.Password = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("EXTRACTION_PROVIDER"); v != "" {
		c.Extraction.Provider = v
	}
	if v := os.Getenv("EXTRACTION_MODEL"); v != "" {
		c.Extraction.Model = v
	}
	if v := os.Getenv("EXTRACTION_API_KEY"); v != "" {
		c.Extraction.APIKey = v
	}
	if v := os.Getenv("EXTRACTION_BASE_URL"); v != "" {
		c.Extraction.BaseURL = v
	}
}

func (c *Config) applyDefaults() {
	if c.Neo4j.URI == "" {
		c.Neo4j.URI = "bolt://localhost:7687"
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
}
