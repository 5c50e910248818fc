// Package config provides configuration loading for reactionkg.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"reactionkg/internal/kg"
)

const (
	// DefaultConfigFile is looked up in the working directory when no path
	// is given.
	DefaultConfigFile = "reactionkg.yaml"
	// EnvConfigPath overrides the config file location.
	EnvConfigPath = "REACTIONKG_CONFIG"
)

var ErrInvalidRule = errors.New("invalid rule")

// Config is the complete reactionkg configuration.
type Config struct {
	Input         InputConfig      `yaml:"input"`
	Output        OutputConfig     `yaml:"output"`
	Provenance    ProvenanceConfig `yaml:"provenance"`
	CategoryRules []CategoryRule   `yaml:"category_rules"`
	RelationRules []RelationRule   `yaml:"relation_rules"`
	Store         StoreConfig      `yaml:"store"`
	Neo4j         Neo4jConfig      `yaml:"neo4j"`
	Log           LogConfig        `yaml:"log"`
}

// InputConfig locates the spreadsheet.
type InputConfig struct {
	// Path is the .xlsx/.csv file to convert
	Path string `yaml:"path"`
	// Sheet is a sheet name or zero-based index (empty = first sheet)
	Sheet string `yaml:"sheet"`
}

type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// ProvenanceConfig names the literature columns. Empty disables the field.
type ProvenanceConfig struct {
	TitleColumn string `yaml:"title_column"`
	DOIColumn   string `yaml:"doi_column"`
}

// CategoryRule links a category column to the item column it classifies.
type CategoryRule struct {
	Category string `yaml:"category"`
	Item     string `yaml:"item"`
}

// RelationRule links a source column to a target column.
type RelationRule struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}

type StoreConfig struct {
	// DB is the sqlite path the converted graph is saved to (empty = skip)
	DB string `yaml:"db"`
}

// Neo4jConfig configures the optional Neo4j sink. An empty URI disables it.
type Neo4jConfig struct {
	URI      string        `yaml:"uri"`
	User     string        `yaml:"user"`
	Password string        `yaml:"password"`
	Database string        `yaml:"database"`
	Timeout  time.Duration `yaml:"timeout"`
}

type LogConfig struct {
	// Mode is "dev" or "prod"
	Mode string `yaml:"mode"`
}

// DefaultCategoryRules are the category links of the reaction-type workbook.
func DefaultCategoryRules() []CategoryRule {
	return []CategoryRule{
		{Category: "Feedstock category", Item: "Feedstock"},
		{Category: "Catalyst category", Item: "Catalyst"},
		{Category: "Product category", Item: "Product"},
	}
}

// DefaultRelationRules are the column links of the reaction-type workbook.
func DefaultRelationRules() []RelationRule {
	return []RelationRule{
		{Source: "Year", Target: "A reaction type"},
		{Source: "A reaction type", Target: "Feedstock"},
		{Source: "Feedstock", Target: "Operation mode"},
		{Source: "Operation mode", Target: "Catalyst"},
		{Source: "Catalyst", Target: "Product"},
		{Source: "Product", Target: "Product Selectivity"},
		{Source: "Product", Target: "Product yield"},
		{Source: "Atmosphere", Target: "Catalyst"},
		{Source: "Reactant molar ratio", Target: "Catalyst"},
		{Source: "Flow rate", Target: "Catalyst"},
		{Source: "Reaction time", Target: "Catalyst"},
		{Source: "Reaction temperature", Target: "Catalyst"},
		{Source: "Reaction pressure", Target: "Catalyst"},
		{Source: "Solvent", Target: "Catalyst"},
		{Source: "Feedstock", Target: "Conversion rate"},
	}
}

// DefaultConfig returns a Config with the workbook's rules and defaults
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{Dir: "kg_output"},
		Provenance: ProvenanceConfig{
			TitleColumn: "Title",
			DOIColumn:   "DOI",
		},
		CategoryRules: DefaultCategoryRules(),
		RelationRules: DefaultRelationRules(),
		Neo4j: Neo4jConfig{
			User:    "neo4j",
			Timeout: 10 * time.Second,
		},
		Log: LogConfig{Mode: "dev"},
	}
}

// Validate checks that the configuration is usable for a conversion
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Output.Dir) == "" {
		return fmt.Errorf("output.dir is required")
	}
	for i, r := range c.CategoryRules {
		if err := validatePair(r.Category, r.Item); err != nil {
			return fmt.Errorf("category_rules[%d]: %w", i, err)
		}
	}
	for i, r := range c.RelationRules {
		if err := validatePair(r.Source, r.Target); err != nil {
			return fmt.Errorf("relation_rules[%d]: %w", i, err)
		}
	}
	if c.Neo4j.Timeout < 0 {
		return fmt.Errorf("neo4j.timeout must not be negative")
	}
	return nil
}

// ValidateInput additionally requires an input path
func (c *Config) ValidateInput() error {
	if strings.TrimSpace(c.Input.Path) == "" {
		return fmt.Errorf("input.path is required")
	}
	return c.Validate()
}

func validatePair(a, b string) error {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == "" || b == "" {
		return fmt.Errorf("%w: both columns must be set", ErrInvalidRule)
	}
	if a == b {
		return fmt.Errorf("%w: %q links to itself", ErrInvalidRule, a)
	}
	return nil
}

// RuleSet compiles the configured rules for the graph builder. Column names
// are trimmed the same way spreadsheet headers are.
func (c *Config) RuleSet() *kg.RuleSet {
	cat := make([]kg.ColumnPair, 0, len(c.CategoryRules))
	for _, r := range c.CategoryRules {
		cat = append(cat, kg.ColumnPair{Source: strings.TrimSpace(r.Category), Target: strings.TrimSpace(r.Item)})
	}
	rel := make([]kg.ColumnPair, 0, len(c.RelationRules))
	for _, r := range c.RelationRules {
		rel = append(rel, kg.ColumnPair{Source: strings.TrimSpace(r.Source), Target: strings.TrimSpace(r.Target)})
	}
	return kg.NewRuleSet(cat, rel, kg.ProvenanceColumns{
		Title: strings.TrimSpace(c.Provenance.TitleColumn),
		DOI:   strings.TrimSpace(c.Provenance.DOIColumn),
	})
}

// ApplyEnv overlays NEO4J_* environment variables onto the Neo4j section.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv("NEO4J_URI")); v != "" {
		c.Neo4j.URI = v
	}
	if v := strings.TrimSpace(os.Getenv("NEO4J_USER")); v != "" {
		c.Neo4j.User = v
	}
	if v := os.Getenv("NEO4J_PASSWORD"); v != "" {
		c.Neo4j.Password = v
	}
	if v := strings.TrimSpace(os.Getenv("NEO4J_DATABASE")); v != "" {
		c.Neo4j.Database = v
	}
}

// LoadFromFile loads configuration from a YAML file on top of the defaults.
// Only keys present in the file change a value, so an explicit empty string
// (e.g. `title_column: ""`) clears the default. Rule lists in the file
// replace the default lists wholesale.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}

// Load resolves the config file (explicit path, then REACTIONKG_CONFIG,
// then ./reactionkg.yaml) and returns defaults when none exists. An
// explicit path that does not exist is an error.
func Load(path string) (*Config, string, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		cfg, err := LoadFromFile(path)
		if err != nil {
			return nil, "", err
		}
		return cfg, path, nil
	}

	if _, err := os.Stat(DefaultConfigFile); err == nil {
		cfg, err := LoadFromFile(DefaultConfigFile)
		if err != nil {
			return nil, "", err
		}
		return cfg, DefaultConfigFile, nil
	}
	return DefaultConfig(), "", nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Merge merges another config into this one (other takes precedence for
// non-zero values). Used for command-line overrides, where an unset flag is
// the zero value.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Input.Path != "" {
		c.Input.Path = other.Input.Path
	}
	if other.Input.Sheet != "" {
		c.Input.Sheet = other.Input.Sheet
	}
	if other.Output.Dir != "" {
		c.Output.Dir = other.Output.Dir
	}

	if other.Provenance.TitleColumn != "" {
		c.Provenance.TitleColumn = other.Provenance.TitleColumn
	}
	if other.Provenance.DOIColumn != "" {
		c.Provenance.DOIColumn = other.Provenance.DOIColumn
	}

	// Rule lists are ordered; a non-empty list replaces the whole list.
	if len(other.CategoryRules) > 0 {
		c.CategoryRules = append([]CategoryRule(nil), other.CategoryRules...)
	}
	if len(other.RelationRules) > 0 {
		c.RelationRules = append([]RelationRule(nil), other.RelationRules...)
	}

	if other.Store.DB != "" {
		c.Store.DB = other.Store.DB
	}

	if other.Neo4j.URI != "" {
		c.Neo4j.URI = other.Neo4j.URI
	}
	if other.Neo4j.User != "" {
		c.Neo4j.User = other.Neo4j.User
	}
	if other.Neo4j.Password != "" {
		c.Neo4j.Password = other.Neo4j.Password
	}
	if other.Neo4j.Database != "" {
		c.Neo4j.Database = other.Neo4j.Database
	}
	if other.Neo4j.Timeout != 0 {
		c.Neo4j.Timeout = other.Neo4j.Timeout
	}

	if other.Log.Mode != "" {
		c.Log.Mode = other.Log.Mode
	}
}
